package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/core/ports"
)

type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Mobile   string `json:"mobile" form:"mobile" validate:"required,max=20"`
	City     string `json:"city" form:"city" validate:"required,max=100"`
}

// Submit stores a contact form.
//
// @Summary      Submit contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Contact details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /contact [post]
func (h *ContactHandler) Submit(c echo.Context) (Result, error) {
	var req contactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Result{}, err
	}

	sub, err := h.service.Submit(c.Request().Context(), ports.ContactInput{
		FullName: req.FullName,
		Email:    req.Email,
		Mobile:   req.Mobile,
		City:     req.City,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Status: http.StatusCreated, Message: "Contact form submitted successfully", Key: "contact", Data: sub}, nil
}

// @Summary      List contact submissions
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /admin/contact [get]
func (h *ContactHandler) List(c echo.Context) (Result, error) {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return Result{}, err
	}
	return listed("contacts", items), nil
}

// @Summary      Get contact submission
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Submission ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/contact/{id} [get]
func (h *ContactHandler) Get(c echo.Context) (Result, error) {
	sub, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Result{}, err
	}
	return ok("contact", sub), nil
}

// @Summary      Delete contact submission
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Submission ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/contact/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) (Result, error) {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return Result{}, err
	}
	return message(http.StatusOK, "Contact submission deleted successfully"), nil
}

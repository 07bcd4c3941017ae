package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/core/ports"
)

type NewsletterHandler struct {
	service ports.NewsletterService
}

func NewNewsletterHandler(service ports.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

type subscribeRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// Subscribe adds an email to the newsletter. A second subscription of the
// same address is rejected with 400.
//
// @Summary      Subscribe to newsletter
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        body  body      subscribeRequest  true  "Email"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c echo.Context) (Result, error) {
	var req subscribeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Result{}, err
	}

	sub, err := h.service.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: http.StatusCreated, Message: "Subscribed to newsletter successfully", Key: "subscriber", Data: sub}, nil
}

// @Summary      List subscribers
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /admin/newsletters [get]
func (h *NewsletterHandler) List(c echo.Context) (Result, error) {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return Result{}, err
	}
	return listed("subscribers", items), nil
}

// @Summary      Delete subscriber
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Subscriber ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/newsletters/{id} [delete]
func (h *NewsletterHandler) Delete(c echo.Context) (Result, error) {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return Result{}, err
	}
	return message(http.StatusOK, "Subscriber removed successfully"), nil
}

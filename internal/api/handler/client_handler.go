package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/core/ports"
)

// ClientHandler serves client testimonials.
type ClientHandler struct {
	service ports.ClientService
	form    imageForm
}

func NewClientHandler(service ports.ClientService, maxImageBytes int64) *ClientHandler {
	return &ClientHandler{service: service, form: newImageForm(maxImageBytes)}
}

// Create adds a client testimonial.
//
// @Summary      Create client
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true   "Client name"
// @Param        description  formData  string  true   "Testimonial"
// @Param        designation  formData  string  true   "Client designation"
// @Param        image        formData  file    false  "Image file (or an image URL text field)"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /admin/clients [post]
func (h *ClientHandler) Create(c echo.Context) (Result, error) {
	params, err := h.form.fields(c)
	if err != nil {
		return Result{}, err
	}
	img, err := h.form.image(c, params)
	if err != nil {
		return Result{}, err
	}

	cl, err := h.service.Create(c.Request().Context(), ports.CreateClientInput{
		Name:        params.Get("name"),
		Description: params.Get("description"),
		Designation: params.Get("designation"),
		Image:       img,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Status: http.StatusCreated, Message: "Client created successfully", Key: "client", Data: cl}, nil
}

// List returns all clients, newest first.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) (Result, error) {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return Result{}, err
	}
	return listed("clients", items), nil
}

// Get returns one client.
//
// @Summary      Get client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) (Result, error) {
	cl, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Result{}, err
	}
	return ok("client", cl), nil
}

// Update changes the fields present in the form.
//
// @Summary      Update client
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      string  true   "Client ID"
// @Param        name         formData  string  false  "Client name"
// @Param        description  formData  string  false  "Testimonial"
// @Param        designation  formData  string  false  "Client designation"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) (Result, error) {
	params, err := h.form.fields(c)
	if err != nil {
		return Result{}, err
	}
	img, err := h.form.image(c, params)
	if err != nil {
		return Result{}, err
	}

	cl, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateClientInput{
		Name:        optional(params, "name"),
		Description: optional(params, "description"),
		Designation: optional(params, "designation"),
		Image:       img,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Message: "Client updated successfully", Key: "client", Data: cl}, nil
}

// Delete removes a client and its stored image.
//
// @Summary      Delete client
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Client ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) (Result, error) {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return Result{}, err
	}
	return message(http.StatusOK, "Client deleted successfully"), nil
}

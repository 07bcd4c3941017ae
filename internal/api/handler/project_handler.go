package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/core/ports"
)

// ProjectHandler serves the public project listing and the admin CRUD.
type ProjectHandler struct {
	service ports.ProjectService
	form    imageForm
}

func NewProjectHandler(service ports.ProjectService, maxImageBytes int64) *ProjectHandler {
	return &ProjectHandler{service: service, form: newImageForm(maxImageBytes)}
}

// Create adds a project.
//
// @Summary      Create project
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true   "Project name"
// @Param        description  formData  string  true   "Project description"
// @Param        image        formData  file    false  "Image file (or an image URL text field)"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /admin/projects [post]
func (h *ProjectHandler) Create(c echo.Context) (Result, error) {
	params, err := h.form.fields(c)
	if err != nil {
		return Result{}, err
	}
	img, err := h.form.image(c, params)
	if err != nil {
		return Result{}, err
	}

	p, err := h.service.Create(c.Request().Context(), ports.CreateProjectInput{
		Name:        params.Get("name"),
		Description: params.Get("description"),
		Image:       img,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Status: http.StatusCreated, Message: "Project created successfully", Key: "project", Data: p}, nil
}

// List returns all projects, newest first.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) (Result, error) {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return Result{}, err
	}
	return listed("projects", items), nil
}

// Get returns one project.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) (Result, error) {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Result{}, err
	}
	return ok("project", p), nil
}

// Update changes the fields present in the form.
//
// @Summary      Update project
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      string  true   "Project ID"
// @Param        name         formData  string  false  "Project name"
// @Param        description  formData  string  false  "Project description"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) (Result, error) {
	params, err := h.form.fields(c)
	if err != nil {
		return Result{}, err
	}
	img, err := h.form.image(c, params)
	if err != nil {
		return Result{}, err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateProjectInput{
		Name:        optional(params, "name"),
		Description: optional(params, "description"),
		Image:       img,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Message: "Project updated successfully", Key: "project", Data: p}, nil
}

// Delete removes a project and its stored image.
//
// @Summary      Delete project
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /admin/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) (Result, error) {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return Result{}, err
	}
	return message(http.StatusOK, "Project deleted successfully"), nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flipiri/flipiri-api/internal/api/session"
	"github.com/flipiri/flipiri-api/internal/core/domain"
	"github.com/flipiri/flipiri-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	carrier     *session.Carrier
}

func NewAuthHandler(authService ports.AuthService, carrier *session.Carrier) *AuthHandler {
	return &AuthHandler{authService: authService, carrier: carrier}
}

type registerRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Register creates a user account and starts a session.
//
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) (Result, error) {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Result{}, err
	}

	sess, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return Result{}, err
	}
	return h.started(c, sess, http.StatusCreated, "User registered successfully"), nil
}

// Login authenticates any account.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) (Result, error) {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Result{}, err
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return Result{}, err
	}
	return h.started(c, sess, http.StatusOK, "Login successful"), nil
}

// AdminLogin authenticates admin accounts only. Valid non-admin credentials
// get 403 and no cookie.
//
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /admin/login [post]
func (h *AuthHandler) AdminLogin(c echo.Context) (Result, error) {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Result{}, err
	}

	sess, err := h.authService.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return Result{}, err
	}
	return h.started(c, sess, http.StatusOK, "Admin login successful"), nil
}

// Logout clears the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) (Result, error) {
	h.carrier.Clear(c)
	return message(http.StatusOK, "Logged out successfully"), nil
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) (Result, error) {
	account := session.Account(c)
	if account == nil {
		return Result{}, domain.ErrUnauthorized
	}
	return ok("user", account), nil
}

func (h *AuthHandler) started(c echo.Context, sess *ports.Session, status int, msg string) Result {
	h.carrier.Attach(c, sess.Token)
	return Result{
		Status:  status,
		Message: msg,
		Key:     "user",
		Data:    sess.Account,
		Token:   sess.Token,
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	return c.Validate(req)
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solvesphere/solvesphere/internal/auth"
	"github.com/solvesphere/solvesphere/internal/domain"
)

// Signup creates an account.
// POST /v1/auth/signup
func (h *Handler) Signup(c echo.Context) error {
	var req domain.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.Signup(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Signin authenticates an account.
// POST /v1/auth/signin
func (h *Handler) Signin(c echo.Context) error {
	var req domain.SigninRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.Signin(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetUser retrieves a user's public profile.
// GET /v1/users/:user_id
func (h *Handler) GetUser(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, user.SafeProfile())
}

// UpdateProfile edits the caller's profile.
// PATCH /v1/users/me
func (h *Handler) UpdateProfile(c echo.Context) error {
	var update domain.User
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), auth.UserID(c), &update)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, user)
}

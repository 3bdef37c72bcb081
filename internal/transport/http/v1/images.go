package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solvesphere/solvesphere/internal/domain"
)

// GenerateImage generates images from a text prompt.
// POST /v1/generate-image
func (h *Handler) GenerateImage(c echo.Context) error {
	var req domain.GenerateImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Prompt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "prompt is required"})
	}

	resp, err := h.service.GenerateImage(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

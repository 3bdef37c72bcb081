package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solvesphere/solvesphere/internal/domain"
)

// ListFragments lists a session's accumulated fragments.
// GET /v1/sessions/:session_id/fragments
func (h *Handler) ListFragments(c echo.Context) error {
	kind := domain.FragmentKind(c.QueryParam("kind"))
	if kind != "" && !domain.ValidFragmentKind(kind) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown fragment kind"})
	}

	fragments, err := h.service.ListFragments(c.Request().Context(), c.Param("session_id"), kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"fragments": fragments,
	})
}

// GetFragment retrieves a fragment.
// GET /v1/fragments/:fragment_id
func (h *Handler) GetFragment(c echo.Context) error {
	fragment, err := h.service.GetFragment(c.Request().Context(), c.Param("fragment_id"))
	if err != nil {
		return respondError(c, err)
	}
	if fragment == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "fragment not found"})
	}
	return c.JSON(http.StatusOK, fragment)
}

// AddNote appends a note fragment to a workspace.
// POST /v1/sessions/:session_id/notes
func (h *Handler) AddNote(c echo.Context) error {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	fragment, err := h.service.AddNote(c.Request().Context(), c.Param("session_id"), req.Title, req.Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, fragment)
}

// UpdateFragment applies a partial edit to a fragment.
// PATCH /v1/fragments/:fragment_id
func (h *Handler) UpdateFragment(c echo.Context) error {
	var patch domain.FragmentPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	fragment, err := h.service.UpdateFragment(c.Request().Context(), c.Param("fragment_id"), &patch)
	if err != nil {
		return respondError(c, err)
	}
	if fragment == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "fragment not found"})
	}
	return c.JSON(http.StatusOK, fragment)
}

// DeleteFragment removes a fragment from its workspace.
// DELETE /v1/fragments/:fragment_id
func (h *Handler) DeleteFragment(c echo.Context) error {
	if err := h.service.DeleteFragment(c.Request().Context(), c.Param("fragment_id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RenderFragment renders a fragment to HTML.
// GET /v1/fragments/:fragment_id/render
func (h *Handler) RenderFragment(c echo.Context) error {
	html, err := h.service.RenderFragment(c.Request().Context(), c.Param("fragment_id"))
	if err != nil {
		return respondError(c, err)
	}
	if html == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "fragment not found"})
	}
	return c.HTML(http.StatusOK, html)
}

// ExportWorkspace renders a session's content as one HTML document.
// GET /v1/sessions/:session_id/export
func (h *Handler) ExportWorkspace(c echo.Context) error {
	html, err := h.service.ExportWorkspace(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.HTML(http.StatusOK, html)
}

// RetryMaterialization re-queues a failed image fragment.
// POST /v1/fragments/:fragment_id/materialize
func (h *Handler) RetryMaterialization(c echo.Context) error {
	fragment, err := h.service.RetryMaterialization(c.Request().Context(), c.Param("fragment_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if fragment == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "fragment not found"})
	}
	return c.JSON(http.StatusAccepted, fragment)
}

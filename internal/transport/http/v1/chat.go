package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/solvesphere/solvesphere/internal/auth"
	"github.com/solvesphere/solvesphere/internal/domain"
)

// ChatTurn runs one chat turn in a problem's solving workspace.
// POST /v1/problems/:problem_id/chat
func (h *Handler) ChatTurn(c echo.Context) error {
	var req domain.ChatTurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	problemID := c.Param("problem_id")
	problem, err := h.service.GetProblem(c.Request().Context(), problemID)
	if err != nil {
		return respondError(c, err)
	}
	if problem == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "problem not found"})
	}

	resp, err := h.service.ChatTurn(c.Request().Context(), problemID, auth.UserID(c), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// ChatTurnStream runs one chat turn, streaming the reply as SSE. Each
// delta is forwarded as a `{"delta": ...}` event; the final event carries
// the full turn response, followed by a [DONE] marker.
// POST /v1/problems/:problem_id/chat/stream
func (h *Handler) ChatTurnStream(c echo.Context) error {
	var req domain.ChatTurnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	problemID := c.Param("problem_id")
	problem, err := h.service.GetProblem(c.Request().Context(), problemID)
	if err != nil {
		return respondError(c, err)
	}
	if problem == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "problem not found"})
	}

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
	}

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	resp, err := h.service.ChatTurnStream(c.Request().Context(), problemID, auth.UserID(c), &req, func(delta string) error {
		data, err := json.Marshal(map[string]string{"delta": delta})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data)
	} else {
		data, _ := json.Marshal(resp)
		fmt.Fprintf(c.Response().Writer, "data: %s\n\n", data)
	}
	fmt.Fprintf(c.Response().Writer, "data: [DONE]\n\n")
	flusher.Flush()
	return nil
}

// ListModels lists the models the assistant provider offers.
// GET /v1/models
func (h *Handler) ListModels(c echo.Context) error {
	models, err := h.service.ListModels(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"models": models,
	})
}

// GetSessionMessages retrieves messages for a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	before := c.QueryParam("before")

	messages, err := h.service.GetMessages(c.Request().Context(), sessionID, limit, before)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
		"has_more": len(messages) == limit,
	})
}

// DeleteMessage removes a message from a transcript. Fragments extracted
// from it are untouched.
// DELETE /v1/messages/:message_id
func (h *Handler) DeleteMessage(c echo.Context) error {
	if err := h.service.DeleteMessage(c.Request().Context(), c.Param("message_id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateSolution produces a write-up from a session.
// POST /v1/generate-solution
func (h *Handler) GenerateSolution(c echo.Context) error {
	var req domain.GenerateSolutionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.GenerateSolution(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	if resp == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.JSON(http.StatusOK, resp)
}

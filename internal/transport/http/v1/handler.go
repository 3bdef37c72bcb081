// Package v1 provides the public HTTP API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solvesphere/solvesphere/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	authRequired := h.service.Auth().Middleware()
	authOptional := h.service.Auth().OptionalMiddleware()

	// Auth
	e.POST("/v1/auth/signup", h.Signup)
	e.POST("/v1/auth/signin", h.Signin)
	e.GET("/v1/users/:user_id", h.GetUser)
	e.PATCH("/v1/users/me", h.UpdateProfile, authRequired)

	// Problem catalog
	e.GET("/v1/problems", h.ListProblems)
	e.GET("/v1/problems/:problem_id", h.GetProblem)
	e.POST("/v1/problems", h.CreateProblem, authRequired)
	e.PATCH("/v1/problems/:problem_id", h.UpdateProblem, authRequired)
	e.DELETE("/v1/problems/:problem_id", h.DeleteProblem, authRequired)

	// Solving workspace
	e.POST("/v1/problems/:problem_id/chat", h.ChatTurn, authRequired)
	e.POST("/v1/problems/:problem_id/chat/stream", h.ChatTurnStream, authRequired)
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages, authRequired)
	e.DELETE("/v1/messages/:message_id", h.DeleteMessage, authRequired)
	e.GET("/v1/sessions/:session_id/fragments", h.ListFragments, authRequired)
	e.GET("/v1/sessions/:session_id/export", h.ExportWorkspace, authRequired)
	e.POST("/v1/sessions/:session_id/notes", h.AddNote, authRequired)
	e.GET("/v1/fragments/:fragment_id", h.GetFragment, authRequired)
	e.PATCH("/v1/fragments/:fragment_id", h.UpdateFragment, authRequired)
	e.DELETE("/v1/fragments/:fragment_id", h.DeleteFragment, authRequired)
	e.GET("/v1/fragments/:fragment_id/render", h.RenderFragment, authRequired)
	e.POST("/v1/fragments/:fragment_id/materialize", h.RetryMaterialization, authRequired)

	// Generation
	e.POST("/v1/generate-image", h.GenerateImage, authRequired)
	e.POST("/v1/generate-solution", h.GenerateSolution, authRequired)
	e.GET("/v1/models", h.ListModels, authRequired)

	// Community
	e.GET("/v1/solutions", h.ListSolutions, authOptional)
	e.GET("/v1/solutions/:solution_id", h.GetSolution, authOptional)
	e.POST("/v1/solutions", h.CreateSolution, authRequired)
	e.PATCH("/v1/solutions/:solution_id", h.UpdateSolution, authRequired)
	e.DELETE("/v1/solutions/:solution_id", h.DeleteSolution, authRequired)
	e.GET("/v1/solutions/:solution_id/comments", h.ListComments)
	e.POST("/v1/solutions/:solution_id/comments", h.CreateComment, authRequired)
	e.DELETE("/v1/comments/:comment_id", h.DeleteComment, authRequired)
	e.GET("/v1/votes", h.GetVotes)
	e.POST("/v1/votes", h.CastVote, authRequired)

	// Live updates
	e.GET("/v1/ws", h.ServeWS, authRequired)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// respondError maps service errors to HTTP responses.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, service.ErrEmailTaken):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrBadCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrUpstream):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

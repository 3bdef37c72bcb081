package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/solvesphere/solvesphere/internal/auth"
	"github.com/solvesphere/solvesphere/internal/domain"
)

// ListSolutions lists visible solutions.
// GET /v1/solutions
func (h *Handler) ListSolutions(c echo.Context) error {
	filter := domain.SolutionFilter{
		ProblemID:   c.QueryParam("problem_id"),
		UserID:      c.QueryParam("user_id"),
		RequesterID: auth.UserID(c),
		Limit:       10,
	}
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			filter.Limit = val
		}
	}
	if o := c.QueryParam("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil {
			filter.Offset = val
		}
	}

	solutions, err := h.service.ListSolutions(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"solutions": solutions,
		"has_more":  len(solutions) == filter.Limit,
	})
}

// GetSolution retrieves a solution.
// GET /v1/solutions/:solution_id
func (h *Handler) GetSolution(c echo.Context) error {
	solution, err := h.service.GetSolution(c.Request().Context(), auth.UserID(c), auth.IsAdmin(c), c.Param("solution_id"))
	if err != nil {
		return respondError(c, err)
	}
	if solution == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "solution not found"})
	}
	return c.JSON(http.StatusOK, solution)
}

// CreateSolution publishes a solution write-up.
// POST /v1/solutions
func (h *Handler) CreateSolution(c echo.Context) error {
	var solution domain.Solution
	if err := c.Bind(&solution); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	created, err := h.service.CreateSolution(c.Request().Context(), auth.UserID(c), &solution)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateSolution edits a solution.
// PATCH /v1/solutions/:solution_id
func (h *Handler) UpdateSolution(c echo.Context) error {
	var update domain.Solution
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	solution, err := h.service.UpdateSolution(c.Request().Context(), auth.UserID(c), auth.IsAdmin(c), c.Param("solution_id"), &update)
	if err != nil {
		return respondError(c, err)
	}
	if solution == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "solution not found"})
	}
	return c.JSON(http.StatusOK, solution)
}

// DeleteSolution removes a solution.
// DELETE /v1/solutions/:solution_id
func (h *Handler) DeleteSolution(c echo.Context) error {
	if err := h.service.DeleteSolution(c.Request().Context(), auth.UserID(c), auth.IsAdmin(c), c.Param("solution_id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListComments lists comments on a solution.
// GET /v1/solutions/:solution_id/comments
func (h *Handler) ListComments(c echo.Context) error {
	filter := domain.CommentFilter{
		SolutionID: c.Param("solution_id"),
		ParentID:   c.QueryParam("parent_id"),
		Limit:      50,
	}
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			filter.Limit = val
		}
	}

	comments, err := h.service.ListComments(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"comments": comments,
	})
}

// CreateComment adds a comment to a solution.
// POST /v1/solutions/:solution_id/comments
func (h *Handler) CreateComment(c echo.Context) error {
	var comment domain.Comment
	if err := c.Bind(&comment); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	comment.SolutionID = c.Param("solution_id")

	created, err := h.service.CreateComment(c.Request().Context(), auth.UserID(c), &comment)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, created)
}

// DeleteComment removes a comment.
// DELETE /v1/comments/:comment_id
func (h *Handler) DeleteComment(c echo.Context) error {
	if err := h.service.DeleteComment(c.Request().Context(), auth.UserID(c), auth.IsAdmin(c), c.Param("comment_id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetVotes returns the vote summary for a solution.
// GET /v1/votes?solution_id=...
func (h *Handler) GetVotes(c echo.Context) error {
	solutionID := c.QueryParam("solution_id")
	if solutionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "solution_id is required"})
	}

	summary, err := h.service.SummarizeVotes(c.Request().Context(), solutionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// CastVote casts, flips, or removes the caller's vote.
// POST /v1/votes
func (h *Handler) CastVote(c echo.Context) error {
	var req domain.VoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	summary, err := h.service.CastVote(c.Request().Context(), auth.UserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

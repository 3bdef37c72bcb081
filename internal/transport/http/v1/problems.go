package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/solvesphere/solvesphere/internal/auth"
	"github.com/solvesphere/solvesphere/internal/domain"
)

// ListProblems lists problems.
// GET /v1/problems
func (h *Handler) ListProblems(c echo.Context) error {
	filter := domain.ProblemFilter{
		Category: c.QueryParam("category"),
		Limit:    10,
	}
	if d := c.QueryParam("difficulty"); d != "" {
		if val, err := strconv.Atoi(d); err == nil {
			filter.Difficulty = val
		}
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

	problems, err := h.service.ListProblems(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"problems": problems,
		"has_more": len(problems) == filter.Limit,
	})
}

// GetProblem retrieves a problem.
// GET /v1/problems/:problem_id
func (h *Handler) GetProblem(c echo.Context) error {
	problem, err := h.service.GetProblem(c.Request().Context(), c.Param("problem_id"))
	if err != nil {
		return respondError(c, err)
	}
	if problem == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "problem not found"})
	}
	return c.JSON(http.StatusOK, problem)
}

// CreateProblem adds a problem to the catalog.
// POST /v1/problems
func (h *Handler) CreateProblem(c echo.Context) error {
	var problem domain.Problem
	if err := c.Bind(&problem); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	created, err := h.service.CreateProblem(c.Request().Context(), auth.UserID(c), &problem)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateProblem edits a problem.
// PATCH /v1/problems/:problem_id
func (h *Handler) UpdateProblem(c echo.Context) error {
	var update domain.Problem
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	problem, err := h.service.UpdateProblem(c.Request().Context(), auth.UserID(c), auth.IsAdmin(c), c.Param("problem_id"), &update)
	if err != nil {
		return respondError(c, err)
	}
	if problem == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "problem not found"})
	}
	return c.JSON(http.StatusOK, problem)
}

// DeleteProblem removes a problem.
// DELETE /v1/problems/:problem_id
func (h *Handler) DeleteProblem(c echo.Context) error {
	if err := h.service.DeleteProblem(c.Request().Context(), auth.UserID(c), auth.IsAdmin(c), c.Param("problem_id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

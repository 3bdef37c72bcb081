package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solvesphere/solvesphere/internal/domain"
	"github.com/solvesphere/solvesphere/internal/policy"
)

// ErrForbidden is returned when the access policy denies an operation.
var ErrForbidden = fmt.Errorf("forbidden")

// ErrUpstream is returned when an external collaborator fails.
var ErrUpstream = fmt.Errorf("upstream service failed")

// CreateProblem adds a problem to the catalog.
func (s *Service) CreateProblem(ctx context.Context, userID string, problem *domain.Problem) (*domain.Problem, error) {
	if problem.Title == "" || problem.Description == "" {
		return nil, fmt.Errorf("title and description are required")
	}
	if problem.Category == "" {
		problem.Category = "general"
	}
	if problem.Difficulty < 1 || problem.Difficulty > 5 {
		return nil, fmt.Errorf("difficulty must be between 1 and 5")
	}

	now := time.Now()
	problem.ProblemID = newID("prob")
	problem.CreatedBy = userID
	problem.CreatedAt = now
	problem.UpdatedAt = now
	if err := s.store.CreateProblem(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}
	return problem, nil
}

// GetProblem retrieves a problem.
func (s *Service) GetProblem(ctx context.Context, problemID string) (*domain.Problem, error) {
	return s.store.GetProblem(ctx, problemID)
}

// ListProblems lists problems.
func (s *Service) ListProblems(ctx context.Context, filter domain.ProblemFilter) ([]domain.Problem, error) {
	return s.store.ListProblems(ctx, filter)
}

// UpdateProblem edits a problem. Only the creator or an admin may edit.
func (s *Service) UpdateProblem(ctx context.Context, userID string, isAdmin bool, problemID string, update *domain.Problem) (*domain.Problem, error) {
	existing, err := s.store.GetProblem(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		Action:  "problem.update",
		UserID:  userID,
		OwnerID: existing.CreatedBy,
		IsAdmin: isAdmin,
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if update.Title != "" {
		existing.Title = update.Title
	}
	if update.Description != "" {
		existing.Description = update.Description
	}
	if update.DetailedDescription != "" {
		existing.DetailedDescription = update.DetailedDescription
	}
	if update.Category != "" {
		existing.Category = update.Category
	}
	if update.Difficulty >= 1 && update.Difficulty <= 5 {
		existing.Difficulty = update.Difficulty
	}
	if update.Constraints != "" {
		existing.Constraints = update.Constraints
	}

	if err := s.store.UpdateProblem(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}
	return existing, nil
}

// DeleteProblem removes a problem. Only the creator or an admin may
// delete.
func (s *Service) DeleteProblem(ctx context.Context, userID string, isAdmin bool, problemID string) error {
	existing, err := s.store.GetProblem(ctx, problemID)
	if err != nil {
		return fmt.Errorf("failed to load problem: %w", err)
	}
	if existing == nil {
		return nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		Action:  "problem.delete",
		UserID:  userID,
		OwnerID: existing.CreatedBy,
		IsAdmin: isAdmin,
	})
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}

	return s.store.DeleteProblem(ctx, problemID)
}

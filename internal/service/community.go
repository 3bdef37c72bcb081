package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solvesphere/solvesphere/internal/domain"
	"github.com/solvesphere/solvesphere/internal/policy"
)

// CreateSolution publishes a solution write-up for a problem.
func (s *Service) CreateSolution(ctx context.Context, userID string, solution *domain.Solution) (*domain.Solution, error) {
	if solution.Title == "" || solution.Content == "" {
		return nil, fmt.Errorf("title and content are required")
	}
	problem, err := s.store.GetProblem(ctx, solution.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem: %w", err)
	}
	if problem == nil {
		return nil, fmt.Errorf("problem %s not found", solution.ProblemID)
	}

	now := time.Now()
	solution.SolutionID = newID("sol")
	solution.UserID = userID
	solution.CreatedAt = now
	solution.UpdatedAt = now
	if err := s.store.CreateSolution(ctx, solution); err != nil {
		return nil, fmt.Errorf("failed to create solution: %w", err)
	}
	return solution, nil
}

// GetSolution retrieves a solution, honoring visibility: private
// solutions are only returned to their owner or an admin.
func (s *Service) GetSolution(ctx context.Context, requesterID string, isAdmin bool, solutionID string) (*domain.Solution, error) {
	solution, err := s.store.GetSolution(ctx, solutionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load solution: %w", err)
	}
	if solution == nil {
		return nil, nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		Action:  "solution.view",
		UserID:  requesterID,
		OwnerID: solution.UserID,
		IsAdmin: isAdmin,
		Public:  solution.IsPublic,
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	return solution, nil
}

// ListSolutions lists visible solutions.
func (s *Service) ListSolutions(ctx context.Context, filter domain.SolutionFilter) ([]domain.Solution, error) {
	return s.store.ListSolutions(ctx, filter)
}

// UpdateSolution edits a solution. Only the owner or an admin may edit.
func (s *Service) UpdateSolution(ctx context.Context, userID string, isAdmin bool, solutionID string, update *domain.Solution) (*domain.Solution, error) {
	existing, err := s.store.GetSolution(ctx, solutionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load solution: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		Action:  "solution.update",
		UserID:  userID,
		OwnerID: existing.UserID,
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
	if update.Content != "" {
		existing.Content = update.Content
	}
	existing.IsPublic = update.IsPublic

	if err := s.store.UpdateSolution(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update solution: %w", err)
	}
	return existing, nil
}

// DeleteSolution removes a solution together with its comments and votes.
func (s *Service) DeleteSolution(ctx context.Context, userID string, isAdmin bool, solutionID string) error {
	existing, err := s.store.GetSolution(ctx, solutionID)
	if err != nil {
		return fmt.Errorf("failed to load solution: %w", err)
	}
	if existing == nil {
		return nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		Action:  "solution.delete",
		UserID:  userID,
		OwnerID: existing.UserID,
		IsAdmin: isAdmin,
	})
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}

	return s.store.DeleteSolution(ctx, solutionID)
}

// CreateComment adds a comment to a solution, optionally as a reply.
func (s *Service) CreateComment(ctx context.Context, userID string, comment *domain.Comment) (*domain.Comment, error) {
	if comment.Content == "" {
		return nil, fmt.Errorf("content is required")
	}
	solution, err := s.store.GetSolution(ctx, comment.SolutionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load solution: %w", err)
	}
	if solution == nil {
		return nil, fmt.Errorf("solution %s not found", comment.SolutionID)
	}

	comment.CommentID = newID("cmt")
	comment.UserID = userID
	comment.CreatedAt = time.Now()
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments lists comments on a solution. Without a parent filter only
// top-level comments are returned; replies are fetched per parent.
func (s *Service) ListComments(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, error) {
	if filter.ParentID == "" {
		filter.TopLevel = true
	}
	return s.store.ListComments(ctx, filter)
}

// DeleteComment removes a comment. Only the author or an admin may
// delete.
func (s *Service) DeleteComment(ctx context.Context, userID string, isAdmin bool, commentID string) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return nil
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		Action:  "comment.delete",
		UserID:  userID,
		OwnerID: comment.UserID,
		IsAdmin: isAdmin,
	})
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return s.store.DeleteComment(ctx, commentID)
}

// CastVote casts, flips, or removes (value 0) the caller's vote on a
// solution. Voting on your own solution is denied by policy.
func (s *Service) CastVote(ctx context.Context, userID string, req *domain.VoteRequest) (*domain.VoteSummary, error) {
	if req.Value < -1 || req.Value > 1 {
		return nil, fmt.Errorf("value must be -1, 0, or 1")
	}
	solution, err := s.store.GetSolution(ctx, req.SolutionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load solution: %w", err)
	}
	if solution == nil {
		return nil, fmt.Errorf("solution %s not found", req.SolutionID)
	}

	allowed, err := s.policyEngine.Allowed(ctx, policy.Input{
		Action:  "vote.cast",
		UserID:  userID,
		OwnerID: solution.UserID,
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if req.Value == 0 {
		if err := s.store.DeleteVote(ctx, req.SolutionID, userID); err != nil {
			return nil, fmt.Errorf("failed to remove vote: %w", err)
		}
	} else {
		vote := &domain.Vote{
			VoteID:     newID("vote"),
			SolutionID: req.SolutionID,
			UserID:     userID,
			Value:      req.Value,
			CreatedAt:  time.Now(),
		}
		if err := s.store.UpsertVote(ctx, vote); err != nil {
			return nil, fmt.Errorf("failed to cast vote: %w", err)
		}
	}

	return s.store.SummarizeVotes(ctx, req.SolutionID)
}

// SummarizeVotes aggregates votes for a solution.
func (s *Service) SummarizeVotes(ctx context.Context, solutionID string) (*domain.VoteSummary, error) {
	return s.store.SummarizeVotes(ctx, solutionID)
}

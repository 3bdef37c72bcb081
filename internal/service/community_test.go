package service

import (
	"context"
	"errors"
	"testing"

	"github.com/solvesphere/solvesphere/internal/domain"
)

func createSolution(t *testing.T, svc *Service, userID, problemID string, public bool) *domain.Solution {
	t.Helper()
	solution, err := svc.CreateSolution(context.Background(), userID, &domain.Solution{
		ProblemID: problemID,
		Title:     "My approach",
		Content:   "Details here.",
		IsPublic:  public,
	})
	if err != nil {
		t.Fatalf("CreateSolution failed: %v", err)
	}
	return solution
}

func TestSolutionVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil, nil)
	problem := createProblem(t, svc, "u1")
	private := createSolution(t, svc, "u1", problem.ProblemID, false)

	// Owner sees it.
	got, err := svc.GetSolution(ctx, "u1", false, private.SolutionID)
	if err != nil {
		t.Fatalf("GetSolution failed: %v", err)
	}
	if got == nil {
		t.Fatal("owner should see their private solution")
	}

	// Others are denied.
	if _, err := svc.GetSolution(ctx, "u2", false, private.SolutionID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Admins see everything.
	if _, err := svc.GetSolution(ctx, "admin", true, private.SolutionID); err != nil {
		t.Fatalf("admin should see private solutions: %v", err)
	}
}

func TestUpdateSolutionOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil, nil)
	problem := createProblem(t, svc, "u1")
	solution := createSolution(t, svc, "u1", problem.ProblemID, true)

	if _, err := svc.UpdateSolution(ctx, "u2", false, solution.SolutionID, &domain.Solution{Title: "hijack"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.UpdateSolution(ctx, "u1", false, solution.SolutionID, &domain.Solution{Title: "Better title", IsPublic: true})
	if err != nil {
		t.Fatalf("UpdateSolution failed: %v", err)
	}
	if updated.Title != "Better title" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestVoteFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil, nil)
	problem := createProblem(t, svc, "u1")
	solution := createSolution(t, svc, "u1", problem.ProblemID, true)

	// Self-voting is denied.
	if _, err := svc.CastVote(ctx, "u1", &domain.VoteRequest{SolutionID: solution.SolutionID, Value: 1}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-vote, got %v", err)
	}

	summary, err := svc.CastVote(ctx, "u2", &domain.VoteRequest{SolutionID: solution.SolutionID, Value: 1})
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if summary.Upvotes != 1 || summary.Total != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	// Flip to downvote.
	summary, err = svc.CastVote(ctx, "u2", &domain.VoteRequest{SolutionID: solution.SolutionID, Value: -1})
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if summary.Downvotes != 1 || summary.Upvotes != 0 {
		t.Fatalf("vote not flipped: %+v", summary)
	}

	// Value 0 removes the vote.
	summary, err = svc.CastVote(ctx, "u2", &domain.VoteRequest{SolutionID: solution.SolutionID, Value: 0})
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if summary.Count != 0 {
		t.Fatalf("vote not removed: %+v", summary)
	}

	if _, err := svc.CastVote(ctx, "u2", &domain.VoteRequest{SolutionID: solution.SolutionID, Value: 2}); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}

func TestCommentThreading(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil, nil)
	problem := createProblem(t, svc, "u1")
	solution := createSolution(t, svc, "u1", problem.ProblemID, true)

	top, err := svc.CreateComment(ctx, "u2", &domain.Comment{SolutionID: solution.SolutionID, Content: "nice"})
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if _, err := svc.CreateComment(ctx, "u3", &domain.Comment{SolutionID: solution.SolutionID, ParentID: top.CommentID, Content: "agreed"}); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	topLevel, err := svc.ListComments(ctx, domain.CommentFilter{SolutionID: solution.SolutionID, Limit: 10})
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(topLevel) != 1 || topLevel[0].CommentID != top.CommentID {
		t.Fatalf("expected only top-level comments: %+v", topLevel)
	}

	replies, err := svc.ListComments(ctx, domain.CommentFilter{SolutionID: solution.SolutionID, ParentID: top.CommentID, Limit: 10})
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("expected one reply: %+v", replies)
	}

	// Only the author or an admin may delete.
	if err := svc.DeleteComment(ctx, "u3", false, top.CommentID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteComment(ctx, "u2", false, top.CommentID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
}

func TestSignupAndSignin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil, nil)

	resp, err := svc.Signup(ctx, &domain.SignupRequest{Email: "Ada@Example.com", Password: "correcthorse", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if resp.Token == "" || resp.User.Email != "ada@example.com" {
		t.Fatalf("unexpected auth response: %+v", resp)
	}

	if _, err := svc.Signup(ctx, &domain.SignupRequest{Email: "ada@example.com", Password: "correcthorse", DisplayName: "Dup"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	signin, err := svc.Signin(ctx, &domain.SigninRequest{Email: "ada@example.com", Password: "correcthorse"})
	if err != nil {
		t.Fatalf("Signin failed: %v", err)
	}
	if signin.User.UserID != resp.User.UserID {
		t.Fatalf("unexpected user: %+v", signin.User)
	}

	if _, err := svc.Signin(ctx, &domain.SigninRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := svc.Signin(ctx, &domain.SigninRequest{Email: "ghost@example.com", Password: "whatever"}); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil, nil)

	cases := []domain.SignupRequest{
		{Email: "", Password: "longenough", DisplayName: "x"},
		{Email: "not-an-email", Password: "longenough", DisplayName: "x"},
		{Email: "a@b.com", Password: "short", DisplayName: "x"},
		{Email: "a@b.com", Password: "longenough", DisplayName: " "},
	}
	for i, req := range cases {
		if _, err := svc.Signup(ctx, &req); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestGenerateSolution(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &scriptedLLM{Reply: "## Approach\nDo the thing."}, nil)
	problem := createProblem(t, svc, "u1")

	turn, err := svc.ChatTurn(ctx, problem.ProblemID, "u1", &domain.ChatTurnRequest{Message: "help"})
	if err != nil {
		t.Fatalf("ChatTurn failed: %v", err)
	}

	resp, err := svc.GenerateSolution(ctx, &domain.GenerateSolutionRequest{SessionID: turn.SessionID})
	if err != nil {
		t.Fatalf("GenerateSolution failed: %v", err)
	}
	if resp.Solution == "" || resp.Status != "ok" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	missing, err := svc.GenerateSolution(ctx, &domain.GenerateSolutionRequest{SessionID: "nope"})
	if err != nil {
		t.Fatalf("GenerateSolution failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown session, got %+v", missing)
	}
}

func TestGenerateImagePassthrough(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil, nil)

	resp, err := svc.GenerateImage(ctx, &domain.GenerateImageRequest{Prompt: "a cat", NumOutputs: 2})
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if len(resp.Images) != 2 || resp.Images[0].B64 == "" {
		t.Fatalf("unexpected images: %+v", resp)
	}
}

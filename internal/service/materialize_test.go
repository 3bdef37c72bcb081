package service

import (
	"context"
	"testing"

	"github.com/solvesphere/solvesphere/internal/adapter/imagegen"
	"github.com/solvesphere/solvesphere/internal/domain"
)

func TestMaterializationFailureLeavesOneNote(t *testing.T) {
	ctx := context.Background()
	gen := &imagegen.MockGenerator{FailSubstring: "bridge"}
	svc, db := newTestService(t, &scriptedLLM{Reply: "!IMAGE[a bridge]"}, gen)
	problem := createProblem(t, svc, "u1")

	resp, err := svc.ChatTurn(ctx, problem.ProblemID, "u1", &domain.ChatTurnRequest{Message: "draw"})
	if err != nil {
		t.Fatalf("ChatTurn failed: %v", err)
	}
	fragID := resp.Fragments[0].FragmentID

	waitFor(t, func() bool {
		f, err := db.GetFragment(ctx, fragID)
		return err == nil && f != nil && f.State == domain.MaterializationFailed
	})

	f, _ := db.GetFragment(ctx, fragID)
	if f.Payload != "" {
		t.Fatalf("failed fragment must not carry a payload: %+v", f)
	}

	// One failure note, and no automatic retry.
	waitFor(t, func() bool {
		messages, _ := db.GetMessages(ctx, resp.SessionID, 0, "")
		return len(messages) == 3
	})
	messages, _ := db.GetMessages(ctx, resp.SessionID, 0, "")
	notes := 0
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			notes++
		}
	}
	if notes != 1 {
		t.Fatalf("expected exactly one failure note, got %d", notes)
	}
}

func TestMaterializationRewritesBody(t *testing.T) {
	ctx := context.Background()
	svc, db := newTestService(t, &scriptedLLM{Reply: "!IMAGE[a red bridge]"}, nil)
	problem := createProblem(t, svc, "u1")

	resp, err := svc.ChatTurn(ctx, problem.ProblemID, "u1", &domain.ChatTurnRequest{Message: "draw"})
	if err != nil {
		t.Fatalf("ChatTurn failed: %v", err)
	}
	fragID := resp.Fragments[0].FragmentID

	waitFor(t, func() bool {
		f, _ := db.GetFragment(ctx, fragID)
		return f != nil && f.State == domain.MaterializationReady
	})

	f, _ := db.GetFragment(ctx, fragID)
	if f.Body != "generated from prompt: a red bridge" {
		t.Fatalf("body not rewritten on success: %q", f.Body)
	}
	if f.Payload == "" {
		t.Fatal("ready fragment must carry a payload")
	}

	// The failed path keeps the prompt so a retry can reuse it; only
	// success rewrites.
	listed, err := svc.ListFragments(ctx, resp.SessionID, domain.FragmentImage)
	if err != nil {
		t.Fatalf("ListFragments failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Body != f.Body {
		t.Fatalf("content store out of step with durable store: %+v", listed)
	}
}

func TestRetryMaterialization(t *testing.T) {
	ctx := context.Background()
	gen := &imagegen.MockGenerator{FailSubstring: "bridge"}
	svc, db := newTestService(t, &scriptedLLM{Reply: "!IMAGE[a bridge]"}, gen)
	problem := createProblem(t, svc, "u1")

	resp, err := svc.ChatTurn(ctx, problem.ProblemID, "u1", &domain.ChatTurnRequest{Message: "draw"})
	if err != nil {
		t.Fatalf("ChatTurn failed: %v", err)
	}
	fragID := resp.Fragments[0].FragmentID
	waitFor(t, func() bool {
		f, _ := db.GetFragment(ctx, fragID)
		return f != nil && f.State == domain.MaterializationFailed
	})

	// Clear the failure condition and retry.
	gen.FailSubstring = ""
	frag, err := svc.RetryMaterialization(ctx, fragID)
	if err != nil {
		t.Fatalf("RetryMaterialization failed: %v", err)
	}
	if frag.State != domain.MaterializationPending {
		t.Fatalf("retried fragment should be pending, got %s", frag.State)
	}

	waitFor(t, func() bool {
		f, _ := db.GetFragment(ctx, fragID)
		return f != nil && f.State == domain.MaterializationReady
	})
}

func TestRetryMaterializationRejectsNonFailed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, &scriptedLLM{Reply: "!IMAGE[ok]"}, nil)
	problem := createProblem(t, svc, "u1")

	resp, err := svc.ChatTurn(ctx, problem.ProblemID, "u1", &domain.ChatTurnRequest{Message: "draw"})
	if err != nil {
		t.Fatalf("ChatTurn failed: %v", err)
	}
	fragID := resp.Fragments[0].FragmentID
	waitFor(t, func() bool {
		f, _ := svc.GetFragment(ctx, fragID)
		return f != nil && f.State == domain.MaterializationReady
	})

	if _, err := svc.RetryMaterialization(ctx, fragID); err == nil {
		t.Fatal("retrying a ready fragment must fail")
	}
}

func TestMaterializationPreservesUserEdits(t *testing.T) {
	ctx := context.Background()
	gen := &imagegen.MockGenerator{FailSubstring: "hold"}
	svc, db := newTestService(t, &scriptedLLM{Reply: "!IMAGE[hold this]"}, gen)
	problem := createProblem(t, svc, "u1")

	resp, err := svc.ChatTurn(ctx, problem.ProblemID, "u1", &domain.ChatTurnRequest{Message: "draw"})
	if err != nil {
		t.Fatalf("ChatTurn failed: %v", err)
	}
	fragID := resp.Fragments[0].FragmentID
	waitFor(t, func() bool {
		f, _ := db.GetFragment(ctx, fragID)
		return f != nil && f.State == domain.MaterializationFailed
	})

	// Edit the title, then retry; the result must land on the edited
	// fragment without clobbering the title.
	title := "My Image"
	if _, err := svc.UpdateFragment(ctx, fragID, &domain.FragmentPatch{Title: &title}); err != nil {
		t.Fatalf("UpdateFragment failed: %v", err)
	}
	gen.FailSubstring = ""
	if _, err := svc.RetryMaterialization(ctx, fragID); err != nil {
		t.Fatalf("RetryMaterialization failed: %v", err)
	}
	waitFor(t, func() bool {
		f, _ := db.GetFragment(ctx, fragID)
		return f != nil && f.State == domain.MaterializationReady
	})

	f, _ := db.GetFragment(ctx, fragID)
	if f.Title != "My Image" {
		t.Fatalf("edit lost during materialization: %+v", f)
	}
}

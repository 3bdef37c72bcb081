package service

import (
	"context"
	"testing"
	"time"

	"github.com/solvesphere/solvesphere/internal/adapter/imagegen"
	"github.com/solvesphere/solvesphere/internal/adapter/llm"
	"github.com/solvesphere/solvesphere/internal/adapter/search"
	"github.com/solvesphere/solvesphere/internal/auth"
	"github.com/solvesphere/solvesphere/internal/config"
	"github.com/solvesphere/solvesphere/internal/domain"
	"github.com/solvesphere/solvesphere/internal/notify"
	"github.com/solvesphere/solvesphere/internal/policy"
	"github.com/solvesphere/solvesphere/internal/store"
)

// scriptedLLM returns a fixed reply, or an error when Err is set.
type scriptedLLM struct {
	Reply string
	Err   error
}

func (s *scriptedLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: "assistant", Content: s.Reply}}},
	}, nil
}

func (s *scriptedLLM) CreateChatCompletionStream(ctx context.Context, req *llm.ChatCompletionRequest, callback llm.StreamCallback) (*llm.Usage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return nil, callback(&llm.StreamChunk{Choices: []llm.Choice{{Delta: &llm.ChatMessage{Content: s.Reply}}}})
}

func (s *scriptedLLM) ListModels(ctx context.Context) ([]llm.Model, error) {
	return nil, nil
}

func newTestService(t *testing.T, llmClient llm.LLMClient, gen imagegen.Generator) (*Service, store.Store) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	hub := notify.NewHub()
	go hub.Run()

	cfg := &config.Config{
		LLMModel:     "test-model",
		ImageTimeout: 5 * time.Second,
	}
	if llmClient == nil {
		llmClient = llm.NewMockClient()
	}
	if gen == nil {
		gen = imagegen.NewMockGenerator()
	}

	svc := New(db, llmClient, gen, search.NewMockSearcher(), auth.NewManager("test-secret", time.Hour), engine, hub, cfg)
	return svc, db
}

func createProblem(t *testing.T, svc *Service, userID string) *domain.Problem {
	t.Helper()
	problem, err := svc.CreateProblem(context.Background(), userID, &domain.Problem{
		Title:       "Bridge Load",
		Description: "Estimate the maximum load.",
		Category:    "engineering",
		Difficulty:  3,
	})
	if err != nil {
		t.Fatalf("CreateProblem failed: %v", err)
	}
	return problem
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

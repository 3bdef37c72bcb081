package search

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// MockSearcher is a mock implementation of Searcher.
type MockSearcher struct{}

// Ensure MockSearcher implements Searcher interface.
var _ Searcher = (*MockSearcher)(nil)

// NewMockSearcher creates a new mock searcher.
func NewMockSearcher() *MockSearcher {
	return &MockSearcher{}
}

// Search returns canned results echoing the query.
func (m *MockSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	return []Result{
		{
			Title:   fmt.Sprintf("Mock result for %q", query),
			Link:    "https://example.com/mock",
			Snippet: "This is a mock search snippet.",
		},
	}, nil
}

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "SOLVESPHERE_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewSearcher creates a searcher based on the SOLVESPHERE_MODE
// environment variable.
func NewSearcher(baseURL, apiKey string, timeout time.Duration) Searcher {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("SOLVESPHERE_MODE=MOCK detected, using mock searcher")
		return NewMockSearcher()
	}
	return NewClient(baseURL, apiKey, timeout)
}

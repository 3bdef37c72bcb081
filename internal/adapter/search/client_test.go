package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "golang" || q.Get("engine") != "google" || q.Get("api_key") != "key" {
			t.Fatalf("unexpected query: %v", q)
		}
		json.NewEncoder(w).Encode(searchResponse{
			OrganicResults: []Result{
				{Title: "The Go Programming Language", Link: "https://go.dev", Snippet: "Build simple software."},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 5*time.Second)
	results, err := client.Search(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "The Go Programming Language" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		many := make([]Result, 8)
		for i := range many {
			many[i] = Result{Title: "r"}
		}
		json.NewEncoder(w).Encode(searchResponse{OrganicResults: many})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 5*time.Second)
	results, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != maxResults {
		t.Fatalf("expected %d results, got %d", maxResults, len(results))
	}
}

func TestSearchAPIErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{Error: "invalid api key"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", 5*time.Second)
	_, err := client.Search(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient("http://unused", "key", time.Second)
	if _, err := client.Search(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]Result{
		{Title: "A", Link: "https://a", Snippet: "first"},
		{Title: "B", Link: "https://b", Snippet: "second"},
	})
	if !strings.HasPrefix(out, "### Web Search Results") {
		t.Fatalf("missing heading: %q", out)
	}
	if !strings.Contains(out, "1. **A**") || !strings.Contains(out, "2. **B**") {
		t.Fatalf("results not numbered: %q", out)
	}

	if FormatResults(nil) != "" {
		t.Fatal("no results should format to empty string")
	}
}

func TestMockSearcher(t *testing.T) {
	mock := NewMockSearcher()
	results, err := mock.Search(context.Background(), "gravity")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || !strings.Contains(results[0].Title, "gravity") {
		t.Fatalf("unexpected results: %+v", results)
	}
}

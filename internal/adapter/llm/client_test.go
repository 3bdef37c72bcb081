package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCreateChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Fatalf("unexpected auth header: %q", got)
		}

		var req ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Fatal("non-streaming request must not set stream")
		}

		resp := ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: req.Model,
			Choices: []Choice{
				{Message: &ChatMessage{Role: "assistant", Content: "hello"}, FinishReason: "stop"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 5*time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "llama-3.3-70b-versatile",
		Messages: []ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if resp.Content() != "hello" {
		t.Fatalf("unexpected content: %q", resp.Content())
	}
}

func TestCreateChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(ErrorResponse{Error: &APIError{Message: "rate limited", Type: "rate_limit"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 5*time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("error should carry API message: %v", err)
	}
}

func TestCreateChatCompletionStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, word := range []string{"hel", "lo"} {
			chunk := StreamChunk{Choices: []Choice{{Delta: &ChatMessage{Content: word}}}}
			data, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 5*time.Second)
	var got strings.Builder
	_, err := client.CreateChatCompletionStream(context.Background(), &ChatCompletionRequest{Model: "m"}, func(chunk *StreamChunk) error {
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta != nil {
			got.WriteString(chunk.Choices[0].Delta.Content)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if got.String() != "hello" {
		t.Fatalf("unexpected streamed content: %q", got.String())
	}
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ModelsResponse{Object: "list", Data: []Model{{ID: "m1"}}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 5*time.Second)
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 1 || models[0].ID != "m1" {
		t.Fatalf("unexpected models: %+v", models)
	}
}

func TestMockClientResponseHasEmbeddedContent(t *testing.T) {
	mock := NewMockClient()
	resp, err := mock.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "mock",
		Messages: []ChatMessage{{Role: "user", Content: "explain gravity"}},
	})
	if err != nil {
		t.Fatalf("mock completion failed: %v", err)
	}
	content := resp.Content()
	for _, marker := range []string{"$$", "|", "Research:", "```mermaid", "!IMAGE["} {
		if !strings.Contains(content, marker) {
			t.Fatalf("mock reply missing %q: %q", marker, content)
		}
	}
}

func TestFactoryMockMode(t *testing.T) {
	t.Setenv(EnvMode, ModeMock)
	client := NewLLMClient("http://unused", "", time.Second)
	if _, ok := client.(*MockClient); !ok {
		t.Fatalf("expected mock client, got %T", client)
	}

	t.Setenv(EnvMode, "")
	client = NewLLMClient("http://unused", "", time.Second)
	if _, ok := client.(*Client); !ok {
		t.Fatalf("expected real client, got %T", client)
	}
}

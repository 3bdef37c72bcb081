package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// MockGenerator is a mock implementation of Generator for testing and
// local development.
type MockGenerator struct {
	// FailSubstring makes Generate fail when the prompt contains it.
	// Lets tests drive the failed materialization path.
	FailSubstring string
}

// Ensure MockGenerator implements Generator interface.
var _ Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a new mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a tiny placeholder artifact.
func (m *MockGenerator) Generate(ctx context.Context, req *GenerateRequest) ([]Artifact, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	if m.FailSubstring != "" && strings.Contains(req.Prompt, m.FailSubstring) {
		return nil, fmt.Errorf("mock generation failure for prompt %q", req.Prompt)
	}

	samples := req.Samples
	if samples <= 0 {
		samples = 1
	}

	artifacts := make([]Artifact, samples)
	for i := range artifacts {
		artifacts[i] = Artifact{
			Base64:       base64.StdEncoding.EncodeToString([]byte("mock-image:" + req.Prompt)),
			FinishReason: "SUCCESS",
			Seed:         time.Now().UnixNano() + int64(i),
		}
	}
	return artifacts, nil
}

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "SOLVESPHERE_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewGenerator creates a generator based on the SOLVESPHERE_MODE
// environment variable.
func NewGenerator(baseURL, apiKey, engine string, timeout time.Duration) Generator {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("SOLVESPHERE_MODE=MOCK detected, using mock image generator")
		return NewMockGenerator()
	}
	return NewClient(baseURL, apiKey, engine, timeout)
}

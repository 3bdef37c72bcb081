package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/solvesphere/solvesphere/internal/adapter/imagegen"
	"github.com/solvesphere/solvesphere/internal/adapter/llm"
	"github.com/solvesphere/solvesphere/internal/domain"
)

// solutionPrompt asks for a structured write-up from the workspace.
const solutionPrompt = `You are writing a clear, complete solution document from a problem-solving session.

Organize the write-up with these sections:
1. Problem restatement
2. Approach
3. Key steps and reasoning
4. Result
5. References (if any research was gathered)

Use the conversation transcript and the accumulated workspace content below. Write in clean markdown.`

const (
	solutionTemperature = 0.5
	solutionMaxTokens   = 4000
)

// GenerateSolution produces a structured solution write-up from a
// session's transcript and accumulated fragments.
func (s *Service) GenerateSolution(ctx context.Context, req *domain.GenerateSolutionRequest) (*domain.GenerateSolutionResponse, error) {
	session, err := s.store.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	var doc strings.Builder

	if problem, err := s.store.GetProblem(ctx, session.ProblemID); err == nil && problem != nil {
		fmt.Fprintf(&doc, "## Problem\n%s\n\n%s\n\n", problem.Title, problem.Description)
	}

	messages, err := s.store.GetMessages(ctx, session.SessionID, 0, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load transcript: %w", err)
	}
	doc.WriteString("## Transcript\n")
	for _, msg := range messages {
		if msg.Role == domain.RoleSystem {
			continue
		}
		fmt.Fprintf(&doc, "%s: %s\n", msg.Role, msg.Content)
	}

	fragments, err := s.ListFragments(ctx, session.SessionID, "")
	if err != nil {
		return nil, err
	}
	if len(fragments) > 0 {
		doc.WriteString("\n## Workspace Content\n")
		for _, f := range fragments {
			fmt.Fprintf(&doc, "[%s] %s\n%s\n\n", f.Kind, f.Title, f.Body)
		}
	}

	temp := solutionTemperature
	maxTokens := solutionMaxTokens
	completion, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model: s.config.LLMModel,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: solutionPrompt},
			{Role: "user", Content: doc.String()},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	text := completion.Content()
	if text == "" {
		return nil, fmt.Errorf("assistant returned an empty write-up")
	}

	return &domain.GenerateSolutionResponse{Solution: text, Status: "ok"}, nil
}

// GenerateImage is the direct image generation passthrough.
func (s *Service) GenerateImage(ctx context.Context, req *domain.GenerateImageRequest) (*domain.GenerateImageResponse, error) {
	artifacts, err := s.imageGen.Generate(ctx, &imagegen.GenerateRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
		Samples:        req.NumOutputs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	images := make([]domain.GeneratedImage, len(artifacts))
	for i, a := range artifacts {
		images[i] = domain.GeneratedImage{
			ID:           newID("img"),
			B64:          a.Base64,
			FinishReason: a.FinishReason,
			Seed:         a.Seed,
		}
	}
	return &domain.GenerateImageResponse{Images: images}, nil
}

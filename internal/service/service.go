// Package service implements the SolveSphere backend operations on top of
// the store, the content pipeline, and the external collaborators.
package service

import (
	"github.com/google/uuid"

	"github.com/solvesphere/solvesphere/internal/adapter/imagegen"
	"github.com/solvesphere/solvesphere/internal/adapter/llm"
	"github.com/solvesphere/solvesphere/internal/adapter/search"
	"github.com/solvesphere/solvesphere/internal/auth"
	"github.com/solvesphere/solvesphere/internal/config"
	"github.com/solvesphere/solvesphere/internal/content"
	"github.com/solvesphere/solvesphere/internal/notify"
	"github.com/solvesphere/solvesphere/internal/policy"
	"github.com/solvesphere/solvesphere/internal/store"
)

type Service struct {
	store        store.Store
	contents     *content.Registry
	llmClient    llm.LLMClient
	imageGen     imagegen.Generator
	searcher     search.Searcher
	auth         *auth.Manager
	policyEngine *policy.Engine
	hub          *notify.Hub
	config       *config.Config
}

func New(store store.Store, llmClient llm.LLMClient, imageGen imagegen.Generator, searcher search.Searcher, authManager *auth.Manager, policyEngine *policy.Engine, hub *notify.Hub, cfg *config.Config) *Service {
	return &Service{
		store:        store,
		contents:     content.NewRegistry(),
		llmClient:    llmClient,
		imageGen:     imageGen,
		searcher:     searcher,
		auth:         authManager,
		policyEngine: policyEngine,
		hub:          hub,
		config:       cfg,
	}
}

// Auth exposes the auth manager for transport middleware.
func (s *Service) Auth() *auth.Manager {
	return s.auth
}

// Hub exposes the notify hub for the WebSocket transport.
func (s *Service) Hub() *notify.Hub {
	return s.hub
}

// newID generates a short prefixed identifier.
func newID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solvesphere/solvesphere/internal/domain"
	"github.com/solvesphere/solvesphere/internal/render"
)

// ListFragments returns a session's fragments in insertion order,
// optionally filtered by kind. The session's content store is hydrated
// from the durable store on first access after a restart.
func (s *Service) ListFragments(ctx context.Context, sessionID string, kind domain.FragmentKind) ([]domain.Fragment, error) {
	cs := s.contents.ForSession(sessionID)
	if cs.Len() == 0 {
		stored, err := s.store.ListFragments(ctx, sessionID, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load fragments: %w", err)
		}
		cs.Append(stored...)
	}
	if kind == "" {
		return cs.List(), nil
	}
	return cs.FilterByKind(kind), nil
}

// GetFragment retrieves a fragment.
func (s *Service) GetFragment(ctx context.Context, fragmentID string) (*domain.Fragment, error) {
	return s.store.GetFragment(ctx, fragmentID)
}

// AddNote appends a user-authored note fragment to a workspace.
func (s *Service) AddNote(ctx context.Context, sessionID, title, body string) (*domain.Fragment, error) {
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}
	now := time.Now()
	frag := &domain.Fragment{
		FragmentID: newID("frag"),
		SessionID:  sessionID,
		Kind:       domain.FragmentNote,
		Title:      title,
		Body:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateFragment(ctx, frag); err != nil {
		return nil, fmt.Errorf("failed to persist fragment: %w", err)
	}
	s.contents.ForSession(sessionID).Append(*frag)
	s.hub.Publish(domain.Event{Type: domain.EventFragmentAdded, SessionID: sessionID, Data: frag})
	return frag, nil
}

// UpdateFragment applies a partial edit to a fragment's title and body.
// Kind, source message, and position never change.
func (s *Service) UpdateFragment(ctx context.Context, fragmentID string, patch *domain.FragmentPatch) (*domain.Fragment, error) {
	frag, err := s.store.GetFragment(ctx, fragmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragment: %w", err)
	}
	if frag == nil {
		return nil, nil
	}

	if patch.Title != nil {
		frag.Title = *patch.Title
	}
	if patch.Body != nil {
		frag.Body = *patch.Body
	}
	frag.UpdatedAt = time.Now()

	if err := s.store.UpdateFragment(ctx, frag); err != nil {
		return nil, fmt.Errorf("failed to update fragment: %w", err)
	}
	s.contents.ForSession(frag.SessionID).UpdateByID(fragmentID, func(f *domain.Fragment) {
		f.Title = frag.Title
		f.Body = frag.Body
		f.UpdatedAt = frag.UpdatedAt
	})
	s.hub.Publish(domain.Event{Type: domain.EventFragmentUpdated, SessionID: frag.SessionID, Data: frag})
	return frag, nil
}

// DeleteFragment removes a fragment from the workspace.
func (s *Service) DeleteFragment(ctx context.Context, fragmentID string) error {
	frag, err := s.store.GetFragment(ctx, fragmentID)
	if err != nil {
		return fmt.Errorf("failed to load fragment: %w", err)
	}
	if frag == nil {
		return nil
	}
	if err := s.store.DeleteFragment(ctx, fragmentID); err != nil {
		return fmt.Errorf("failed to delete fragment: %w", err)
	}
	s.contents.ForSession(frag.SessionID).RemoveByID(fragmentID)
	s.hub.Publish(domain.Event{Type: domain.EventFragmentRemoved, SessionID: frag.SessionID, Data: map[string]string{"fragment_id": fragmentID}})
	return nil
}

// RenderFragment renders a single fragment to HTML.
func (s *Service) RenderFragment(ctx context.Context, fragmentID string) (string, error) {
	frag, err := s.store.GetFragment(ctx, fragmentID)
	if err != nil {
		return "", fmt.Errorf("failed to load fragment: %w", err)
	}
	if frag == nil {
		return "", nil
	}
	return render.Fragment(frag)
}

// ExportWorkspace renders a session's accumulated content as one HTML
// document body.
func (s *Service) ExportWorkspace(ctx context.Context, sessionID string) (string, error) {
	fragments, err := s.ListFragments(ctx, sessionID, "")
	if err != nil {
		return "", err
	}
	return render.Workspace(fragments)
}

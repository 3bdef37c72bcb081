package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/solvesphere/solvesphere/internal/adapter/imagegen"
	"github.com/solvesphere/solvesphere/internal/domain"
)

// materialize generates the image for a pending fragment in the
// background. The fragment is looked up by ID when the result lands, so
// edits and reorderings that happen meanwhile are preserved. On success
// the body is rewritten to a short description of the prompt; a failed
// generation keeps the prompt, marks the fragment failed, and leaves one
// note in the chat. It is never retried automatically.
func (s *Service) materialize(frag domain.Fragment) {
	prompt := frag.Body
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.ImageTimeout)
		defer cancel()

		artifacts, err := s.imageGen.Generate(ctx, &imagegen.GenerateRequest{
			Prompt:  prompt,
			Samples: 1,
		})
		if err != nil {
			log.Printf("ERROR: image materialization failed for fragment %s: %v", frag.FragmentID, err)
			s.finishMaterialization(frag.SessionID, frag.FragmentID, domain.MaterializationFailed, "", "")
			s.noteMaterializationFailure(frag)
			return
		}

		body := "generated from prompt: " + prompt
		s.finishMaterialization(frag.SessionID, frag.FragmentID, domain.MaterializationReady, artifacts[0].Base64, body)
	}()
}

// finishMaterialization applies the terminal state to the fragment in
// both the durable store and the session's content store, then notifies
// watchers. An empty body leaves the stored body untouched.
func (s *Service) finishMaterialization(sessionID, fragmentID string, state domain.MaterializationState, payload, body string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	frag, err := s.store.GetFragment(ctx, fragmentID)
	if err != nil {
		log.Printf("ERROR: failed to load fragment %s: %v", fragmentID, err)
		return
	}
	if frag == nil {
		// Removed while the image was generating; drop the result.
		return
	}

	frag.State = state
	frag.Payload = payload
	if body != "" {
		frag.Body = body
	}
	frag.UpdatedAt = time.Now()
	if err := s.store.UpdateFragment(ctx, frag); err != nil {
		log.Printf("ERROR: failed to update fragment %s: %v", fragmentID, err)
		return
	}

	s.contents.ForSession(sessionID).UpdateByID(fragmentID, func(f *domain.Fragment) {
		f.State = state
		f.Payload = payload
		f.Body = frag.Body
		f.UpdatedAt = frag.UpdatedAt
	})

	s.hub.Publish(domain.Event{Type: domain.EventFragmentUpdated, SessionID: sessionID, Data: frag})
}

// noteMaterializationFailure records a single chat note about a failed
// image generation.
func (s *Service) noteMaterializationFailure(frag domain.Fragment) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	note := &domain.Message{
		MessageID: newID("msg"),
		SessionID: frag.SessionID,
		Role:      domain.RoleSystem,
		Content:   fmt.Sprintf("Image generation failed for %q. You can retry it from the workspace.", frag.Title),
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, note); err != nil {
		log.Printf("ERROR: failed to persist failure note: %v", err)
		return
	}
	s.hub.Publish(domain.Event{Type: domain.EventMessageAdded, SessionID: frag.SessionID, Data: note})
}

// RetryMaterialization re-queues a failed image fragment. Only failed
// image fragments can be retried.
func (s *Service) RetryMaterialization(ctx context.Context, fragmentID string) (*domain.Fragment, error) {
	frag, err := s.store.GetFragment(ctx, fragmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragment: %w", err)
	}
	if frag == nil {
		return nil, nil
	}
	if frag.Kind != domain.FragmentImage {
		return nil, fmt.Errorf("fragment %s is not an image", fragmentID)
	}
	if frag.State != domain.MaterializationFailed {
		return nil, fmt.Errorf("fragment %s is not in a failed state", fragmentID)
	}

	frag.State = domain.MaterializationPending
	frag.Payload = ""
	frag.UpdatedAt = time.Now()
	if err := s.store.UpdateFragment(ctx, frag); err != nil {
		return nil, fmt.Errorf("failed to update fragment: %w", err)
	}
	s.contents.ForSession(frag.SessionID).UpdateByID(fragmentID, func(f *domain.Fragment) {
		f.State = domain.MaterializationPending
		f.Payload = ""
	})
	s.hub.Publish(domain.Event{Type: domain.EventFragmentUpdated, SessionID: frag.SessionID, Data: frag})

	s.materialize(*frag)
	return frag, nil
}

package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/solvesphere/solvesphere/internal/adapter/llm"
	"github.com/solvesphere/solvesphere/internal/adapter/search"
	"github.com/solvesphere/solvesphere/internal/domain"
	"github.com/solvesphere/solvesphere/internal/extract"
)

// systemPrompt instructs the assistant to emit content the fragment
// extractor can pick up.
const systemPrompt = `You are a problem-solving assistant helping a user work through a challenge step by step.

When your answer benefits from structured content, use these forms:
- Mathematical formulas: wrap LaTeX in $$ ... $$
- Tabular data: markdown pipe tables
- Research summaries: start a paragraph with "Research:" or "Study:"
- Diagrams: fenced mermaid code blocks
- Images: write !IMAGE[description of the image to generate]

Be concise and concrete. Build on the conversation so far.`

const (
	chatTemperature = 0.7
	chatMaxTokens   = 2048
	historyLimit    = 20
)

// ChatTurn runs one full chat turn: persist the user message, ask the
// assistant, extract fragments from the reply, and kick off image
// materialization. On assistant failure the user message is kept and a
// synthetic error message is appended instead of a reply.
func (s *Service) ChatTurn(ctx context.Context, problemID, userID string, req *domain.ChatTurnRequest) (*domain.ChatTurnResponse, error) {
	session, resp, err := s.beginTurn(ctx, problemID, userID, req)
	if err != nil {
		return nil, err
	}

	messages, err := s.buildPrompt(ctx, session, req)
	if err != nil {
		return s.chatTurnErrored(ctx, resp, err)
	}

	temp := chatTemperature
	maxTokens := chatMaxTokens
	completion, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:       s.config.LLMModel,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return s.chatTurnErrored(ctx, resp, err)
	}
	replyText := completion.Content()
	if replyText == "" {
		return s.chatTurnErrored(ctx, resp, fmt.Errorf("assistant returned an empty reply"))
	}

	return s.finishTurn(ctx, resp, replyText)
}

// ChatTurnStream runs one chat turn like ChatTurn, but streams the
// assistant's reply through onDelta as it arrives. The turn is finalized
// (reply persisted, fragments extracted) only once the stream completes.
func (s *Service) ChatTurnStream(ctx context.Context, problemID, userID string, req *domain.ChatTurnRequest, onDelta func(delta string) error) (*domain.ChatTurnResponse, error) {
	session, resp, err := s.beginTurn(ctx, problemID, userID, req)
	if err != nil {
		return nil, err
	}

	messages, err := s.buildPrompt(ctx, session, req)
	if err != nil {
		return s.chatTurnErrored(ctx, resp, err)
	}

	temp := chatTemperature
	maxTokens := chatMaxTokens
	var reply strings.Builder
	_, err = s.llmClient.CreateChatCompletionStream(ctx, &llm.ChatCompletionRequest{
		Model:       s.config.LLMModel,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}, func(chunk *llm.StreamChunk) error {
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta == nil {
			return nil
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			return nil
		}
		reply.WriteString(delta)
		return onDelta(delta)
	})
	if err != nil {
		return s.chatTurnErrored(ctx, resp, err)
	}
	if reply.Len() == 0 {
		return s.chatTurnErrored(ctx, resp, fmt.Errorf("assistant returned an empty reply"))
	}

	return s.finishTurn(ctx, resp, reply.String())
}

// beginTurn resolves the session and commits the user message before the
// assistant is asked; it survives whatever happens next.
func (s *Service) beginTurn(ctx context.Context, problemID, userID string, req *domain.ChatTurnRequest) (*domain.Session, *domain.ChatTurnResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, nil, fmt.Errorf("message is required")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newID("sess")
	}
	session, err := s.store.GetOrCreateSession(ctx, sessionID, problemID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	userMsg := &domain.Message{
		MessageID: newID("msg"),
		SessionID: session.SessionID,
		Role:      domain.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to persist message: %w", err)
	}
	s.hub.Publish(domain.Event{Type: domain.EventMessageAdded, SessionID: session.SessionID, Data: userMsg})

	resp := &domain.ChatTurnResponse{
		SessionID:   session.SessionID,
		Turn:        domain.TurnAwaitingReply,
		UserMessage: userMsg,
	}
	return session, resp, nil
}

// finishTurn persists the assistant reply and runs fragment accumulation.
func (s *Service) finishTurn(ctx context.Context, resp *domain.ChatTurnResponse, replyText string) (*domain.ChatTurnResponse, error) {
	reply := &domain.Message{
		MessageID: newID("msg"),
		SessionID: resp.SessionID,
		Role:      domain.RoleAssistant,
		Content:   replyText,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to persist reply: %w", err)
	}
	s.hub.Publish(domain.Event{Type: domain.EventMessageAdded, SessionID: resp.SessionID, Data: reply})

	fragments := s.accumulate(ctx, resp.SessionID, reply)

	resp.Turn = domain.TurnReplyReceived
	resp.Reply = reply
	resp.Fragments = fragments
	return resp, nil
}

// chatTurnErrored appends a synthetic assistant-visible error message so
// the transcript records the failure, and reports the turn as errored.
func (s *Service) chatTurnErrored(ctx context.Context, resp *domain.ChatTurnResponse, cause error) (*domain.ChatTurnResponse, error) {
	log.Printf("ERROR: chat turn failed for session %s: %v", resp.SessionID, cause)

	errMsg := &domain.Message{
		MessageID: newID("msg"),
		SessionID: resp.SessionID,
		Role:      domain.RoleSystem,
		Content:   "Something went wrong while generating a reply. Please try again.",
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateMessage(ctx, errMsg); err != nil {
		log.Printf("ERROR: failed to persist error message: %v", err)
	} else {
		s.hub.Publish(domain.Event{Type: domain.EventMessageAdded, SessionID: resp.SessionID, Data: errMsg})
	}

	resp.Turn = domain.TurnErrored
	resp.Reply = errMsg
	return resp, nil
}

// buildPrompt assembles the system prompt, problem context, optional
// search enrichment, and recent history.
func (s *Service) buildPrompt(ctx context.Context, session *domain.Session, req *domain.ChatTurnRequest) ([]llm.ChatMessage, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: systemPrompt}}

	if problem, err := s.store.GetProblem(ctx, session.ProblemID); err == nil && problem != nil {
		messages = append(messages, llm.ChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("The user is working on this problem:\nTitle: %s\nDescription: %s", problem.Title, problem.Description),
		})
	}

	if (req.UseSearch || wantsSearch(req.Message)) && s.searcher != nil {
		results, err := s.searcher.Search(ctx, req.Message)
		if err != nil {
			// Search is enrichment, not a dependency.
			log.Printf("WARN: web search failed: %v", err)
		} else if block := search.FormatResults(results); block != "" {
			messages = append(messages, llm.ChatMessage{
				Role:    "system",
				Content: "Use these search results when they are relevant:\n\n" + block,
			})
		}
	}

	history, err := s.store.GetMessages(ctx, session.SessionID, 0, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	// Most recent window only; the transcript can grow without bound.
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	for _, msg := range history {
		role := string(msg.Role)
		if msg.Role == domain.RoleSystem {
			// Synthetic error notes are for the user, not the model.
			continue
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: msg.Content})
	}
	return messages, nil
}

// accumulate extracts fragments from an assistant reply, persists them,
// adds them to the session's content store, and dispatches image
// materialization. Extraction never fails a turn.
func (s *Service) accumulate(ctx context.Context, sessionID string, reply *domain.Message) []domain.Fragment {
	fragments := extract.Extract(reply.MessageID, reply.Content)
	if len(fragments) == 0 {
		return nil
	}

	cs := s.contents.ForSession(sessionID)
	for i := range fragments {
		fragments[i].SessionID = sessionID
		if err := s.store.CreateFragment(ctx, &fragments[i]); err != nil {
			log.Printf("ERROR: failed to persist fragment %s: %v", fragments[i].FragmentID, err)
			continue
		}
		cs.Append(fragments[i])
		s.hub.Publish(domain.Event{Type: domain.EventFragmentAdded, SessionID: sessionID, Data: fragments[i]})

		if fragments[i].State == domain.MaterializationPending {
			s.materialize(fragments[i])
		}
	}
	return fragments
}

// searchKeywords mark user turns that likely benefit from web results.
var searchKeywords = []string{
	"search", "find", "look up", "google", "internet", "web", "online",
	"latest", "recent", "news", "data", "information", "stats", "statistics",
	"current", "nowadays", "today", "yesterday", "this week", "this month",
	"this year", "research", "study", "survey", "report", "article", "published",
}

func wantsSearch(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range searchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DeleteMessage removes a message from a transcript. Fragments extracted
// from it stay in the workspace.
func (s *Service) DeleteMessage(ctx context.Context, messageID string) error {
	return s.store.DeleteMessage(ctx, messageID)
}

// GetMessages retrieves messages for a session.
func (s *Service) GetMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error) {
	return s.store.GetMessages(ctx, sessionID, limit, before)
}

// GetSession retrieves a session.
func (s *Service) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.store.GetSession(ctx, sessionID)
}

// ListModels lists the models the assistant provider offers.
func (s *Service) ListModels(ctx context.Context) ([]llm.Model, error) {
	models, err := s.llmClient.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return models, nil
}

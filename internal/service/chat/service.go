package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/codex-landing/backend/internal/model/chat"
	"github.com/zhouzirui/codex-landing/backend/internal/model/page"
	"github.com/zhouzirui/codex-landing/backend/internal/responder"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPromptNotFound  = errors.New("quick prompt not found")
)

// State is the client-facing view of one session.
type State struct {
	Session  chat.Session   `json:"session"`
	Messages []chat.Message `json:"messages"`
	Draft    string         `json:"draft"`
}

// SubmitResult reports the outcome of a submission. Submitted is false when
// the draft was blank and nothing changed.
type SubmitResult struct {
	State
	Submitted bool      `json:"submitted"`
	Exchange  *Exchange `json:"exchange,omitempty"`
}

// Service hosts the conversations of all active sessions.
type Service struct {
	locks   *sessionLocks
	store   Store
	content page.Content
	replier Replier
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires a session service. Nil arguments fall back to an in-memory
// store, the default phrase table and slog.Default().
func NewService(store Store, content page.Content, replier Replier, logger *slog.Logger) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if replier == nil {
		replier = responder.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		locks:   newSessionLocks(),
		store:   store,
		content: content,
		replier: replier,
		logger:  logger.With("component", "chat"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Content returns the page copy the service seeds conversations from.
func (s *Service) Content() page.Content {
	return s.content.Clone()
}

// CreateSession provisions an anonymous session with a seeded conversation.
func (s *Service) CreateSession(ctx context.Context) (State, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}

	conv := NewConversation(s.content.Greeting, s.content.InitialDraft, s.replier, WithClock(s.now))
	snapshot := conv.Snapshot()
	snapshot.Session = session

	if err := s.store.Save(ctx, snapshot); err != nil {
		return State{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session created", "session_id", session.ID)
	return stateOf(snapshot), nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(ctx context.Context, sessionID string) (chat.Session, error) {
	snapshot, err := s.load(ctx, sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return snapshot.Session, nil
}

// State returns the messages and draft of a session.
func (s *Service) State(ctx context.Context, sessionID string) (State, error) {
	snapshot, err := s.load(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return stateOf(snapshot), nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(ctx context.Context, sessionID string) ([]chat.Message, error) {
	snapshot, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return snapshot.Messages, nil
}

// Draft returns the not yet submitted input of a session.
func (s *Service) Draft(ctx context.Context, sessionID string) (string, error) {
	snapshot, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return snapshot.Draft, nil
}

// SetDraft replaces the session draft.
func (s *Service) SetDraft(ctx context.Context, sessionID, draft string) (State, error) {
	snapshot, err := s.update(ctx, sessionID, func(conv *Conversation) error {
		conv.SetDraft(draft)
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return stateOf(snapshot), nil
}

// SelectPrompt copies the quick prompt at index into the session draft.
func (s *Service) SelectPrompt(ctx context.Context, sessionID string, index int) (State, error) {
	prompt, ok := s.content.Prompt(index)
	if !ok {
		return State{}, fmt.Errorf("%w: index %d", ErrPromptNotFound, index)
	}

	snapshot, err := s.update(ctx, sessionID, func(conv *Conversation) error {
		conv.SelectPrompt(prompt)
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return stateOf(snapshot), nil
}

// Submit sends the current draft of a session.
func (s *Service) Submit(ctx context.Context, sessionID string) (SubmitResult, error) {
	return s.submit(ctx, sessionID, nil)
}

// SubmitText replaces the draft with text and submits it in one step. Blank
// text is rejected without touching the stored draft.
func (s *Service) SubmitText(ctx context.Context, sessionID, text string) (SubmitResult, error) {
	if strings.TrimSpace(text) == "" {
		snapshot, err := s.load(ctx, sessionID)
		if err != nil {
			return SubmitResult{}, err
		}
		return SubmitResult{State: stateOf(snapshot)}, nil
	}
	return s.submit(ctx, sessionID, &text)
}

func (s *Service) submit(ctx context.Context, sessionID string, text *string) (SubmitResult, error) {
	var (
		exchange  Exchange
		submitted bool
	)
	snapshot, err := s.update(ctx, sessionID, func(conv *Conversation) error {
		if text != nil {
			conv.SetDraft(*text)
		}
		exchange, submitted = conv.Submit()
		return nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	result := SubmitResult{State: stateOf(snapshot), Submitted: submitted}
	if submitted {
		result.Exchange = &exchange
		s.logger.Debug("message answered",
			"session_id", sessionID,
			"user_message_id", exchange.User.ID,
			"assistant_message_id", exchange.Assistant.ID,
		)
	}
	return result, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (chat.Snapshot, error) {
	if sessionID == "" {
		return chat.Snapshot{}, ErrSessionNotFound
	}
	return s.store.Load(ctx, sessionID)
}

// update runs fn against the restored conversation and persists the result.
// Mutations of one session run strictly in sequence; other sessions proceed
// in parallel.
func (s *Service) update(ctx context.Context, sessionID string, fn func(*Conversation) error) (chat.Snapshot, error) {
	if sessionID == "" {
		return chat.Snapshot{}, ErrSessionNotFound
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	stored, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return chat.Snapshot{}, err
	}

	conv := RestoreConversation(stored, s.replier, WithClock(s.now))
	if err := fn(conv); err != nil {
		return chat.Snapshot{}, err
	}

	snapshot := conv.Snapshot()
	snapshot.Session = stored.Session
	if err := s.store.Save(ctx, snapshot); err != nil {
		return chat.Snapshot{}, fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return snapshot, nil
}

func stateOf(snapshot chat.Snapshot) State {
	return State{
		Session:  snapshot.Session,
		Messages: snapshot.Messages,
		Draft:    snapshot.Draft,
	}
}

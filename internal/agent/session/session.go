// Package session owns one conversation: its turn history, the resilience
// mode used to reach the chat model and the last settings instruction that
// was injected into it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/alpha-assistant/server/internal/agent/model"
	"github.com/alpha-assistant/server/internal/agent/prompts"
	logx "github.com/alpha-assistant/server/pkg/logger"
)

type Session struct {
	id   string
	repo model.ConversationRepository

	mu       sync.RWMutex
	mode     model.Mode
	injected string
}

// New creates a session with a fresh ID and seeds it with the bootstrap turns.
func New(ctx context.Context, repo model.ConversationRepository) (*Session, error) {
	s := &Session{
		id:   uuid.NewString(),
		repo: repo,
	}
	if err := s.Reset(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// Reset drops every turn, reseeds the bootstrap exchange and returns the
// session to Stateful. The mode is reset even if the store fails.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = model.Stateful
	s.injected = ""

	if err := s.repo.ClearHistory(ctx, s.id); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if err := s.repo.AppendTurns(ctx, s.id, prompts.BootstrapTurns()...); err != nil {
		return fmt.Errorf("seed bootstrap turns: %w", err)
	}
	logx.Debug().Str("session_id", s.id).Msg("session reset")
	return nil
}

// Restore reseeds the bootstrap turns when the store no longer holds the
// conversation, e.g. after it expired while the session sat idle. The injected
// instruction is forgotten with the turns that carried it. It reports whether
// the conversation was restored.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.repo.GetTurnCount(ctx, s.id)
	if err != nil {
		return false, fmt.Errorf("count turns: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	s.injected = ""
	if err := s.repo.AppendTurns(ctx, s.id, prompts.BootstrapTurns()...); err != nil {
		return false, fmt.Errorf("seed bootstrap turns: %w", err)
	}
	logx.Info().Str("session_id", s.id).Stringer("mode", s.mode).Msg("conversation expired, bootstrap turns restored")
	return true, nil
}

func (s *Session) Mode() model.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Escalate moves the session to target if target is further along the
// fallback chain. It never moves backwards and returns the resulting mode.
func (s *Session) Escalate(target model.Mode) model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target > s.mode {
		logx.Info().
			Str("session_id", s.id).
			Stringer("from", s.mode).
			Stringer("to", target).
			Msg("conversation mode escalated")
		s.mode = target
	}
	return s.mode
}

// Downgrade escalates to the next mode in the chain.
func (s *Session) Downgrade() model.Mode {
	return s.Escalate(s.Mode().Next())
}

func (s *Session) History(ctx context.Context) ([]model.Turn, error) {
	h, err := s.repo.LoadHistory(ctx, s.id)
	if err != nil {
		return nil, err
	}
	return h.Turns, nil
}

// Context returns the full history followed by the outgoing user message, as
// sent to the chat model in Stateful mode.
func (s *Session) Context(ctx context.Context, message string) ([]*schema.Message, error) {
	turns, err := s.History(ctx)
	if err != nil {
		return nil, err
	}
	msgs := model.Messages(turns)
	return append(msgs, schema.UserMessage(message)), nil
}

// Record appends one user/model exchange to the history.
func (s *Session) Record(ctx context.Context, user, reply string) error {
	return s.repo.AppendTurns(ctx, s.id, model.UserTurn(user), model.ModelTurn(reply))
}

// Injected is the settings instruction most recently recorded in history.
func (s *Session) Injected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.injected
}

func (s *Session) MarkInjected(instruction string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injected = instruction
}

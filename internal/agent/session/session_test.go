package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-assistant/server/internal/agent/model"
	"github.com/alpha-assistant/server/internal/agent/prompts"
	"github.com/alpha-assistant/server/internal/agent/repo"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(context.Background(), repo.NewMemoryTurnRepository(0))
	require.NoError(t, err)
	return s
}

func TestNewSeedsBootstrapTurns(t *testing.T) {
	s := newSession(t)

	turns, err := s.History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, prompts.BootstrapTurns(), turns)
	assert.Equal(t, model.Stateful, s.Mode())
	assert.NotEmpty(t, s.ID())
}

func TestResetRestoresBootstrapAndStateful(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, "q", "a"))
	}
	s.MarkInjected("instruction")
	s.Escalate(model.Degraded)

	require.NoError(t, s.Reset(ctx))

	turns, err := s.History(ctx)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
	assert.Equal(t, model.Stateful, s.Mode())
	assert.Empty(t, s.Injected())
}

func TestModeNeverRegresses(t *testing.T) {
	s := newSession(t)

	assert.Equal(t, model.Stateless, s.Downgrade())
	assert.Equal(t, model.Stateless, s.Escalate(model.Stateful))
	assert.Equal(t, model.Degraded, s.Downgrade())
	assert.Equal(t, model.Degraded, s.Downgrade())
	assert.Equal(t, model.Degraded, s.Escalate(model.Stateless))
}

func TestContextAppendsOutgoingMessage(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Record(ctx, "hi", "hello"))

	msgs, err := s.Context(ctx, "next")

	require.NoError(t, err)
	require.Len(t, msgs, 5)
	assert.Equal(t, schema.Assistant, msgs[3].Role)
	assert.Equal(t, "next", msgs[4].Content)
	assert.Equal(t, schema.User, msgs[4].Role)
}

type failingRepo struct {
	*repo.MemoryTurnRepository
}

func (failingRepo) ClearHistory(context.Context, string) error {
	return errors.New("store down")
}

func TestResetStillReturnsToStatefulWhenStoreFails(t *testing.T) {
	s := newSession(t)
	s.Escalate(model.Degraded)
	s.repo = failingRepo{repo.NewMemoryTurnRepository(0)}

	err := s.Reset(context.Background())

	assert.Error(t, err)
	assert.Equal(t, model.Stateful, s.Mode())
}

func TestRestoreReseedsExpiredConversation(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, repo.NewMemoryTurnRepository(50*time.Millisecond))
	require.NoError(t, err)
	s.MarkInjected("instruction")

	restored, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Equal(t, "instruction", s.Injected())

	time.Sleep(120 * time.Millisecond)
	restored, err = s.Restore(ctx)

	require.NoError(t, err)
	assert.True(t, restored)
	assert.Empty(t, s.Injected())
	turns, err := s.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, prompts.BootstrapTurns(), turns)
}

package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/alpha-assistant/server/internal/agent/model"
	errx "github.com/alpha-assistant/server/internal/core/error"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseRepository(t *testing.T, r model.ConversationRepository) {
	t.Helper()
	ctx := context.Background()

	empty, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, empty.Turns)
	assert.NotNil(t, empty.Turns)

	require.NoError(t, r.AppendTurns(ctx, "c1", model.UserTurn("hi"), model.ModelTurn("hello")))
	require.NoError(t, r.AppendTurns(ctx, "c1", model.UserTurn("how are you?")))
	require.NoError(t, r.AppendTurns(ctx, "c2", model.UserTurn("other")))
	require.NoError(t, r.AppendTurns(ctx, "c1"))

	history, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", history.ConversationID)
	assert.Equal(t, []model.Turn{
		{Role: model.RoleUser, Text: "hi"},
		{Role: model.RoleModel, Text: "hello"},
		{Role: model.RoleUser, Text: "how are you?"},
	}, history.Turns)

	n, err := r.GetTurnCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, r.ClearHistory(ctx, "c1"))
	n, err = r.GetTurnCount(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.GetTurnCount(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryTurnRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryTurnRepository(0))
}

func TestMemoryTurnRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTurnRepository(0)
	require.NoError(t, r.AppendTurns(ctx, "c", model.UserTurn("a")))

	history, err := r.LoadHistory(ctx, "c")
	require.NoError(t, err)
	history.Turns[0].Text = "mutated"

	again, err := r.LoadHistory(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Turns[0].Text)
}

func newRedisRepo(t *testing.T, ttl time.Duration) (*RedisTurnRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisTurnRepository(rdb, ttl), mr
}

func TestRedisTurnRepository(t *testing.T) {
	r, _ := newRedisRepo(t, 0)
	exerciseRepository(t, r)
}

func TestRedisTurnRepositorySetsTTL(t *testing.T) {
	r, mr := newRedisRepo(t, 15*time.Minute)

	require.NoError(t, r.AppendTurns(context.Background(), "c1", model.UserTurn("hi")))

	assert.Equal(t, 15*time.Minute, mr.TTL("conversation:c1:turns"))
}

func TestRedisTurnRepositoryCorruptRow(t *testing.T) {
	r, mr := newRedisRepo(t, 0)
	_, err := mr.Push("conversation:c1:turns", "{not json")
	require.NoError(t, err)

	_, err = r.LoadHistory(context.Background(), "c1")

	assert.Error(t, err)
}

func TestRedisTurnRepositoryWrapsConnectionErrors(t *testing.T) {
	r, mr := newRedisRepo(t, 0)
	mr.Close()

	err := r.AppendTurns(context.Background(), "c1", model.UserTurn("hi"))

	assert.True(t, errors.Is(err, errx.ErrStorage))
}

func TestMemoryTurnRepositoryExpiresIdleConversations(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTurnRepository(50 * time.Millisecond)
	require.NoError(t, r.AppendTurns(ctx, "c", model.UserTurn("a")))

	require.Eventually(t, func() bool {
		n, err := r.GetTurnCount(ctx, "c")
		return err == nil && n == 0
	}, time.Second, 10*time.Millisecond)
}

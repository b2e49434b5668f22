package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/alpha-assistant/server/internal/agent/model"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryTurnRepository keeps conversations in process memory. It is the
// default store; nothing survives a restart.
type MemoryTurnRepository struct {
	// mu makes append a single read-modify-write
	mu    sync.Mutex
	cache *cache.Cache
}

// NewMemoryTurnRepository expires idle conversations after ttl; zero keeps
// them for the life of the process.
func NewMemoryTurnRepository(ttl time.Duration) *MemoryTurnRepository {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryTurnRepository{cache: cache.New(ttl, memoryCleanupInterval)}
}

func (r *MemoryTurnRepository) load(conversationID string) []model.Turn {
	if x, found := r.cache.Get(conversationID); found {
		return x.([]model.Turn)
	}
	return nil
}

func (r *MemoryTurnRepository) AppendTurns(_ context.Context, conversationID string, turns ...model.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// clone so slices handed out by LoadHistory never alias the stored one
	updated := append(slices.Clone(r.load(conversationID)), turns...)
	r.cache.Set(conversationID, updated, cache.DefaultExpiration)
	return nil
}

func (r *MemoryTurnRepository) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	turns := slices.Clone(r.load(conversationID))
	if turns == nil {
		turns = []model.Turn{}
	}
	return &model.ConversationHistory{ConversationID: conversationID, Turns: turns}, nil
}

func (r *MemoryTurnRepository) ClearHistory(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(conversationID)
	return nil
}

func (r *MemoryTurnRepository) GetTurnCount(_ context.Context, conversationID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.load(conversationID)), nil
}

var _ model.ConversationRepository = (*MemoryTurnRepository)(nil)

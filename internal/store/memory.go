// internal/store/memory.go
//
// In-memory implementation of Store.
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/m-7labs/solitaire-lite/internal/game"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Latest(ctx context.Context, owner string) (*game.Game, error) {
	list := m.owned(owner)
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[list[0].ID]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

func (m *memory) List(ctx context.Context, owner string, limit int) ([]Summary, error) {
	list := m.owned(owner)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// owned summarizes the owner's games, newest first.
func (m *memory) owned(owner string) []Summary {
	m.mu.RLock()
	games := make([]*game.Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	out := []Summary{}
	for _, g := range games {
		if g.Owner() != owner {
			continue
		}
		out = append(out, summarize(g.Snapshot()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

func (m *memory) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.games {
		if g.Owner() == from {
			g.SetOwner(to)
		}
	}
	return nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

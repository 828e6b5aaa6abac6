// internal/store/store.go
//
// Persistence for game sessions.
// Implementations:
//   - memory: live games keyed by ID, lost on restart (memory.go).
//   - SQLite: durable saves in the games table, encoded with savegame (sqlite.go).
//   - Layered: memory in front of SQLite, so concurrent requests share one *game.Game (layered.go).

package store

import (
	"context"
	"errors"
	"time"

	"github.com/m-7labs/solitaire-lite/internal/game"
)

// ErrNotFound is returned for an unknown game ID or an owner with no games.
var ErrNotFound = errors.New("not found")

// Summary is one row of a player's game list.
type Summary struct {
	ID         string    `json:"id"`
	Daily      string    `json:"daily,omitempty"`
	Status     string    `json:"status"` // "playing" | "won"
	Score      int       `json:"score"`
	Moves      int       `json:"moves"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or updates a game.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Latest returns the owner's most recently started game.
	Latest(ctx context.Context, owner string) (*game.Game, error)

	// List returns the owner's games, newest first.
	List(ctx context.Context, owner string, limit int) ([]Summary, error)

	// Claim moves every game owned by from to to.
	Claim(ctx context.Context, from, to string) error

	// Delete discards a game. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

func status(won bool) string {
	if won {
		return "won"
	}
	return "playing"
}

func summarize(s game.Snapshot) Summary {
	return Summary{
		ID:         s.ID,
		Daily:      s.Daily,
		Status:     status(s.Won),
		Score:      s.Score,
		Moves:      s.Moves,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
}

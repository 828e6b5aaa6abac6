// internal/store/sqlite.go
//
// SQLite-backed Store.
// Each game is one row of the games table; the layout and move history live
// in state_json (savegame encoding), the rest in plain columns so lists and
// stats never decode a save.
//
// A row whose state_json fails to decode is deleted and reported as
// savegame.ErrCorruptSave; callers start a fresh game instead.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/m-7labs/solitaire-lite/internal/game"
	"github.com/m-7labs/solitaire-lite/internal/savegame"
)

// SQLite persists games in a database/sql handle opened with the sqlite3 driver.
type SQLite struct {
	db    *sql.DB
	rules game.Rules
}

// NewSQLite wraps db. rules are applied to games it loads.
func NewSQLite(db *sql.DB, rules game.Rules) *SQLite {
	return &SQLite{db: db, rules: rules}
}

func (s *SQLite) Save(ctx context.Context, g *game.Game) error {
	snap := g.Snapshot()
	state, err := savegame.Encode(snap.State)
	if err != nil {
		return fmt.Errorf("encode %s: %w", snap.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO games (id, owner, seed, daily, score, moves, status, started_at, finished_at, state_json, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET
            owner=excluded.owner, score=excluded.score, moves=excluded.moves, status=excluded.status,
            finished_at=excluded.finished_at, state_json=excluded.state_json, updated_at=excluded.updated_at`,
		snap.ID, snap.Owner, int64(snap.Seed), snap.Daily, snap.Score, snap.Moves, status(snap.Won),
		formatTime(snap.StartedAt), nullTime(snap.FinishedAt), string(state), formatTime(time.Now().UTC()),
	)
	return err
}

const selectGame = `SELECT id, owner, seed, daily, score, status, started_at, COALESCE(finished_at,''), state_json FROM games`

func (s *SQLite) Get(ctx context.Context, id string) (*game.Game, error) {
	return s.load(ctx, s.db.QueryRowContext(ctx, selectGame+` WHERE id=?`, id))
}

func (s *SQLite) Latest(ctx context.Context, owner string) (*game.Game, error) {
	return s.load(ctx, s.db.QueryRowContext(ctx,
		selectGame+` WHERE owner=? ORDER BY started_at DESC LIMIT 1`, owner))
}

func (s *SQLite) load(ctx context.Context, row *sql.Row) (*game.Game, error) {
	var (
		snap                game.Snapshot
		seed                int64
		st, started, finish string
		state               string
	)
	err := row.Scan(&snap.ID, &snap.Owner, &seed, &snap.Daily, &snap.Score, &st, &started, &finish, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	snap.Seed = uint64(seed)
	snap.Won = st == "won"
	snap.StartedAt = parseTime(started)
	snap.FinishedAt = parseTime(finish)

	snap.State, err = savegame.Decode([]byte(state))
	if err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("discarding corrupt save")
		if derr := s.Delete(ctx, snap.ID); derr != nil {
			log.Error().Err(derr).Str("gameId", snap.ID).Msg("delete corrupt save")
		}
		return nil, err
	}
	return game.Restore(snap, s.rules), nil
}

func (s *SQLite) List(ctx context.Context, owner string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, daily, status, score, moves, started_at, COALESCE(finished_at,'')
        FROM games WHERE owner=? ORDER BY started_at DESC LIMIT ?`, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var started, finished string
		if err := rows.Scan(&sm.ID, &sm.Daily, &sm.Status, &sm.Score, &sm.Moves, &started, &finished); err != nil {
			return nil, err
		}
		sm.StartedAt = parseTime(started)
		sm.FinishedAt = parseTime(finished)
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLite) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `UPDATE games SET owner=? WHERE owner=?`, to, from)
	return err
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id=?`, id)
	return err
}

// timeLayout is fixed width so that timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily deal.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	GameID    string `json:"gameId"`
	Moves     int    `json:"moves"`
	Score     int    `json:"score"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?",
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, game_id, moves, score, elapsed_ms)
         VALUES(?,?,?,?,?,?)`, r.UserID, r.Date, r.GameID, r.Moves, r.Score, r.ElapsedMs,
	)
	return err
}

type LBRow struct {
	UserID    string `json:"userId"`
	Username  string `json:"username,omitempty"`
	Moves     int    `json:"moves"`
	Score     int    `json:"score"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard ranks the date's results, fastest first, fewer moves breaking ties.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.user_id, COALESCE(u.username,''), d.moves, d.score, d.elapsed_ms
         FROM daily_results d LEFT JOIN users u ON u.id = d.user_id
         WHERE d.date=?
         ORDER BY d.elapsed_ms ASC, d.moves ASC, d.created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Moves, &r.Score, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

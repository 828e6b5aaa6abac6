// internal/auth/users.go
//
// Player accounts and their lifetime stats.
// Responsibilities:
//   - Signup validation and bcrypt password hashing.
//   - Lookup by id or (case-insensitive) username.
//   - Stats bookkeeping: games played, wins, current win streak, fastest win.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken  = errors.New("username taken")
	ErrBadCredentials = errors.New("invalid username or password")
	ErrNoUser         = errors.New("no such user")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
	BestMs       int64     `json:"bestMs,omitempty"`
}

// Users reads and writes the users table.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// Create validates input, hashes the password and inserts a new user.
func (u *Users) Create(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=?`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := hashPassword(pw)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &User{ID: uuid.NewString(), Username: username, PasswordHash: h, CreatedAt: now}
	if _, err := u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		user.ID, user.Username, user.PasswordHash, now.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username and password pair.
func (u *Users) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	user, err := u.ByUsername(ctx, normalizeUsername(username))
	if err != nil || !checkPassword(user.PasswordHash, pw) {
		return nil, ErrBadCredentials
	}
	return user, nil
}

func (u *Users) ByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx, selectUser+` WHERE username=?`, username))
}

func (u *Users) ByID(ctx context.Context, id string) (*User, error) {
	return scanUser(u.db.QueryRowContext(ctx, selectUser+` WHERE id=?`, id))
}

// RecordStart counts a new game. Abandoning an unfinished game ends the streak.
func (u *Users) RecordStart(ctx context.Context, id string, abandoned bool) error {
	q := `UPDATE users SET games_played = games_played + 1 WHERE id=?`
	if abandoned {
		q = `UPDATE users SET games_played = games_played + 1, streak = 0 WHERE id=?`
	}
	return u.exec(ctx, q, id)
}

// RecordWin counts a win and keeps the fastest time.
func (u *Users) RecordWin(ctx context.Context, id string, elapsed time.Duration) error {
	return u.exec(ctx, `
        UPDATE users SET wins = wins + 1, streak = streak + 1,
            best_ms = CASE WHEN best_ms IS NULL OR best_ms > ? THEN ? ELSE best_ms END
        WHERE id=?`, elapsed.Milliseconds(), elapsed.Milliseconds(), id)
}

func (u *Users) exec(ctx context.Context, q string, args ...any) error {
	res, err := u.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoUser
	}
	return nil
}

const selectUser = `SELECT id, username, password_hash, created_at, games_played, wins, streak, COALESCE(best_ms,0) FROM users`

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var created string
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &created,
		&user.GamesPlayed, &user.Wins, &user.Streak, &user.BestMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoUser
	}
	if err != nil {
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &user, nil
}

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8-100 chars")
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

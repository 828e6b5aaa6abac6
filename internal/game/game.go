// internal/game/game.go
//
// Game is the controller for a single Klondike session.
// Responsibilities:
//   - Own one State and serialise every mutation of it behind a mutex.
//   - Keep score, move count and the play timer.
//   - Phrase the outcome of each action as a status message.
//   - Defer the auto-complete sweep after a manual move.
//
// Notes:
//   - Scoring sits on top of the move log; the engine itself knows nothing about points.
//   - A won game is finished: further moves, draws and undos are refused.

package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrGameOver is returned for actions on a won game.
var ErrGameOver = errors.New("game finished")

// Rules holds the scoring knobs.
type Rules struct {
	FoundationPoints int // per card reaching a foundation
	UndoPenalty      int // per undo
}

// DefaultRules awards 10 points per foundation card and no undo penalty.
func DefaultRules() Rules { return Rules{FoundationPoints: 10} }

// Result describes the outcome of one action.
type Result struct {
	Move    Move   // nil for auto-complete
	Moved   int    // cards swept by auto-complete
	Message string // status line for the player
	Won     bool
}

// Snapshot is a detached copy of a game, safe to read and encode.
type Snapshot struct {
	ID         string
	Owner      string // user or anonymous id
	Seed       uint64
	Daily      string // YYYY-MM-DD for daily deals, empty otherwise
	State      *State
	Score      int
	Moves      int
	StartedAt  time.Time
	FinishedAt time.Time
	Won        bool
	Elapsed    time.Duration
}

// Option customises New.
type Option func(*Game)

// WithOwner attaches the game to a user or anonymous id.
func WithOwner(owner string) Option { return func(g *Game) { g.owner = owner } }

// WithDaily marks the game as the daily deal for date.
func WithDaily(date string) Option { return func(g *Game) { g.daily = date } }

// Game holds the state of one session.
type Game struct {
	ID string

	mu         sync.Mutex
	owner      string
	seed       uint64
	daily      string
	state      *State
	rules      Rules
	score      int
	startedAt  time.Time
	finishedAt time.Time
	won        bool
	timer      *time.Timer
	now        func() time.Time
}

// New deals a fresh game from seed.
func New(seed uint64, rules Rules, opts ...Option) *Game {
	g := &Game{
		ID:    uuid.NewString(),
		seed:  seed,
		state: NewState(NewRand(seed)),
		rules: rules,
		now:   time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	g.startedAt = g.now().UTC()
	return g
}

// Restore rebuilds a game from a snapshot, typically one loaded from storage.
func Restore(s Snapshot, rules Rules) *Game {
	id := s.ID
	if id == "" {
		id = uuid.NewString()
	}
	st := s.State
	if st == nil {
		st = NewState(NewRand(s.Seed))
	}
	g := &Game{
		ID:         id,
		owner:      s.Owner,
		seed:       s.Seed,
		daily:      s.Daily,
		state:      st.Clone(),
		rules:      rules,
		score:      s.Score,
		startedAt:  s.StartedAt,
		finishedAt: s.FinishedAt,
		won:        s.Won || st.IsWon(),
		now:        time.Now,
	}
	if g.startedAt.IsZero() {
		g.startedAt = g.now().UTC()
	}
	return g
}

// Snapshot copies the game's current state.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Snapshot{
		ID:         g.ID,
		Owner:      g.owner,
		Seed:       g.seed,
		Daily:      g.daily,
		State:      g.state.Clone(),
		Score:      g.score,
		Moves:      len(g.state.History),
		StartedAt:  g.startedAt,
		FinishedAt: g.finishedAt,
		Won:        g.won,
		Elapsed:    g.elapsed(),
	}
}

// Owner returns the owning user or anonymous id.
func (g *Game) Owner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.owner
}

// SetOwner reassigns the game, e.g. when a guest signs up.
func (g *Game) SetOwner(owner string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.owner = owner
}

// Won reports whether the game has been won.
func (g *Game) Won() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.won
}

// Elapsed is the play time, frozen once the game is won.
func (g *Game) Elapsed() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.elapsed()
}

func (g *Game) elapsed() time.Duration {
	if g.won && !g.finishedAt.IsZero() {
		return g.finishedAt.Sub(g.startedAt)
	}
	return g.now().Sub(g.startedAt)
}

// Move moves the run starting at from onto to.
func (g *Game) Move(from CardRef, to PileRef) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.won {
		return Result{}, ErrGameOver
	}
	m, err := g.state.Move(from, to)
	if err != nil {
		return Result{}, err
	}
	if to.Kind == FoundationPile {
		g.score += g.rules.FoundationPoints
	}
	res := Result{Move: m, Message: fmt.Sprintf("Moved %s to %s.", m.Cards()[0].Name(), to)}
	g.checkWin(&res)
	return res, nil
}

// Draw turns a stock card onto the waste, or resets the waste into the stock.
func (g *Game) Draw() (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.won {
		return Result{}, ErrGameOver
	}
	m, err := g.state.Draw()
	if err != nil {
		return Result{}, err
	}
	res := Result{Move: m, Message: "Reset waste pile to stock."}
	if sw, ok := m.(StockToWaste); ok {
		res.Message = fmt.Sprintf("Drew %s from stock.", sw.Card.Name())
	}
	return res, nil
}

// AutoComplete sweeps every eligible card to the foundations.
func (g *Game) AutoComplete() Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.won {
		return Result{Won: true, Message: "Game already won."}
	}
	n := g.state.AutoComplete()
	g.score += n * g.rules.FoundationPoints
	res := Result{Moved: n, Message: "No cards to auto-complete."}
	if n > 0 {
		res.Message = fmt.Sprintf("Auto-completed %d cards to foundation.", n)
	}
	g.checkWin(&res)
	return res
}

// ScheduleAutoComplete runs AutoComplete after delay and hands the result to
// done. A non-positive delay runs it immediately. A newer schedule replaces a
// pending one.
func (g *Game) ScheduleAutoComplete(delay time.Duration, done func(Result)) {
	run := func() {
		res := g.AutoComplete()
		if done != nil {
			done(res)
		}
	}
	if delay <= 0 {
		run()
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(delay, run)
}

// Undo reverses the last move.
func (g *Game) Undo() (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.won {
		return Result{}, ErrGameOver
	}
	m, err := g.state.Undo()
	if err != nil {
		return Result{}, err
	}
	if m.Destination().Kind == FoundationPile {
		g.score -= g.rules.FoundationPoints
	}
	g.score -= g.rules.UndoPenalty
	if g.score < 0 {
		g.score = 0
	}
	return Result{Move: m, Message: "Undid the last move."}, nil
}

// Hint suggests a move, if there is one.
func (g *Game) Hint() (Candidate, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Hint()
}

func (g *Game) checkWin(res *Result) {
	if g.won || !g.state.IsWon() {
		return
	}
	g.won = true
	g.finishedAt = g.now().UTC()
	if g.timer != nil {
		g.timer.Stop()
	}
	res.Won = true
	res.Message += " You won!"
}

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/m-7labs/solitaire-lite/internal/game"
)

// Layered keeps live games in front (memory) and writes through to back
// (SQLite). A game loaded from back is cached so that every request for an ID
// gets the same *game.Game and its mutex.
type Layered struct {
	front, back Store
	fill        sync.Mutex
}

// NewLayered stacks front over back.
func NewLayered(front, back Store) *Layered {
	return &Layered{front: front, back: back}
}

func (l *Layered) Save(ctx context.Context, g *game.Game) error {
	if err := l.front.Save(ctx, g); err != nil {
		return err
	}
	return l.back.Save(ctx, g)
}

func (l *Layered) Get(ctx context.Context, id string) (*game.Game, error) {
	if g, err := l.front.Get(ctx, id); err == nil {
		return g, nil
	}
	l.fill.Lock()
	defer l.fill.Unlock()
	if g, err := l.front.Get(ctx, id); err == nil {
		return g, nil
	}
	g, err := l.back.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return g, l.front.Save(ctx, g)
}

func (l *Layered) Latest(ctx context.Context, owner string) (*game.Game, error) {
	g, err := l.back.Latest(ctx, owner)
	if errors.Is(err, ErrNotFound) {
		return l.front.Latest(ctx, owner)
	}
	if err != nil {
		return nil, err
	}
	return l.Get(ctx, g.ID)
}

func (l *Layered) List(ctx context.Context, owner string, limit int) ([]Summary, error) {
	return l.back.List(ctx, owner, limit)
}

func (l *Layered) Claim(ctx context.Context, from, to string) error {
	if err := l.front.Claim(ctx, from, to); err != nil {
		return err
	}
	return l.back.Claim(ctx, from, to)
}

func (l *Layered) Delete(ctx context.Context, id string) error {
	if err := l.front.Delete(ctx, id); err != nil {
		return err
	}
	return l.back.Delete(ctx, id)
}

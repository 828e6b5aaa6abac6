// internal/savegame/savegame.go
//
// Encoding of a game.State as plain data.
// Shape:
//   {"version":1,"stockPile":[...],"wastePile":[...],"foundationPiles":[[...]x4],
//    "tableauPiles":[[...]x7],"moveHistory":[...]}
// with cards as {"suit":"hearts","rank":"A","isFaceUp":true} and moves as
//   {"type":"tableau-to-foundation","movedCards":[...],"source":{"type":"tableau","index":2},
//    "destination":{"type":"foundation","index":0},"flippedCard":true}
//
// Decoding is defensive: anything structurally wrong is reported as
// ErrCorruptSave and nothing partial is returned. Saves without a version
// field predate versioning and are read as version 0.

package savegame

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m-7labs/solitaire-lite/internal/game"
)

// Version is the current save format.
const Version = 1

// ErrCorruptSave wraps every decoding failure.
var ErrCorruptSave = errors.New("corrupt save data")

// Card is the persisted form of a card.
type Card struct {
	Suit     string `json:"suit"`
	Rank     string `json:"rank"`
	IsFaceUp bool   `json:"isFaceUp"`
}

// PileRef is the persisted form of a pile reference. Index is null for stock and waste.
type PileRef struct {
	Type  string `json:"type"`
	Index *int   `json:"index"`
}

// Move is the persisted form of a move descriptor.
type Move struct {
	Type        string  `json:"type"`
	MovedCards  []Card  `json:"movedCards"`
	Source      PileRef `json:"source"`
	Destination PileRef `json:"destination"`
	FlippedCard bool    `json:"flippedCard"`
}

// Data is the whole persisted game.
type Data struct {
	Version         int      `json:"version"`
	StockPile       []Card   `json:"stockPile"`
	WastePile       []Card   `json:"wastePile"`
	FoundationPiles [][]Card `json:"foundationPiles"`
	TableauPiles    [][]Card `json:"tableauPiles"`
	MoveHistory     []Move   `json:"moveHistory"`
}

// Serialize converts s to plain data.
func Serialize(s *game.State) Data {
	d := Data{
		Version:         Version,
		StockPile:       cardsOut(s.Stock),
		WastePile:       cardsOut(s.Waste),
		FoundationPiles: make([][]Card, game.NumFoundations),
		TableauPiles:    make([][]Card, game.NumTableaus),
		MoveHistory:     make([]Move, 0, len(s.History)),
	}
	for i, p := range s.Foundations {
		d.FoundationPiles[i] = cardsOut(p)
	}
	for i, p := range s.Tableaus {
		d.TableauPiles[i] = cardsOut(p)
	}
	for _, m := range s.History {
		d.MoveHistory = append(d.MoveHistory, Move{
			Type:        string(m.Kind()),
			MovedCards:  cardsOut(m.Cards()),
			Source:      refOut(m.Source()),
			Destination: refOut(m.Destination()),
			FlippedCard: m.Flipped(),
		})
	}
	return d
}

// Deserialize rebuilds a State from plain data, rejecting anything malformed.
func Deserialize(d Data) (*game.State, error) {
	if d.Version < 0 || d.Version > Version {
		return nil, corrupt("unsupported version %d", d.Version)
	}
	if len(d.FoundationPiles) != game.NumFoundations {
		return nil, corrupt("want %d foundation piles, got %d", game.NumFoundations, len(d.FoundationPiles))
	}
	if len(d.TableauPiles) != game.NumTableaus {
		return nil, corrupt("want %d tableau piles, got %d", game.NumTableaus, len(d.TableauPiles))
	}

	s := &game.State{}
	var err error
	if s.Stock, err = cardsIn(d.StockPile); err != nil {
		return nil, err
	}
	if s.Waste, err = cardsIn(d.WastePile); err != nil {
		return nil, err
	}
	for i, p := range d.FoundationPiles {
		if s.Foundations[i], err = cardsIn(p); err != nil {
			return nil, err
		}
	}
	for i, p := range d.TableauPiles {
		if s.Tableaus[i], err = cardsIn(p); err != nil {
			return nil, err
		}
	}
	if err := s.CheckIntegrity(); err != nil {
		return nil, corrupt("%v", err)
	}
	for i, p := range s.Foundations {
		for j, c := range p {
			if c.Rank != game.Rank(j) || c.Suit != p[0].Suit {
				return nil, corrupt("foundation %d is out of order at %d", i+1, j)
			}
		}
	}

	for i, mj := range d.MoveHistory {
		m, err := moveIn(mj)
		if err != nil {
			return nil, corrupt("move %d: %v", i, err)
		}
		s.History = append(s.History, m)
	}
	if err := replayable(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode serializes s to JSON.
func Encode(s *game.State) ([]byte, error) {
	return json.Marshal(Serialize(s))
}

// Decode parses JSON produced by Encode (or a pre-versioning save).
func Decode(b []byte) (*game.State, error) {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	return Deserialize(d)
}

// replayable checks that the whole history can be undone on a copy of s.
func replayable(s *game.State) error {
	c := s.Clone()
	for range s.History {
		if _, err := c.Undo(); err != nil {
			return corrupt("history does not replay: %v", err)
		}
	}
	return nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSave, fmt.Sprintf(format, args...))
}

func cardsOut(p []game.Card) []Card {
	out := make([]Card, len(p))
	for i, c := range p {
		out[i] = Card{Suit: c.Suit.String(), Rank: c.Rank.String(), IsFaceUp: c.FaceUp}
	}
	return out
}

func cardsIn(p []Card) (game.Pile, error) {
	out := make(game.Pile, len(p))
	for i, c := range p {
		if c.Suit == "" || c.Rank == "" {
			return nil, corrupt("card without suit or rank")
		}
		suit, ok := game.ParseSuit(c.Suit)
		if !ok {
			return nil, corrupt("unknown suit %q", c.Suit)
		}
		rank, ok := game.ParseRank(c.Rank)
		if !ok {
			return nil, corrupt("unknown rank %q", c.Rank)
		}
		out[i] = game.Card{Suit: suit, Rank: rank, FaceUp: c.IsFaceUp}
	}
	return out, nil
}

func refOut(r game.PileRef) PileRef {
	out := PileRef{Type: r.Kind.String()}
	if r.Kind == game.FoundationPile || r.Kind == game.TableauPile {
		i := r.Index
		out.Index = &i
	}
	return out
}

func refIn(r PileRef) (game.PileRef, error) {
	kind, ok := game.ParsePileKind(r.Type)
	if !ok {
		return game.PileRef{}, fmt.Errorf("unknown pile type %q", r.Type)
	}
	ref := game.PileRef{Kind: kind}
	if kind == game.FoundationPile || kind == game.TableauPile {
		if r.Index == nil {
			return game.PileRef{}, fmt.Errorf("%s without index", kind)
		}
		ref.Index = *r.Index
	}
	return ref, nil
}

func moveIn(m Move) (game.Move, error) {
	src, err := refIn(m.Source)
	if err != nil {
		return nil, err
	}
	dst, err := refIn(m.Destination)
	if err != nil {
		return nil, err
	}
	cards, err := cardsIn(m.MovedCards)
	if err != nil {
		return nil, err
	}
	return game.NewMove(game.MoveKind(m.Type), cards, src, dst, m.FlippedCard)
}

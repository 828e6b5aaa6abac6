package game

import (
	"errors"
	"fmt"
)

const (
	NumFoundations = 4
	NumTableaus    = 7
)

// PileKind names one of the four kinds of pile.
type PileKind uint8

const (
	StockPile PileKind = iota
	WastePile
	FoundationPile
	TableauPile
)

var pileKindNames = [...]string{"stock", "waste", "foundation", "tableau"}

func (k PileKind) String() string {
	if int(k) < len(pileKindNames) {
		return pileKindNames[k]
	}
	return fmt.Sprintf("pile(%d)", uint8(k))
}

// ParsePileKind maps "stock", "waste", "foundation" or "tableau" to a PileKind.
func ParsePileKind(name string) (PileKind, bool) {
	for i, n := range pileKindNames {
		if n == name {
			return PileKind(i), true
		}
	}
	return 0, false
}

// PileRef addresses a pile. Index is only meaningful for foundations and tableaus.
type PileRef struct {
	Kind  PileKind
	Index int
}

func Stock() PileRef           { return PileRef{Kind: StockPile} }
func Waste() PileRef           { return PileRef{Kind: WastePile} }
func Foundation(i int) PileRef { return PileRef{Kind: FoundationPile, Index: i} }
func Tableau(i int) PileRef    { return PileRef{Kind: TableauPile, Index: i} }

func (r PileRef) indexed() bool { return r.Kind == FoundationPile || r.Kind == TableauPile }

// Card addresses the i-th card of the pile, counting from the bottom.
func (r PileRef) Card(i int) CardRef { return CardRef{Pile: r, Index: i} }

// String renders a 1-based label, e.g. "tableau 1" or "waste".
func (r PileRef) String() string {
	if r.indexed() {
		return fmt.Sprintf("%s %d", r.Kind, r.Index+1)
	}
	return r.Kind.String()
}

// CardRef addresses a card by its position within a pile.
type CardRef struct {
	Pile  PileRef
	Index int
}

// ErrNoSuchPile is returned for a PileRef outside the layout.
var ErrNoSuchPile = errors.New("no such pile")

// Pile is an ordered sequence of cards; the last element is the top.
type Pile []Card

// Top returns the top card, if any.
func (p Pile) Top() (Card, bool) {
	if len(p) == 0 {
		return Card{}, false
	}
	return p[len(p)-1], true
}

// clone copies p, returning an empty non-nil pile for an empty input.
func (p Pile) clone() Pile {
	out := make(Pile, len(p))
	copy(out, p)
	return out
}

// State is the full game layout plus the move history.
// Only the engine mutates it.
type State struct {
	Stock       Pile
	Waste       Pile
	Foundations [NumFoundations]Pile
	Tableaus    [NumTableaus]Pile
	History     []Move
}

// DealState deals an already ordered deck into a fresh State.
func DealState(deck []Card) *State {
	stock, tableaus := Deal(deck)
	s := &State{Stock: stock, Waste: Pile{}, Tableaus: tableaus}
	for i := range s.Foundations {
		s.Foundations[i] = Pile{}
	}
	return s
}

// Pile returns a read-only view of the pile at ref.
func (s *State) Pile(ref PileRef) (Pile, error) {
	p, err := s.pile(ref)
	if err != nil {
		return nil, err
	}
	return *p, nil
}

func (s *State) pile(ref PileRef) (*Pile, error) {
	switch ref.Kind {
	case StockPile:
		return &s.Stock, nil
	case WastePile:
		return &s.Waste, nil
	case FoundationPile:
		if ref.Index >= 0 && ref.Index < NumFoundations {
			return &s.Foundations[ref.Index], nil
		}
	case TableauPile:
		if ref.Index >= 0 && ref.Index < NumTableaus {
			return &s.Tableaus[ref.Index], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSuchPile, ref)
}

// Clone returns a deep copy, history included.
func (s *State) Clone() *State {
	out := &State{Stock: s.Stock.clone(), Waste: s.Waste.clone()}
	for i := range s.Foundations {
		out.Foundations[i] = s.Foundations[i].clone()
	}
	for i := range s.Tableaus {
		out.Tableaus[i] = s.Tableaus[i].clone()
	}
	out.History = make([]Move, len(s.History))
	for i, m := range s.History {
		out.History[i] = m.clone()
	}
	return out
}

// CardCount is the number of cards across all piles.
func (s *State) CardCount() int {
	n := len(s.Stock) + len(s.Waste)
	for _, p := range s.Foundations {
		n += len(p)
	}
	for _, p := range s.Tableaus {
		n += len(p)
	}
	return n
}

// FoundationCount is the number of cards on the foundations.
func (s *State) FoundationCount() int {
	n := 0
	for _, p := range s.Foundations {
		n += len(p)
	}
	return n
}

// CheckIntegrity verifies that the piles hold each of the 52 cards exactly once.
func (s *State) CheckIntegrity() error {
	var seen [DeckSize]bool
	check := func(p Pile) error {
		for _, c := range p {
			if !c.Suit.Valid() || !c.Rank.Valid() {
				return fmt.Errorf("invalid card %d/%d", c.Suit, c.Rank)
			}
			k := int(c.Suit)*13 + int(c.Rank)
			if seen[k] {
				return fmt.Errorf("duplicate card %s", c.Name())
			}
			seen[k] = true
		}
		return nil
	}
	piles := []Pile{s.Stock, s.Waste}
	piles = append(piles, s.Foundations[:]...)
	piles = append(piles, s.Tableaus[:]...)
	for _, p := range piles {
		if err := check(p); err != nil {
			return err
		}
	}
	if n := s.CardCount(); n != DeckSize {
		return fmt.Errorf("expected %d cards, found %d", DeckSize, n)
	}
	return nil
}

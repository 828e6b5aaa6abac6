// internal/game/history.go
//
// Move descriptors and the undo engine.
// Every committed move appends one descriptor to State.History; Undo pops the
// last one and reverses it. Each descriptor type carries exactly what its
// reversal needs.

package game

import "fmt"

// MoveKind is the wire name of a move type.
type MoveKind string

const (
	KindStockToWaste        MoveKind = "stock-to-waste"
	KindResetWaste          MoveKind = "reset-waste"
	KindTableauToTableau    MoveKind = "tableau-to-tableau"
	KindTableauToFoundation MoveKind = "tableau-to-foundation"
	KindWasteToTableau      MoveKind = "waste-to-tableau"
	KindWasteToFoundation   MoveKind = "waste-to-foundation"
)

// Move is a recorded, reversible move. Descriptors are never modified once recorded.
type Move interface {
	Kind() MoveKind
	// Cards is a copy of the moved cards as they were before the move.
	Cards() []Card
	Source() PileRef
	Destination() PileRef
	// Flipped reports whether the move turned up a tableau card.
	Flipped() bool

	undo(s *State) error
	clone() Move
}

// StockToWaste is one card drawn from the stock. Card is recorded face-down.
type StockToWaste struct {
	Card Card
}

// ResetWaste is the waste turned back over into the stock. Waste holds the
// waste pile, bottom to top, as it was before the reset.
type ResetWaste struct {
	Waste []Card
}

// TableauToTableau moves a run between columns.
type TableauToTableau struct {
	From, To int
	Run      []Card
	Flip     bool
}

// TableauToFoundation moves a column's top card to a foundation.
type TableauToFoundation struct {
	From, To int
	Card     Card
	Flip     bool
}

// WasteToTableau moves the top waste card onto a column.
type WasteToTableau struct {
	To   int
	Card Card
}

// WasteToFoundation moves the top waste card to a foundation.
type WasteToFoundation struct {
	To   int
	Card Card
}

func (StockToWaste) Kind() MoveKind       { return KindStockToWaste }
func (m StockToWaste) Cards() []Card      { return []Card{m.Card} }
func (StockToWaste) Source() PileRef      { return Stock() }
func (StockToWaste) Destination() PileRef { return Waste() }
func (StockToWaste) Flipped() bool        { return false }
func (m StockToWaste) clone() Move        { return m }

func (ResetWaste) Kind() MoveKind       { return KindResetWaste }
func (m ResetWaste) Cards() []Card      { return Pile(m.Waste).clone() }
func (ResetWaste) Source() PileRef      { return Waste() }
func (ResetWaste) Destination() PileRef { return Stock() }
func (ResetWaste) Flipped() bool        { return false }
func (m ResetWaste) clone() Move        { return ResetWaste{Waste: m.Cards()} }

func (TableauToTableau) Kind() MoveKind         { return KindTableauToTableau }
func (m TableauToTableau) Cards() []Card        { return Pile(m.Run).clone() }
func (m TableauToTableau) Source() PileRef      { return Tableau(m.From) }
func (m TableauToTableau) Destination() PileRef { return Tableau(m.To) }
func (m TableauToTableau) Flipped() bool        { return m.Flip }

func (m TableauToTableau) clone() Move {
	m.Run = m.Cards()
	return m
}

func (TableauToFoundation) Kind() MoveKind         { return KindTableauToFoundation }
func (m TableauToFoundation) Cards() []Card        { return []Card{m.Card} }
func (m TableauToFoundation) Source() PileRef      { return Tableau(m.From) }
func (m TableauToFoundation) Destination() PileRef { return Foundation(m.To) }
func (m TableauToFoundation) Flipped() bool        { return m.Flip }
func (m TableauToFoundation) clone() Move          { return m }

func (WasteToTableau) Kind() MoveKind         { return KindWasteToTableau }
func (m WasteToTableau) Cards() []Card        { return []Card{m.Card} }
func (WasteToTableau) Source() PileRef        { return Waste() }
func (m WasteToTableau) Destination() PileRef { return Tableau(m.To) }
func (WasteToTableau) Flipped() bool          { return false }
func (m WasteToTableau) clone() Move          { return m }

func (WasteToFoundation) Kind() MoveKind         { return KindWasteToFoundation }
func (m WasteToFoundation) Cards() []Card        { return []Card{m.Card} }
func (WasteToFoundation) Source() PileRef        { return Waste() }
func (m WasteToFoundation) Destination() PileRef { return Foundation(m.To) }
func (WasteToFoundation) Flipped() bool          { return false }
func (m WasteToFoundation) clone() Move          { return m }

func (m StockToWaste) undo(s *State) error {
	top, ok := s.Waste.Top()
	if !ok || !top.Same(m.Card) {
		return fmt.Errorf("%w: waste top is not %s", ErrHistoryMismatch, m.Card.Name())
	}
	s.Waste = s.Waste[:len(s.Waste)-1]
	top.FaceUp = false
	s.Stock = append(s.Stock, top)
	return nil
}

// undo puts the waste back exactly as it was. The reset only happens with an
// empty stock, so the stock is empty again afterwards.
func (m ResetWaste) undo(s *State) error {
	n := len(m.Waste)
	if len(s.Stock) < n {
		return fmt.Errorf("%w: stock has %d cards, reset moved %d", ErrHistoryMismatch, len(s.Stock), n)
	}
	tail := s.Stock[len(s.Stock)-n:]
	for i, c := range m.Waste {
		if !tail[n-1-i].Same(c) {
			return fmt.Errorf("%w: stock does not hold the reset waste", ErrHistoryMismatch)
		}
	}
	s.Stock = s.Stock[:len(s.Stock)-n]
	s.Waste = append(s.Waste, m.Cards()...)
	return nil
}

func (m TableauToTableau) undo(s *State) error {
	return undoRun(s, m.Run, m.Source(), m.Destination(), m.Flip)
}

func (m TableauToFoundation) undo(s *State) error {
	return undoRun(s, []Card{m.Card}, m.Source(), m.Destination(), m.Flip)
}

func (m WasteToTableau) undo(s *State) error {
	return undoRun(s, []Card{m.Card}, m.Source(), m.Destination(), false)
}

func (m WasteToFoundation) undo(s *State) error {
	return undoRun(s, []Card{m.Card}, m.Source(), m.Destination(), false)
}

// undoRun takes len(cards) cards off dst and puts them back on src, turning
// the card they uncover face-down again when flipped is set. Nothing is
// changed unless every check passes.
func undoRun(s *State, cards []Card, src, dst PileRef, flipped bool) error {
	sp, err := s.pile(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryMismatch, err)
	}
	dp, err := s.pile(dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHistoryMismatch, err)
	}
	n := len(cards)
	if len(*dp) < n {
		return fmt.Errorf("%w: %s has %d cards, move took %d", ErrHistoryMismatch, dst, len(*dp), n)
	}
	tail := (*dp)[len(*dp)-n:]
	for i, c := range cards {
		if !tail[i].Same(c) {
			return fmt.Errorf("%w: %s does not end with %s", ErrHistoryMismatch, dst, c.Name())
		}
	}
	if flipped && len(*sp) == 0 {
		return fmt.Errorf("%w: nothing to turn back down on %s", ErrHistoryMismatch, src)
	}

	back := Pile(tail).clone()
	*dp = (*dp)[:len(*dp)-n]
	if flipped {
		(*sp)[len(*sp)-1].FaceUp = false
	}
	*sp = append(*sp, back...)
	return nil
}

// Undo reverses the most recent move. With an empty history it returns
// ErrEmptyHistory; if the layout doesn't match the record it returns
// ErrHistoryMismatch and leaves both untouched.
func (s *State) Undo() (Move, error) {
	n := len(s.History)
	if n == 0 {
		return nil, ErrEmptyHistory
	}
	m := s.History[n-1]
	if err := m.undo(s); err != nil {
		return nil, err
	}
	s.History[n-1] = nil
	s.History = s.History[:n-1]
	return m, nil
}

// kindFor names the move between two pile kinds, if one exists.
func kindFor(src, dst PileKind) (MoveKind, bool) {
	switch {
	case src == StockPile && dst == WastePile:
		return KindStockToWaste, true
	case src == WastePile && dst == StockPile:
		return KindResetWaste, true
	case src == TableauPile && dst == TableauPile:
		return KindTableauToTableau, true
	case src == TableauPile && dst == FoundationPile:
		return KindTableauToFoundation, true
	case src == WastePile && dst == TableauPile:
		return KindWasteToTableau, true
	case src == WastePile && dst == FoundationPile:
		return KindWasteToFoundation, true
	}
	return "", false
}

// NewMove builds a descriptor from its generic shape, checking that the piles,
// card count and flip flag fit the kind. It is how decoded histories are
// rebuilt.
func NewMove(kind MoveKind, cards []Card, src, dst PileRef, flipped bool) (Move, error) {
	want, ok := kindFor(src.Kind, dst.Kind)
	if !ok || want != kind {
		return nil, fmt.Errorf("%w: %s from %s to %s", ErrMalformedMove, kind, src.Kind, dst.Kind)
	}
	for _, ref := range []PileRef{src, dst} {
		if ref.Kind == FoundationPile && (ref.Index < 0 || ref.Index >= NumFoundations) ||
			ref.Kind == TableauPile && (ref.Index < 0 || ref.Index >= NumTableaus) {
			return nil, fmt.Errorf("%w: %s index %d", ErrMalformedMove, ref.Kind, ref.Index)
		}
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %s moved no cards", ErrMalformedMove, kind)
	}
	if flipped && src.Kind != TableauPile {
		return nil, fmt.Errorf("%w: %s cannot turn up a card", ErrMalformedMove, kind)
	}
	single := func() (Card, error) {
		if len(cards) != 1 {
			return Card{}, fmt.Errorf("%w: %s moves one card, got %d", ErrMalformedMove, kind, len(cards))
		}
		return cards[0], nil
	}

	switch kind {
	case KindStockToWaste:
		c, err := single()
		if err != nil {
			return nil, err
		}
		c.FaceUp = false
		return StockToWaste{Card: c}, nil
	case KindResetWaste:
		return ResetWaste{Waste: Pile(cards).clone()}, nil
	case KindTableauToTableau:
		return TableauToTableau{From: src.Index, To: dst.Index, Run: Pile(cards).clone(), Flip: flipped}, nil
	case KindTableauToFoundation:
		c, err := single()
		if err != nil {
			return nil, err
		}
		return TableauToFoundation{From: src.Index, To: dst.Index, Card: c, Flip: flipped}, nil
	case KindWasteToTableau:
		c, err := single()
		if err != nil {
			return nil, err
		}
		return WasteToTableau{To: dst.Index, Card: c}, nil
	default:
		c, err := single()
		if err != nil {
			return nil, err
		}
		return WasteToFoundation{To: dst.Index, Card: c}, nil
	}
}

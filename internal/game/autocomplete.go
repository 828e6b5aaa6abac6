package game

// CanAutoMove returns the foundation that can take c, if any.
//
// If some foundation already holds c's suit, only that one is considered and
// c must be next in sequence. Otherwise c must be an Ace and goes to the
// first empty foundation.
func CanAutoMove(c Card, foundations *[NumFoundations]Pile) (int, bool) {
	for i, p := range foundations {
		if len(p) > 0 && p[0].Suit == c.Suit {
			top := p[len(p)-1]
			if c.Rank == top.Rank+1 {
				return i, true
			}
			return 0, false
		}
	}
	if c.Rank != Ace {
		return 0, false
	}
	for i, p := range foundations {
		if len(p) == 0 {
			return i, true
		}
	}
	return 0, false
}

// AllTableauFaceUp reports whether no tableau card is hidden.
func (s *State) AllTableauFaceUp() bool {
	for _, p := range s.Tableaus {
		for _, c := range p {
			if !c.FaceUp {
				return false
			}
		}
	}
	return true
}

// AutoComplete sweeps cards to the foundations until nothing more can go.
// It does nothing while any tableau card is still face-down. Tableau tops are
// tried first, in column order, and the scan restarts from column 0 after
// every move; the waste top is only tried when no column can move. Each card
// is recorded as its own move. It returns the number of cards moved.
func (s *State) AutoComplete() int {
	if !s.AllTableauFaceUp() {
		return 0
	}
	moved := 0
	for s.autoStep() {
		moved++
	}
	return moved
}

// autoStep performs the single highest-priority foundation move, if any.
func (s *State) autoStep() bool {
	for i, p := range s.Tableaus {
		top, ok := p.Top()
		if !ok {
			continue
		}
		if f, ok := CanAutoMove(top, &s.Foundations); ok {
			if _, err := s.Move(Tableau(i).Card(len(p)-1), Foundation(f)); err == nil {
				return true
			}
		}
	}
	if top, ok := s.Waste.Top(); ok {
		if f, ok := CanAutoMove(top, &s.Foundations); ok {
			if _, err := s.Move(Waste().Card(len(s.Waste)-1), Foundation(f)); err == nil {
				return true
			}
		}
	}
	return false
}

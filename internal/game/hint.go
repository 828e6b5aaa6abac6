package game

// Candidate is a legal move that has not been made.
type Candidate struct {
	From CardRef
	To   PileRef
}

// LegalMoves lists every legal card move in the current layout: waste top
// first, then each column's face-up runs from the deepest card up. Drawing
// from the stock is not included.
func (s *State) LegalMoves() []Candidate {
	var out []Candidate
	try := func(from CardRef) {
		run, err := s.SelectRun(from)
		if err != nil {
			return
		}
		for f := 0; f < NumFoundations; f++ {
			if s.CanPlace(run, Foundation(f)) == nil {
				out = append(out, Candidate{From: from, To: Foundation(f)})
			}
		}
		for t := 0; t < NumTableaus; t++ {
			to := Tableau(t)
			if to == from.Pile {
				continue
			}
			if s.CanPlace(run, to) == nil {
				out = append(out, Candidate{From: from, To: to})
			}
		}
	}
	if n := len(s.Waste); n > 0 {
		try(Waste().Card(n - 1))
	}
	for i, p := range s.Tableaus {
		for j := range p {
			if p[j].FaceUp {
				try(Tableau(i).Card(j))
			}
		}
	}
	return out
}

// Hint picks a useful move: foundation moves first, then anything that turns
// up a card, then any other move that doesn't just shuffle a King between
// empty columns.
func (s *State) Hint() (Candidate, bool) {
	moves := s.LegalMoves()
	var fallback *Candidate
	for i := range moves {
		m := moves[i]
		if m.To.Kind == FoundationPile {
			return m, true
		}
	}
	for i := range moves {
		m := moves[i]
		if m.From.Pile.Kind == TableauPile && m.From.Index > 0 {
			below := s.Tableaus[m.From.Pile.Index][m.From.Index-1]
			if !below.FaceUp {
				return m, true
			}
		}
		if fallback == nil && !(m.From.Pile.Kind == TableauPile && m.From.Index == 0) {
			fallback = &moves[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Candidate{}, false
}

package game

// Move validates and performs moving the run that starts at from onto to,
// then records it. On error the state is untouched.
func (s *State) Move(from CardRef, to PileRef) (Move, error) {
	if from.Pile == to {
		return nil, invalid("source and destination are the same pile")
	}
	run, err := s.SelectRun(from)
	if err != nil {
		return nil, err
	}
	if err := s.CanPlace(run, to); err != nil {
		return nil, err
	}
	kind, ok := kindFor(from.Pile.Kind, to.Kind)
	if !ok {
		return nil, invalid("cannot move from " + from.Pile.Kind.String() + " to " + to.Kind.String())
	}

	moved := make([]Card, len(run))
	copy(moved, run)
	flipped := s.transfer(from.Pile, len(moved), to)

	m, err := NewMove(kind, moved, from.Pile, to, flipped)
	if err != nil {
		return nil, err
	}
	s.History = append(s.History, m)
	return m, nil
}

// transfer moves the top n cards of src onto dst in order, then turns up a
// newly exposed face-down tableau card. It reports whether it did so.
func (s *State) transfer(src PileRef, n int, dst PileRef) (flipped bool) {
	sp, _ := s.pile(src)
	dp, _ := s.pile(dst)
	cut := len(*sp) - n
	*dp = append(*dp, (*sp)[cut:]...)
	*sp = (*sp)[:cut]

	if src.Kind == TableauPile && len(*sp) > 0 {
		top := &(*sp)[len(*sp)-1]
		if !top.FaceUp {
			top.FaceUp = true
			flipped = true
		}
	}
	return flipped
}

// Draw handles a click on the stock. With cards in the stock it turns the top
// one onto the waste. With an empty stock it turns the waste over to form a
// new stock in its original order.
func (s *State) Draw() (Move, error) {
	if n := len(s.Stock); n > 0 {
		c := s.Stock[n-1]
		s.Stock = s.Stock[:n-1]
		snap := c
		c.FaceUp = true
		s.Waste = append(s.Waste, c)
		m := StockToWaste{Card: snap}
		s.History = append(s.History, m)
		return m, nil
	}
	if n := len(s.Waste); n > 0 {
		snap := s.Waste.clone()
		stock := make(Pile, n)
		for i, c := range s.Waste {
			c.FaceUp = false
			stock[n-1-i] = c
		}
		s.Stock = stock
		s.Waste = Pile{}
		m := ResetWaste{Waste: snap}
		s.History = append(s.History, m)
		return m, nil
	}
	return nil, ErrNothingToDraw
}

// IsWon reports whether all 52 cards are on the foundations.
func IsWon(foundations [NumFoundations]Pile) bool {
	n := 0
	for _, p := range foundations {
		n += len(p)
	}
	return n == DeckSize
}

// IsWon reports whether the game is won.
func (s *State) IsWon() bool { return IsWon(s.Foundations) }

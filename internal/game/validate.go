package game

// SelectRun returns the cards that would be picked up at from: the top waste
// card, or a tableau suffix starting at a face-up card. The returned slice
// aliases the pile and must not be modified.
func (s *State) SelectRun(from CardRef) ([]Card, error) {
	switch from.Pile.Kind {
	case WastePile:
		if len(s.Waste) == 0 {
			return nil, invalid("waste is empty")
		}
		if from.Index != len(s.Waste)-1 {
			return nil, invalid("only the top waste card can move")
		}
		return s.Waste[len(s.Waste)-1:], nil
	case TableauPile:
		p, err := s.pile(from.Pile)
		if err != nil {
			return nil, invalid("no such pile")
		}
		if from.Index < 0 || from.Index >= len(*p) {
			return nil, invalid("no such card")
		}
		run := (*p)[from.Index:]
		if !run[0].FaceUp {
			return nil, invalid("face-down card")
		}
		if !ValidRun(run) {
			return nil, invalid("not a valid run")
		}
		return run, nil
	default:
		return nil, invalid("cards cannot be taken from the " + from.Pile.Kind.String())
	}
}

// ValidRun reports whether run is face-up, strictly descending by one and
// alternating in color.
func ValidRun(run []Card) bool {
	for i, c := range run {
		if !c.FaceUp {
			return false
		}
		if i == 0 {
			continue
		}
		prev := run[i-1]
		if prev.Red() == c.Red() || prev.Rank != c.Rank+1 {
			return false
		}
	}
	return true
}

// CanPlace checks whether run may be dropped on dst. It returns nil when the
// move is legal and a *MoveError otherwise.
func (s *State) CanPlace(run []Card, dst PileRef) error {
	if len(run) == 0 {
		return invalid("no cards")
	}
	first := run[0]
	switch dst.Kind {
	case FoundationPile:
		p, err := s.pile(dst)
		if err != nil {
			return invalid("no such pile")
		}
		if len(run) != 1 {
			return invalid("only one card at a time to a foundation")
		}
		top, ok := p.Top()
		if !ok {
			if first.Rank != Ace {
				return invalid("not an Ace")
			}
			return nil
		}
		if first.Suit != top.Suit {
			return invalid("wrong suit")
		}
		if first.Rank != top.Rank+1 {
			return invalid("not next in sequence")
		}
		return nil
	case TableauPile:
		p, err := s.pile(dst)
		if err != nil {
			return invalid("no such pile")
		}
		top, ok := p.Top()
		if !ok {
			if first.Rank != King {
				return invalid("only a King can fill an empty column")
			}
			return nil
		}
		if first.Red() == top.Red() {
			return invalid("colors must alternate")
		}
		if top.Rank != first.Rank+1 {
			return invalid("not next in sequence")
		}
		return nil
	default:
		return invalid("cards cannot be placed on the " + dst.Kind.String())
	}
}

// IsValidMove is the boolean form of CanPlace.
func (s *State) IsValidMove(run []Card, dst PileRef) bool {
	return s.CanPlace(run, dst) == nil
}

package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func up(r Rank, s Suit) Card   { return Card{Suit: s, Rank: r, FaceUp: true} }
func down(r Rank, s Suit) Card { return Card{Suit: s, Rank: r} }

// emptyState has every pile present and empty.
func emptyState() *State {
	s := &State{Stock: Pile{}, Waste: Pile{}}
	for i := range s.Foundations {
		s.Foundations[i] = Pile{}
	}
	for i := range s.Tableaus {
		s.Tableaus[i] = Pile{}
	}
	return s
}

type layoutView struct {
	Stock, Waste []Card
	Foundations  [][]Card
	Tableaus     [][]Card
}

// layout flattens the piles so that nil and empty piles compare equal.
func layout(s *State) layoutView {
	norm := func(p Pile) []Card { return append([]Card{}, p...) }
	v := layoutView{Stock: norm(s.Stock), Waste: norm(s.Waste)}
	for _, p := range s.Foundations {
		v.Foundations = append(v.Foundations, norm(p))
	}
	for _, p := range s.Tableaus {
		v.Tableaus = append(v.Tableaus, norm(p))
	}
	return v
}

// requireFoundationsAscending checks every foundation is a same-suit run from Ace.
func requireFoundationsAscending(t *testing.T, s *State) {
	t.Helper()
	for i, p := range s.Foundations {
		for j, c := range p {
			require.Equal(t, Rank(j), c.Rank, "foundation %d position %d", i, j)
			require.Equal(t, p[0].Suit, c.Suit, "foundation %d position %d", i, j)
		}
	}
}

// solvedLayout puts each suit in its own column, King at the bottom and Ace on top, all face-up.
func solvedLayout() *State {
	s := emptyState()
	for i, suit := range Suits {
		for r := King; ; r-- {
			s.Tableaus[i] = append(s.Tableaus[i], up(r, suit))
			if r == Ace {
				break
			}
		}
	}
	return s
}

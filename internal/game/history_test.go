package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndo_EmptyHistory(t *testing.T) {
	s := NewState(NewRand(5))
	before := layout(s)
	_, err := s.Undo()
	assert.ErrorIs(t, err, ErrEmptyHistory)
	assert.Equal(t, before, layout(s))
}

func TestUndo_TableauMoveTurnsCardBackDown(t *testing.T) {
	s := kingColumn(false)
	before := layout(s)

	_, err := s.Move(Tableau(6).Card(6), Tableau(0))
	require.NoError(t, err)
	m, err := s.Undo()
	require.NoError(t, err)

	assert.Equal(t, KindTableauToTableau, m.Kind())
	assert.Equal(t, before, layout(s))
	assert.False(t, s.Tableaus[6][5].FaceUp)
	assert.Empty(t, s.History)
}

func TestUndo_TableauMoveWithoutFlipKeepsCardUp(t *testing.T) {
	s := kingColumn(true)
	before := layout(s)

	_, err := s.Move(Tableau(6).Card(6), Tableau(0))
	require.NoError(t, err)
	_, err = s.Undo()
	require.NoError(t, err)

	assert.Equal(t, before, layout(s))
	assert.True(t, s.Tableaus[6][5].FaceUp)
}

func TestUndo_DrawAndReset(t *testing.T) {
	s := emptyState()
	s.Stock = Pile{down(Seven, Hearts), down(Jack, Spades)}
	dealt := layout(s)

	_, err := s.Draw()
	require.NoError(t, err)
	_, err = s.Draw()
	require.NoError(t, err)
	afterDraws := layout(s)
	_, err = s.Draw()
	require.NoError(t, err)

	m, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, KindResetWaste, m.Kind())
	assert.Equal(t, afterDraws, layout(s))
	assert.Empty(t, s.Stock)

	_, err = s.Undo()
	require.NoError(t, err)
	_, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, dealt, layout(s))
}

func TestUndo_WasteToFoundation(t *testing.T) {
	s := emptyState()
	s.Waste = Pile{up(Ace, Diamonds)}
	_, err := s.Move(Waste().Card(0), Foundation(2))
	require.NoError(t, err)

	m, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, KindWasteToFoundation, m.Kind())
	assert.Equal(t, Pile{up(Ace, Diamonds)}, s.Waste)
	assert.Empty(t, s.Foundations[2])
}

func TestUndo_MismatchLeavesEverything(t *testing.T) {
	s := emptyState()
	s.Waste = Pile{up(Ace, Diamonds)}
	_, err := s.Move(Waste().Card(0), Foundation(2))
	require.NoError(t, err)

	// Tamper with the layout behind the engine's back.
	s.Foundations[2] = Pile{up(Ace, Clubs)}
	before := layout(s)

	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrHistoryMismatch)
	assert.Equal(t, before, layout(s))
	assert.Len(t, s.History, 1)
}

func TestUndo_RoundTripRandomPlayouts(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		s := NewState(NewRand(seed))
		dealt := layout(s)
		rng := NewRand(seed + 1000)

		for step := 0; step < 250; step++ {
			moves := s.LegalMoves()
			switch k := rng.IntN(len(moves) + 2); {
			case k < len(moves):
				_, err := s.Move(moves[k].From, moves[k].To)
				require.NoError(t, err, "seed %d step %d", seed, step)
			case k == len(moves):
				if _, err := s.Draw(); err != nil {
					require.ErrorIs(t, err, ErrNothingToDraw)
				}
			default:
				s.AutoComplete()
			}
			require.NoError(t, s.CheckIntegrity(), "seed %d step %d", seed, step)
			requireFoundationsAscending(t, s)
		}

		n := len(s.History)
		for i := 0; i < n; i++ {
			_, err := s.Undo()
			require.NoError(t, err, "seed %d undo %d", seed, i)
		}
		assert.Equal(t, dealt, layout(s), "seed %d", seed)
		_, err := s.Undo()
		assert.ErrorIs(t, err, ErrEmptyHistory)
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := kingColumn(false)
	_, err := s.Move(Tableau(6).Card(6), Tableau(0))
	require.NoError(t, err)

	c := s.Clone()
	c.Tableaus[0][0].FaceUp = false
	c.History[0].(TableauToTableau).Run[0] = up(Two, Hearts)

	assert.True(t, s.Tableaus[0][0].FaceUp)
	assert.Equal(t, up(King, Spades), s.History[0].Cards()[0])
}

func TestNewMove_RejectsMalformed(t *testing.T) {
	card := []Card{up(Ace, Hearts)}
	cases := []struct {
		name     string
		kind     MoveKind
		cards    []Card
		src, dst PileRef
		flipped  bool
	}{
		{"kind does not match piles", KindWasteToTableau, card, Waste(), Foundation(0), false},
		{"unknown kind", "waste-to-stock", card, Waste(), Stock(), false},
		{"foundation out of range", KindWasteToFoundation, card, Waste(), Foundation(4), false},
		{"tableau out of range", KindTableauToTableau, card, Tableau(-1), Tableau(2), false},
		{"no cards", KindTableauToTableau, nil, Tableau(1), Tableau(2), false},
		{"two cards to foundation", KindTableauToFoundation, []Card{up(Two, Clubs), up(Ace, Hearts)}, Tableau(1), Foundation(0), false},
		{"flip from waste", KindWasteToTableau, card, Waste(), Tableau(0), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMove(tc.kind, tc.cards, tc.src, tc.dst, tc.flipped)
			assert.ErrorIs(t, err, ErrMalformedMove)
		})
	}

	m, err := NewMove(KindStockToWaste, []Card{up(Nine, Clubs)}, Stock(), Waste(), false)
	require.NoError(t, err)
	assert.Equal(t, StockToWaste{Card: down(Nine, Clubs)}, m)
}

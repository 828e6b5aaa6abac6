package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// NewDeck returns the 52 cards in suit-major order (hearts A..K, diamonds A..K, ...),
// all face-down.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle permutes deck in place with Fisher-Yates: for i from the last index
// down to 1, swap deck[i] with deck[j], j uniform in [0, i].
func Shuffle(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal lays out the triangular tableau from the end of deck: round r gives one
// card to each column r..6, so column i ends up with i+1 cards. The top card
// of every column is turned face-up. Whatever remains becomes the stock,
// face-down.
func Deal(deck []Card) (stock Pile, tableaus [NumTableaus]Pile) {
	for i := range tableaus {
		tableaus[i] = make(Pile, 0, i+1)
	}
	for r := 0; r < NumTableaus; r++ {
		for c := r; c < NumTableaus; c++ {
			card := deck[len(deck)-1]
			deck = deck[:len(deck)-1]
			card.FaceUp = false
			tableaus[c] = append(tableaus[c], card)
		}
	}
	for i := range tableaus {
		if n := len(tableaus[i]); n > 0 {
			tableaus[i][n-1].FaceUp = true
		}
	}
	stock = make(Pile, len(deck))
	for i, c := range deck {
		c.FaceUp = false
		stock[i] = c
	}
	return stock, tableaus
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomSeed draws a seed from crypto/rand.
func RandomSeed() uint64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return binary.BigEndian.Uint64(b[:])
}

// NewState shuffles a fresh deck with rng and deals it.
func NewState(rng *rand.Rand) *State {
	deck := NewDeck()
	Shuffle(deck, rng)
	return DealState(deck)
}

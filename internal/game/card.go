// internal/game/card.go
//
// Card model for Klondike.
// A card's identity is its suit and rank; FaceUp is the only field that
// changes during play.

package game

import "fmt"

// Suit is one of the four French suits.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists the suits in deck enumeration order.
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = [...]string{"hearts", "diamonds", "clubs", "spades"}

func (s Suit) String() string {
	if int(s) < len(suitNames) {
		return suitNames[s]
	}
	return fmt.Sprintf("suit(%d)", uint8(s))
}

// Red reports whether the suit is hearts or diamonds.
func (s Suit) Red() bool { return s == Hearts || s == Diamonds }

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return int(s) < len(suitNames) }

// ParseSuit maps "hearts", "diamonds", "clubs" or "spades" to a Suit.
func ParseSuit(name string) (Suit, bool) {
	for i, n := range suitNames {
		if n == name {
			return Suit(i), true
		}
	}
	return 0, false
}

// Rank is the rank index: Ace=0 through King=12.
type Rank uint8

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

var rankNames = [...]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return fmt.Sprintf("rank(%d)", uint8(r))
}

// Valid reports whether r is between Ace and King.
func (r Rank) Valid() bool { return int(r) < len(rankNames) }

// ParseRank maps "A", "2".."10", "J", "Q", "K" to a Rank.
func ParseRank(name string) (Rank, bool) {
	for i, n := range rankNames {
		if n == name {
			return Rank(i), true
		}
	}
	return 0, false
}

// Card is a playing card. Two cards are the same card iff suit and rank match.
type Card struct {
	Suit   Suit
	Rank   Rank
	FaceUp bool
}

// Same reports whether c and o have the same identity, ignoring orientation.
func (c Card) Same(o Card) bool { return c.Suit == o.Suit && c.Rank == o.Rank }

// Red reports whether the card is a heart or a diamond.
func (c Card) Red() bool { return c.Suit.Red() }

// Name is the long form used in status messages, e.g. "K of spades".
func (c Card) Name() string { return c.Rank.String() + " of " + c.Suit.String() }

var suitSymbols = [...]string{"♥", "♦", "♣", "♠"}

// String is the short form used in logs and test failures: "K♠", or "[K♠]" face-down.
func (c Card) String() string {
	sym := "?"
	if c.Suit.Valid() {
		sym = suitSymbols[c.Suit]
	}
	if c.FaceUp {
		return c.Rank.String() + sym
	}
	return "[" + c.Rank.String() + sym + "]"
}

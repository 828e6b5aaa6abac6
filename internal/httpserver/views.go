package httpserver

import (
	"github.com/m-7labs/solitaire-lite/internal/game"
)

// cardView hides the identity of face-down cards.
type cardView struct {
	Suit   string `json:"suit,omitempty"`
	Rank   string `json:"rank,omitempty"`
	FaceUp bool   `json:"faceUp"`
}

type hintView struct {
	From pileView `json:"from"`
	To   pileView `json:"to"`
}

type pileView struct {
	Pile  string `json:"pile"`
	Index int    `json:"index"`
	Card  *int   `json:"card,omitempty"`
}

// gameView is the JSON shape of a game for the client.
type gameView struct {
	ID          string       `json:"id"`
	Seed        uint64       `json:"seed,string"`
	Daily       string       `json:"daily,omitempty"`
	Stock       int          `json:"stock"`
	Waste       []cardView   `json:"waste"`
	Foundations [][]cardView `json:"foundations"`
	Tableaus    [][]cardView `json:"tableaus"`
	Score       int          `json:"score"`
	Moves       int          `json:"moves"`
	ElapsedMs   int64        `json:"elapsedMs"`
	Won         bool         `json:"won"`
	CanUndo     bool         `json:"canUndo"`
	Message     string       `json:"message,omitempty"`
}

func viewGame(snap game.Snapshot, msg string) gameView {
	st := snap.State
	v := gameView{
		ID:          snap.ID,
		Seed:        snap.Seed,
		Daily:       snap.Daily,
		Stock:       len(st.Stock),
		Waste:       viewPile(st.Waste),
		Foundations: make([][]cardView, 0, game.NumFoundations),
		Tableaus:    make([][]cardView, 0, game.NumTableaus),
		Score:       snap.Score,
		Moves:       snap.Moves,
		ElapsedMs:   snap.Elapsed.Milliseconds(),
		Won:         snap.Won,
		CanUndo:     len(st.History) > 0 && !snap.Won,
		Message:     msg,
	}
	for _, p := range st.Foundations {
		v.Foundations = append(v.Foundations, viewPile(p))
	}
	for _, p := range st.Tableaus {
		v.Tableaus = append(v.Tableaus, viewPile(p))
	}
	return v
}

func viewPile(p game.Pile) []cardView {
	out := make([]cardView, 0, len(p))
	for _, c := range p {
		if !c.FaceUp {
			out = append(out, cardView{})
			continue
		}
		out = append(out, cardView{Suit: c.Suit.String(), Rank: c.Rank.String(), FaceUp: true})
	}
	return out
}

func viewRef(r game.PileRef) pileView {
	return pileView{Pile: r.Kind.String(), Index: r.Index}
}

func viewHint(c game.Candidate) hintView {
	from := viewRef(c.From.Pile)
	idx := c.From.Index
	from.Card = &idx
	return hintView{From: from, To: viewRef(c.To)}
}

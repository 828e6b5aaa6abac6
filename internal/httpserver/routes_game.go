// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game.
//   - POST /game/new             → deal (optional {"seed": "n"}), returns the game view
//   - GET  /game/resume          → caller's latest game, or a fresh deal
//   - POST /game/load            → import a save; corrupt data starts a fresh deal
//   - GET  /game/{id}            → game view
//   - POST /game/{id}/move       → {"from":{"pile":"tableau","index":6,"card":6},"to":{"pile":"tableau","index":0}}
//   - POST /game/{id}/draw       → stock to waste, or recycle the waste
//   - POST /game/{id}/autocomplete
//   - POST /game/{id}/undo
//   - GET  /game/{id}/hint
//   - GET  /game/{id}/save       → savegame JSON
//
// Games are scoped to their owner; another caller's game id is a 404.
// After a manual move the auto-complete sweep is scheduled with the configured
// delay and its result is persisted when it fires.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/m-7labs/solitaire-lite/internal/game"
	"github.com/m-7labs/solitaire-lite/internal/savegame"
	"github.com/m-7labs/solitaire-lite/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/resume", s.handleResume)
		r.Post("/load", s.handleLoad)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withGame(s.handleGet))
			r.Post("/move", s.withGame(s.handleMove))
			r.Post("/draw", s.withGame(s.handleDraw))
			r.Post("/autocomplete", s.withGame(s.handleAutoComplete))
			r.Post("/undo", s.withGame(s.handleUndo))
			r.Get("/hint", s.withGame(s.handleHint))
			r.Get("/save", s.withGame(s.handleSave))
		})
	})
}

type gameHandler func(w http.ResponseWriter, r *http.Request, g *game.Game)

// withGame loads {id} and checks it belongs to the caller.
func (s *Server) withGame(h gameHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, savegame.ErrCorruptSave) {
				log.Error().Err(err).Msg("load game")
			}
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		if g.Owner() != s.owner(w, r) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		h(w, r, g)
	}
}

// ------------------------------ lifecycle ----------------------------------

// newGameReq takes the seed as a number or a decimal string, since seeds
// exceed the integer range of JavaScript numbers.
type newGameReq struct {
	Seed json.Number `json:"seed"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	seed := game.RandomSeed()
	if req.Seed != "" {
		n, err := strconv.ParseUint(req.Seed.String(), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_seed")
			return
		}
		seed = n
	}
	g, err := s.startGame(r.Context(), s.owner(w, r), seed)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), "New game started."))
}

// startGame deals and stores a new game, counting it in the owner's stats.
func (s *Server) startGame(ctx context.Context, owner string, seed uint64, opts ...game.Option) (*game.Game, error) {
	abandoned := false
	if prev, err := s.store.Latest(ctx, owner); err == nil {
		snap := prev.Snapshot()
		abandoned = !snap.Won && snap.Moves > 0
	}
	g := game.New(seed, s.rules, append([]game.Option{game.WithOwner(owner)}, opts...)...)
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	s.recordStart(ctx, owner, abandoned)
	log.Debug().Str("gameId", g.ID).Str("owner", owner).Msg("new game")
	return g, nil
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(w, r)
	g, err := s.store.Latest(r.Context(), owner)
	msg := "Resumed game."
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound), errors.Is(err, savegame.ErrCorruptSave):
		if errors.Is(err, savegame.ErrCorruptSave) {
			msg = "Saved game was unreadable. New game started."
		} else {
			msg = "New game started."
		}
		g, err = s.startGame(r.Context(), owner, game.RandomSeed())
		if err != nil {
			writeGameError(w, err)
			return
		}
	default:
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), msg))
}

// handleLoad imports a save exported by /game/{id}/save.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(w, r)
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_body")
		return
	}
	st, err := savegame.Decode(body)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("discarding corrupt save")
		g, err := s.startGame(r.Context(), owner, game.RandomSeed())
		if err != nil {
			writeGameError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), "Saved game was unreadable. New game started."))
		return
	}
	g := game.Restore(game.Snapshot{Owner: owner, State: st}, s.rules)
	if err := s.store.Save(r.Context(), g); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), "Game loaded."))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, g *game.Game) {
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), ""))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request, g *game.Game) {
	b, err := savegame.Encode(g.Snapshot().State)
	if err != nil {
		writeGameError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="solitaire-`+g.ID+`.json"`)
	_, _ = w.Write(b)
}

// -------------------------------- play -------------------------------------

type pileReq struct {
	Pile  string `json:"pile"`
	Index int    `json:"index"`
	Card  *int   `json:"card,omitempty"`
}

type moveReq struct {
	From pileReq `json:"from"`
	To   pileReq `json:"to"`
}

func (p pileReq) ref() (game.PileRef, error) {
	kind, ok := game.ParsePileKind(p.Pile)
	if !ok {
		return game.PileRef{}, errors.New("unknown pile " + strconv.Quote(p.Pile))
	}
	return game.PileRef{Kind: kind, Index: p.Index}, nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, g *game.Game) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	from, err := req.From.ref()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := req.To.ref()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	card := -1
	if req.From.Card != nil {
		card = *req.From.Card
	} else if p, err := g.Snapshot().State.Pile(from); err == nil {
		card = len(p) - 1
	}

	res, err := g.Move(from.Card(card), to)
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.afterAction(r.Context(), g, res)
	if !res.Won {
		if d := s.cfg.AutoCompleteDelay(); d >= 0 {
			g.ScheduleAutoComplete(d, func(ac game.Result) {
				if ac.Moved > 0 {
					s.afterAction(context.Background(), g, ac)
				}
			})
		}
	}
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), res.Message))
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request, g *game.Game) {
	res, err := g.Draw()
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.afterAction(r.Context(), g, res)
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), res.Message))
}

func (s *Server) handleAutoComplete(w http.ResponseWriter, r *http.Request, g *game.Game) {
	res := g.AutoComplete()
	s.afterAction(r.Context(), g, res)
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), res.Message))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request, g *game.Game) {
	res, err := g.Undo()
	if err != nil {
		writeGameError(w, err)
		return
	}
	s.afterAction(r.Context(), g, res)
	writeJSON(w, http.StatusOK, viewGame(g.Snapshot(), res.Message))
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request, g *game.Game) {
	c, ok := g.Hint()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"hint": nil, "message": "No moves available."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hint": viewHint(c)})
}

// afterAction persists g and, on the winning action, books the result.
func (s *Server) afterAction(ctx context.Context, g *game.Game, res game.Result) {
	if err := s.store.Save(ctx, g); err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("save game")
	}
	if res.Won {
		s.recordWin(ctx, g.Snapshot())
	}
}

// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily deal.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or continue) today's deal
//   - POST /daily/finish      → record a won daily game
//   - GET  /daily/leaderboard → fastest results for today (or ?date=YYYY-MM-DD)
//
// Everyone gets the same shuffle on a date (daily.Seed). Each owner has one
// result per date, enforced by the daily_results unique key.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/m-7labs/solitaire-lite/internal/auth"
	"github.com/m-7labs/solitaire-lite/internal/daily"
	"github.com/m-7labs/solitaire-lite/internal/game"
)

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Post("/finish", s.handleDailyFinish)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type dailyNewRes struct {
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *gameView `json:"game,omitempty"`
}

// handleDailyNew returns today's deal for the caller.
// - Already finished today → Played=true and no game.
// - An unfinished daily game for today → that game.
// - Otherwise a fresh game dealt from today's seed.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(w, r)
	date := daily.DateKey(time.Now())

	if played, err := s.daily.AlreadyPlayed(r.Context(), owner, date); err != nil {
		log.Error().Err(err).Msg("daily lookup")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	if g := s.dailyInProgress(r.Context(), owner, date); g != nil {
		v := viewGame(g.Snapshot(), "Resumed today's deal.")
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
		return
	}

	g, err := s.startGame(r.Context(), owner, daily.SeedFor(date, s.cfg.Daily.Salt), game.WithDaily(date))
	if err != nil {
		writeGameError(w, err)
		return
	}
	v := viewGame(g.Snapshot(), "Today's deal.")
	writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Game: &v})
}

// dailyInProgress finds the owner's unfinished game for date.
func (s *Server) dailyInProgress(ctx context.Context, owner, date string) *game.Game {
	list, err := s.store.List(ctx, owner, 50)
	if err != nil {
		return nil
	}
	for _, sm := range list {
		if sm.Daily != date || sm.Status != "playing" {
			continue
		}
		if g, err := s.store.Get(ctx, sm.ID); err == nil {
			return g
		}
	}
	return nil
}

type finishReq struct {
	GameID string `json:"gameId"`
}

// handleDailyFinish records a won daily game. Finishing twice is harmless.
func (s *Server) handleDailyFinish(w http.ResponseWriter, r *http.Request) {
	var req finishReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_request")
		return
	}
	owner := s.owner(w, r)
	g, err := s.store.Get(r.Context(), req.GameID)
	if err != nil || g.Owner() != owner {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	snap := g.Snapshot()
	if snap.Daily == "" {
		writeError(w, http.StatusBadRequest, "not_a_daily_game")
		return
	}
	if !snap.Won {
		writeError(w, http.StatusConflict, "not_finished")
		return
	}
	res := dailyResult(snap)
	if err := s.daily.InsertResult(r.Context(), res); err != nil {
		log.Error().Err(err).Msg("insert daily result")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	if !daily.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

// ------------------------------- results -----------------------------------

func dailyResult(snap game.Snapshot) daily.Result {
	return daily.Result{
		UserID:    snap.Owner,
		Date:      snap.Daily,
		GameID:    snap.ID,
		Moves:     snap.Moves,
		Score:     snap.Score,
		ElapsedMs: snap.Elapsed.Milliseconds(),
	}
}

// recordStart counts a new game for a signed-in owner. Guests have no stats.
func (s *Server) recordStart(ctx context.Context, owner string, abandoned bool) {
	if err := s.users.RecordStart(ctx, owner, abandoned); err != nil && !errors.Is(err, auth.ErrNoUser) {
		log.Warn().Err(err).Str("owner", owner).Msg("record start")
	}
}

// recordWin books a win in the owner's stats and, for daily deals, the leaderboard.
func (s *Server) recordWin(ctx context.Context, snap game.Snapshot) {
	if err := s.users.RecordWin(ctx, snap.Owner, snap.Elapsed); err != nil && !errors.Is(err, auth.ErrNoUser) {
		log.Warn().Err(err).Str("owner", snap.Owner).Msg("record win")
	}
	if snap.Daily != "" {
		if err := s.daily.InsertResult(ctx, dailyResult(snap)); err != nil {
			log.Warn().Err(err).Str("gameId", snap.ID).Msg("record daily result")
		}
	}
	log.Info().Str("gameId", snap.ID).Int("score", snap.Score).Dur("elapsed", snap.Elapsed).Msg("game won")
}

// internal/httpserver/server.go
//
// HTTP server wiring for the solitaire backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game endpoints (optional auth): /game/* (routes_game.go).
//   - Daily deal endpoints (optional auth): /daily/* (routes_daily.go).
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine (routes_auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guests are tracked with an anonymous cookie; their games move to the
//     account on signup or login.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/m-7labs/solitaire-lite/internal/auth"
	"github.com/m-7labs/solitaire-lite/internal/config"
	"github.com/m-7labs/solitaire-lite/internal/daily"
	"github.com/m-7labs/solitaire-lite/internal/game"
	"github.com/m-7labs/solitaire-lite/internal/store"
)

// Server bundles router, game store, and DB-backed services.
type Server struct {
	r      *chi.Mux
	cfg    config.Config
	rules  game.Rules
	store  store.Store
	users  *auth.Users
	tokens *auth.Tokens
	daily  *daily.Store
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    cfg,
		rules:  cfg.GameRules(),
		store:  st,
		users:  auth.NewUsers(db),
		tokens: auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpiresDays)*24*time.Hour),
		daily:  daily.NewStore(db),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.Server.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"solitaire-go","endpoints":["/health","/game/*","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountGame(s.r.With(s.withOptionalAuth()))
	s.mountDaily(s.r.With(s.withOptionalAuth()))
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Router exposes the internal router.
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- replies -----------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeGameError maps engine and store errors to status codes.
func writeGameError(w http.ResponseWriter, err error) {
	var me *game.MoveError
	switch {
	case errors.As(err, &me):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_move", "reason": me.Reason})
	case errors.Is(err, game.ErrEmptyHistory):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "empty_history", "reason": "No moves to undo."})
	case errors.Is(err, game.ErrNothingToDraw):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "nothing_to_draw", "reason": err.Error()})
	case errors.Is(err, game.ErrGameOver):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "game_over", "reason": err.Error()})
	case errors.Is(err, game.ErrNoSuchPile), errors.Is(err, game.ErrMalformedMove):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "reason": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		log.Error().Err(err).Msg("game request")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/m-7labs/solitaire-lite/internal/config"
	"github.com/m-7labs/solitaire-lite/internal/httpserver"
	"github.com/m-7labs/solitaire-lite/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if getEnv("LOG_FORMAT", "json") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load(getEnv("CONFIG_FILE", "solitaire.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := openDB(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	st := store.NewLayered(store.NewMemoryStore(), store.NewSQLite(db, cfg.GameRules()))
	srv := httpserver.New(cfg, st, db)

	hs := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           logRequests(srv.Router()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdown)
	}()

	log.Info().Str("port", cfg.Server.Port).Str("db", cfg.Database.DSN).Msg("starting solitaire server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

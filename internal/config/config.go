// internal/config/config.go
//
// Server and rules configuration.
// Values come from three layers, later ones winning:
//   1. Defaults (Default()).
//   2. An optional YAML file (CONFIG_FILE, default solitaire.yaml). A missing file is not an error.
//   3. Environment variables, typically loaded from .env by godotenv in main.
//
// Environment variables:
//   PORT, CLIENT_ORIGIN, NODE_ENV=production, DATABASE_URL, DAILY_SALT,
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, AUTOCOMPLETE_DELAY_MS, FOUNDATION_POINTS

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/m-7labs/solitaire-lite/internal/game"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Rules    Rules    `yaml:"rules"`
	Scoring  Scoring  `yaml:"scoring"`
	Daily    Daily    `yaml:"daily"`
	Auth     Auth     `yaml:"auth"`
}

type Server struct {
	Port         string `yaml:"port"`
	ClientOrigin string `yaml:"client_origin"`
	Production   bool   `yaml:"production"`
}

type Database struct {
	DSN string `yaml:"dsn"`
}

type Rules struct {
	AutoComplete AutoComplete `yaml:"autocomplete"`
}

type AutoComplete struct {
	Enabled bool `yaml:"enabled"`
	DelayMS int  `yaml:"delay_ms"`
}

type Scoring struct {
	FoundationPoints int `yaml:"foundation_points"`
	UndoPenalty      int `yaml:"undo_penalty"`
}

type Daily struct {
	Salt string `yaml:"salt"`
}

type Auth struct {
	JWTSecret      string `yaml:"jwt_secret"`
	JWTExpiresDays int    `yaml:"jwt_expires_days"`
	CookieName     string `yaml:"cookie_name"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:   Server{Port: "5175", ClientOrigin: "http://localhost:5173"},
		Database: Database{DSN: "./data/solitaire.db"},
		Rules:    Rules{AutoComplete: AutoComplete{Enabled: true, DelayMS: 250}},
		Scoring:  Scoring{FoundationPoints: 10},
		Daily:    Daily{Salt: "local_dev_salt"},
		Auth: Auth{
			JWTSecret:      "dev_secret_change_me",
			JWTExpiresDays: 14,
			CookieName:     "solitaire_token",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c *Config) applyEnv() error {
	str := func(k string, dst *string) {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	num := func(k string, dst *int) error {
		v := os.Getenv(k)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		*dst = n
		return nil
	}

	str("PORT", &c.Server.Port)
	str("CLIENT_ORIGIN", &c.Server.ClientOrigin)
	str("DATABASE_URL", &c.Database.DSN)
	str("DAILY_SALT", &c.Daily.Salt)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("COOKIE_NAME", &c.Auth.CookieName)
	if os.Getenv("NODE_ENV") == "production" {
		c.Server.Production = true
	}
	for k, dst := range map[string]*int{
		"JWT_EXPIRES_DAYS":      &c.Auth.JWTExpiresDays,
		"AUTOCOMPLETE_DELAY_MS": &c.Rules.AutoComplete.DelayMS,
		"FOUNDATION_POINTS":     &c.Scoring.FoundationPoints,
	} {
		if err := num(k, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Rules.AutoComplete.DelayMS < 0 {
		return errors.New("rules.autocomplete.delay_ms must not be negative")
	}
	if c.Auth.JWTExpiresDays <= 0 {
		return errors.New("auth.jwt_expires_days must be positive")
	}
	if c.Server.Production && c.Auth.JWTSecret == Default().Auth.JWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// GameRules maps the scoring section onto the engine's rules.
func (c Config) GameRules() game.Rules {
	return game.Rules{
		FoundationPoints: c.Scoring.FoundationPoints,
		UndoPenalty:      c.Scoring.UndoPenalty,
	}
}

// AutoCompleteDelay is how long to wait after a manual move before sweeping.
// It is negative when auto-complete is disabled.
func (c Config) AutoCompleteDelay() time.Duration {
	if !c.Rules.AutoComplete.Enabled {
		return -1
	}
	return time.Duration(c.Rules.AutoComplete.DelayMS) * time.Millisecond
}

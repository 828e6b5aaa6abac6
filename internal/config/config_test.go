package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-7labs/solitaire-lite/internal/game"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 250*time.Millisecond, cfg.AutoCompleteDelay())
	assert.Equal(t, game.DefaultRules(), cfg.GameRules())
}

func TestLoad_FileOverridesDefaultsAndEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solitaire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "8080"
rules:
  autocomplete:
    delay_ms: 0
scoring:
  foundation_points: 5
  undo_penalty: 2
`), 0o644))
	t.Setenv("PORT", "9090")
	t.Setenv("DAILY_SALT", "pepper")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "pepper", cfg.Daily.Salt)
	assert.True(t, cfg.Rules.AutoComplete.Enabled, "untouched keys keep defaults")
	assert.Equal(t, time.Duration(0), cfg.AutoCompleteDelay())
	assert.Equal(t, game.Rules{FoundationPoints: 5, UndoPenalty: 2}, cfg.GameRules())
}

func TestLoad_DisabledAutoComplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  autocomplete:\n    enabled: false\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Less(t, cfg.AutoCompleteDelay(), time.Duration(0))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [1, 2"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRES_DAYS", "soon")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("JWT_EXPIRES_DAYS", "")
	t.Setenv("NODE_ENV", "production")
	_, err = Load("")
	assert.Error(t, err, "production needs a real secret")
}

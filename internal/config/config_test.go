package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shanghai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.BuySequential, c.Settings().BuyMode)
	assert.Equal(t, 3*time.Second, c.RoundEndDelay())
	assert.Equal(t, 5*time.Second, c.AutoFillDelay())
}

func TestLoadTOML(t *testing.T) {
	c, err := Load("testdata/server.toml")
	require.NoError(t, err)
	assert.Equal(t, domain.GameSettings{BuyMode: domain.BuySimultaneous, BuyTimeLimit: 15}, c.Settings())
	assert.Equal(t, ":9000", c.Server.ListenAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, c.Server.AllowedOrigins)
	assert.False(t, c.Bots.Enabled)
	// Untouched keys keep their defaults.
	assert.Equal(t, 20, c.Server.RateBurst)
	assert.Equal(t, "data/bot_identities.json", c.Bots.IdentitiesPath)
}

func TestLoadJSON(t *testing.T) {
	c, err := Load("testdata/server.json")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.RoundEndDelay())
	assert.Equal(t, 4, c.Game.MaxPlayers)
	assert.Equal(t, "mt1s.vivox.com", c.Vivox.Domain)
	assert.Equal(t, domain.DefaultBuyTimeLimit, c.Game.BuyTimeLimitSeconds)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load("testdata/bad.json")
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)

	_, err = Load("testdata/missing.toml")
	assert.Error(t, err)

	yaml := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(yaml, []byte("game: {}"), 0o644))
	_, err = Load(yaml)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative delay", func(c *Config) { c.Game.RoundEndDelaySeconds = -1 }},
		{"too many players", func(c *Config) { c.Game.MaxPlayers = 7 }},
		{"min above max", func(c *Config) { c.Game.MinPlayers = 5; c.Game.MaxPlayers = 4 }},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }},
		{"think window", func(c *Config) { c.Bots.MinThinkSeconds = 3; c.Bots.MaxThinkSeconds = 1 }},
		{"negative buy limit", func(c *Config) { c.Game.BuyTimeLimitSeconds = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestGetGameConfigFallsBackToDefaults(t *testing.T) {
	assert.Equal(t, Default(), GetGameConfig())
}

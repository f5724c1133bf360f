package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"shanghai/internal/domain"
)

// Config is the server configuration shared by the Nakama plugin and the
// standalone websocket server.
type Config struct {
	Game   GameConfig   `json:"game" toml:"game"`
	Server ServerConfig `json:"server" toml:"server"`
	Bots   BotConfig    `json:"bots" toml:"bots"`
	Vivox  VivoxConfig  `json:"vivox" toml:"vivox"`
}

// GameConfig holds table defaults.
type GameConfig struct {
	DefaultBuyMode      domain.BuyMode `json:"default_buy_mode" toml:"default_buy_mode"`
	BuyTimeLimitSeconds int            `json:"buy_time_limit_seconds" toml:"buy_time_limit_seconds"`
	// RoundEndDelaySeconds is how long scores stay up before the next round deals.
	RoundEndDelaySeconds int `json:"round_end_delay_seconds" toml:"round_end_delay_seconds"`
	MinPlayers           int `json:"min_players" toml:"min_players"`
	MaxPlayers           int `json:"max_players" toml:"max_players"`
}

type ServerConfig struct {
	ListenAddr     string   `json:"listen_addr" toml:"listen_addr"`
	JWTSecret      string   `json:"jwt_secret" toml:"jwt_secret"`
	RateLimit      float64  `json:"rate_limit" toml:"rate_limit"` // commands per second per connection
	RateBurst      int      `json:"rate_burst" toml:"rate_burst"`
	AllowedOrigins []string `json:"allowed_origins" toml:"allowed_origins"`
}

type BotConfig struct {
	Enabled              bool   `json:"enabled" toml:"enabled"`
	MinThinkSeconds      int    `json:"min_think_seconds" toml:"min_think_seconds"`
	MaxThinkSeconds      int    `json:"max_think_seconds" toml:"max_think_seconds"`
	AutoFillDelaySeconds int    `json:"auto_fill_delay_seconds" toml:"auto_fill_delay_seconds"`
	IdentitiesPath       string `json:"identities_path" toml:"identities_path"`
}

type VivoxConfig struct {
	Issuer string `json:"issuer" toml:"issuer"`
	Domain string `json:"domain" toml:"domain"`
	Secret string `json:"secret" toml:"secret"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			DefaultBuyMode:       domain.DefaultBuyMode,
			BuyTimeLimitSeconds:  domain.DefaultBuyTimeLimit,
			RoundEndDelaySeconds: 3,
			MinPlayers:           domain.MinPlayers,
			MaxPlayers:           domain.MaxPlayers,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
			RateLimit:  10,
			RateBurst:  20,
		},
		Bots: BotConfig{
			Enabled:              true,
			MinThinkSeconds:      1,
			MaxThinkSeconds:      2,
			AutoFillDelaySeconds: 5,
			IdentitiesPath:       "data/bot_identities.json",
		},
	}
}

// Load reads a .json or .toml file over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, c.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".json":
		err = json.Unmarshal(data, c)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := domain.NormalizeSettings(c.Settings()); err != nil {
		return err
	}
	g := c.Game
	if g.RoundEndDelaySeconds < 0 {
		return fmt.Errorf("round end delay cannot be negative: %d", g.RoundEndDelaySeconds)
	}
	if g.MinPlayers < domain.MinPlayers || g.MaxPlayers > domain.MaxPlayers || g.MinPlayers > g.MaxPlayers {
		return fmt.Errorf("player bounds %d..%d outside %d..%d", g.MinPlayers, g.MaxPlayers, domain.MinPlayers, domain.MaxPlayers)
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("rate limit cannot be negative")
	}
	b := c.Bots
	if b.MinThinkSeconds < 0 || b.MaxThinkSeconds < b.MinThinkSeconds {
		return fmt.Errorf("invalid bot think delay %d..%d", b.MinThinkSeconds, b.MaxThinkSeconds)
	}
	if b.AutoFillDelaySeconds < 0 {
		return fmt.Errorf("bot auto fill delay cannot be negative: %d", b.AutoFillDelaySeconds)
	}
	return nil
}

// Settings returns the default settings for new games.
func (c *Config) Settings() domain.GameSettings {
	return domain.GameSettings{BuyMode: c.Game.DefaultBuyMode, BuyTimeLimit: c.Game.BuyTimeLimitSeconds}
}

// RoundEndDelay returns the pause before the next round is dealt automatically.
func (c *Config) RoundEndDelay() time.Duration {
	return time.Duration(c.Game.RoundEndDelaySeconds) * time.Second
}

// AutoFillDelay returns how long a lobby waits before bots take empty seats.
func (c *Config) AutoFillDelay() time.Duration {
	return time.Duration(c.Bots.AutoFillDelaySeconds) * time.Second
}

var (
	cfg      *Config
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the process-wide configuration once. A missing file
// falls back to the defaults.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			cfg = Default()
			return
		}
		cfg, loadErr = Load(path)
	})
	return loadErr
}

// GetGameConfig returns the process-wide configuration, or the defaults if
// none was loaded.
func GetGameConfig() *Config {
	if cfg == nil {
		return Default()
	}
	return cfg
}

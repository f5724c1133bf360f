package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelGood
)

// ParseLevel maps an identity difficulty to a level. Unknown names are good.
func ParseLevel(s string) BotLevel {
	switch strings.ToLower(s) {
	case "easy":
		return BotLevelEasy
	default:
		return BotLevelGood
	}
}

// NewBrain creates a new AI brain for self at the given level. rng may be nil.
func NewBrain(level BotLevel, self string, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case BotLevelEasy:
		return &EasyBot{}, nil
	case BotLevelGood:
		return NewGoodBot(self, rng), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewAgent builds an agent for a pooled bot identity, or a good bot for an
// unknown id.
func NewAgent(userID string) (*Agent, error) {
	identity, ok := GetBotConfig(userID)
	if !ok {
		identity = BotIdentity{UserID: userID, DisplayName: userID}
	}
	brain, err := NewBrain(ParseLevel(identity.Difficulty), userID, nil)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: userID, Name: identity.DisplayName, Strategy: brain}, nil
}

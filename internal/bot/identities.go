package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one pooled bot account.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy" or "good"
}

// Roster is the pool of bot identities available to fill seats.
type Roster struct {
	mu         sync.RWMutex
	identities []BotIdentity
	byID       map[string]BotIdentity
}

// NewRoster builds a roster. Identities without a user id get "bot-<device>"
// until provisioning assigns a real account.
func NewRoster(identities []BotIdentity) *Roster {
	r := &Roster{}
	r.set(identities)
	return r
}

func (r *Roster) set(identities []BotIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities = make([]BotIdentity, len(identities))
	r.byID = make(map[string]BotIdentity, len(identities))
	for i, id := range identities {
		if id.UserID == "" && id.DeviceID != "" {
			id.UserID = "bot-" + id.DeviceID
		}
		r.identities[i] = id
		if id.UserID != "" {
			r.byID[id.UserID] = id
		}
	}
}

// Identity returns the identity at index, wrapping around the pool.
func (r *Roster) Identity(index int) BotIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.identities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("Bot %d", index+1),
			Difficulty:  "good",
		}
	}
	return r.identities[index%len(r.identities)]
}

// Lookup returns the identity for a bot user id.
func (r *Roster) Lookup(userID string) (BotIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byID[userID]
	return id, ok
}

// Len is the pool size.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.identities)
}

// Provision creates or refreshes a Nakama account for every identity with a
// device id and records the account's user id.
func (r *Roster) Provision(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	r.mu.RLock()
	pending := append([]BotIdentity(nil), r.identities...)
	r.mu.RUnlock()

	for i := range pending {
		identity := &pending[i]
		if identity.DeviceID == "" {
			continue
		}
		userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
		if err != nil {
			logger.Error("Provision: failed to authenticate bot %s: %v", identity.Username, err)
			continue
		}
		identity.UserID = userID
		identity.Username = username

		metadata := map[string]interface{}{"is_bot": true, "difficulty": identity.Difficulty}
		if err := nk.AccountUpdateId(ctx, userID, "", metadata, identity.DisplayName, "", "", "", ""); err != nil {
			logger.Warn("Provision: failed to update bot account %s: %v", userID, err)
		}
		logger.Info("Provision: bot %s (%s) ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
	}
	r.set(pending)
}

var (
	defaultRoster = NewRoster(nil)
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// ReadIdentities parses a JSON array of identities from path.
func ReadIdentities(path string) ([]BotIdentity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities: %w", err)
	}
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	return identities, nil
}

// LoadIdentities fills the shared roster from path once per process.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		identities, err := ReadIdentities(path)
		if err != nil {
			loadErr = err
			return
		}
		defaultRoster.set(identities)
	})
	return loadErr
}

// ProvisionBots provisions the shared roster once per process.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		defaultRoster.Provision(ctx, nk, logger)
	})
}

// DefaultRoster is the shared roster used by the Nakama adapter.
func DefaultRoster() *Roster { return defaultRoster }

// GetBotIdentity returns a pooled identity by index.
func GetBotIdentity(index int) BotIdentity { return defaultRoster.Identity(index) }

// GetBotConfig returns the identity for a bot user id.
func GetBotConfig(userID string) (BotIdentity, bool) { return defaultRoster.Lookup(userID) }

// IsBot reports whether userID belongs to the bot pool.
func IsBot(userID string) bool {
	_, ok := defaultRoster.Lookup(userID)
	return ok
}

// GetBotDisplayName returns a bot's display name, or "" for non-bots.
func GetBotDisplayName(userID string) string {
	id, ok := defaultRoster.Lookup(userID)
	if !ok {
		return ""
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Username
}

package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"shanghai/internal/ports"
)

var (
	adjectives = []string{"Happy", "Lucky", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Jolly", "Bold", "Sunny"}
	nouns      = []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion", "Koala", "Heron"}
)

// FriendlyName returns a display name such as "LuckyOtter42".
func FriendlyName(rng *rand.Rand) string {
	adj := adjectives[rng.Intn(len(adjectives))]
	noun := nouns[rng.Intn(len(nouns))]
	return fmt.Sprintf("%s%s%d", adj, noun, rng.Intn(90)+10)
}

// Result captures the outcome of onboarding a new account.
type Result struct {
	DisplayName string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service. rng may be nil to use a
// time-seeded default.
func NewService(accounts ports.AccountPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{accounts: accounts, rng: rng}
}

// OnboardNewUser gives a freshly created account a friendly display name so it
// shows up readably in lobbies and score tables.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}
	if userID == "" {
		return Result{}, fmt.Errorf("user id is required")
	}

	name := FriendlyName(s.rng)
	if err := s.accounts.UpdateProfile(ctx, userID, "", name); err != nil {
		return Result{}, fmt.Errorf("failed to set display name: %w", err)
	}
	return Result{DisplayName: name}, nil
}

package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"testing"
)

type fakeAccountPort struct {
	updateErr   error
	userID      string
	displayName string
}

func (f *fakeAccountPort) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	f.userID = userID
	f.displayName = displayName
	return f.updateErr
}

var friendlyNamePattern = regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+[1-9][0-9]$`)

func TestFriendlyName(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		if name := FriendlyName(rng); !friendlyNamePattern.MatchString(name) {
			t.Fatalf("FriendlyName() = %q", name)
		}
	}
}

func TestOnboardNewUser_SetsDisplayName(t *testing.T) {
	accounts := &fakeAccountPort{}
	service := NewService(accounts, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if accounts.userID != "user-1" || accounts.displayName != result.DisplayName {
		t.Fatalf("profile update = %s/%s, result %q", accounts.userID, accounts.displayName, result.DisplayName)
	}
	if !friendlyNamePattern.MatchString(result.DisplayName) {
		t.Fatalf("unexpected display name %q", result.DisplayName)
	}
}

func TestOnboardNewUser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		service *Service
		userID  string
	}{
		{"UpdateFails", NewService(&fakeAccountPort{updateErr: errors.New("boom")}, nil), "user-1"},
		{"NoAccounts", NewService(nil, nil), "user-1"},
		{"NoUser", NewService(&fakeAccountPort{}, nil), ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.service.OnboardNewUser(context.Background(), tt.userID); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

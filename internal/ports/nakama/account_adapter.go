package nakama

import (
	"context"
	"fmt"

	"shanghai/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter implements the account ports on Nakama's account API.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateProfile sets the display name, and the username when one is given.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	if err := a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", ""); err != nil {
		return fmt.Errorf("update account %s: %w", userID, err)
	}
	return nil
}

func (a *NakamaAccountAdapter) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}
	users, err := a.nk.UsersGetId(ctx, userIDs, nil)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	out := make(map[string]string, len(users))
	for _, u := range users {
		name := u.GetDisplayName()
		if name == "" {
			name = u.GetUsername()
		}
		out[u.GetId()] = name
	}
	return out, nil
}

var (
	_ ports.AccountPort = (*NakamaAccountAdapter)(nil)
	_ ports.ProfilePort = (*NakamaAccountAdapter)(nil)
)

package ports

import "context"

// AccountPort updates player account profiles.
type AccountPort interface {
	// UpdateProfile sets the account's username and display name. An empty
	// username leaves the current one untouched.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}

// ProfilePort resolves display names for seating players.
type ProfilePort interface {
	// DisplayNames maps each known user id to its display name, falling back
	// to the username when no display name is set.
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

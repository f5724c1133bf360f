// Package lobby keeps the rooms players gather in before a game starts.
package lobby

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shanghai/internal/domain"
)

var (
	ErrNotFound = errors.New("lobby not found")
	ErrFull     = errors.New("lobby is full")
	ErrNotHost  = errors.New("only the host can do that")
	ErrInLobby  = errors.New("already in another lobby")
	ErrInGame   = errors.New("game already in progress")
	ErrBadName  = errors.New("name must not be empty")
)

// Member is one seat in a lobby, in join order.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bot  bool   `json:"bot,omitempty"`
}

// Lobby is a room identified by a six-character code. The first member is
// always the host.
type Lobby struct {
	Code       string    `json:"code"`
	HostID     string    `json:"hostId"`
	Members    []Member  `json:"members"`
	MaxPlayers int       `json:"maxPlayers"`
	CreatedAt  time.Time `json:"createdAt"`
	InGame     bool      `json:"inGame"`
}

// New returns a lobby hosted by hostID.
func New(code, hostID, hostName string, now time.Time) *Lobby {
	return &Lobby{
		Code:       code,
		HostID:     hostID,
		Members:    []Member{{ID: hostID, Name: hostName}},
		MaxPlayers: domain.MaxPlayers,
		CreatedAt:  now,
	}
}

// Add seats a member. Adding someone already seated succeeds without change.
func (l *Lobby) Add(m Member) error {
	if l.Has(m.ID) {
		return nil
	}
	if l.InGame {
		return fmt.Errorf("%w: lobby %s", ErrInGame, l.Code)
	}
	if len(l.Members) >= l.MaxPlayers {
		return fmt.Errorf("%w: %d players", ErrFull, l.MaxPlayers)
	}
	l.Members = append(l.Members, m)
	return nil
}

// Remove drops id and reports whether it was seated.
func (l *Lobby) Remove(id string) bool {
	for i, m := range l.Members {
		if m.ID == id {
			l.Members = append(l.Members[:i:i], l.Members[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Lobby) Has(id string) bool {
	_, ok := l.Member(id)
	return ok
}

func (l *Lobby) Member(id string) (Member, bool) {
	for _, m := range l.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Humans counts members that are not bots.
func (l *Lobby) Humans() int {
	n := 0
	for _, m := range l.Members {
		if !m.Bot {
			n++
		}
	}
	return n
}

// Rename changes id's display name. Names are trimmed.
func (l *Lobby) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBadName
	}
	for i := range l.Members {
		if l.Members[i].ID == id {
			l.Members[i].Name = name
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not in lobby %s", ErrNotFound, id, l.Code)
}

// Clone returns a deep copy safe to hand to other goroutines.
func (l *Lobby) Clone() Lobby {
	out := *l
	out.Members = append([]Member(nil), l.Members...)
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

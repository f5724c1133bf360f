package lobby

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"shanghai/internal/app/onboarding"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Directory is the process-wide set of live lobbies. It is safe for
// concurrent use; every method returns copies.
type Directory struct {
	mu       sync.Mutex
	lobbies  map[string]*Lobby
	byPlayer map[string]string
	rng      *rand.Rand
	now      func() time.Time
}

// NewDirectory creates an empty directory. rng may be nil.
func NewDirectory(rng *rand.Rand) *Directory {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Directory{
		lobbies:  make(map[string]*Lobby),
		byPlayer: make(map[string]string),
		rng:      rng,
		now:      time.Now,
	}
}

// NewCode returns a random room code.
func NewCode(rng *rand.Rand) string {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[rng.Intn(len(codeAlphabet))])
	}
	return b.String()
}

func (d *Directory) name(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return onboarding.FriendlyName(d.rng)
}

// Create opens a lobby hosted by hostID. An empty name gets a generated one.
func (d *Directory) Create(hostID, name string) (Lobby, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code, ok := d.byPlayer[hostID]; ok {
		return Lobby{}, fmt.Errorf("%w: %s", ErrInLobby, code)
	}
	code := NewCode(d.rng)
	for d.lobbies[code] != nil {
		code = NewCode(d.rng)
	}
	l := New(code, hostID, d.name(name), d.now())
	d.lobbies[code] = l
	d.byPlayer[hostID] = code
	return l.Clone(), nil
}

// Join seats id in the lobby with code. Joining a lobby one is already in is
// a no-op.
func (d *Directory) Join(code, id, name string) (Lobby, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	code = normalizeCode(code)
	l, ok := d.lobbies[code]
	if !ok {
		return Lobby{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	if cur, ok := d.byPlayer[id]; ok && cur != code {
		return Lobby{}, fmt.Errorf("%w: %s", ErrInLobby, cur)
	}
	if err := l.Add(Member{ID: id, Name: d.name(name)}); err != nil {
		return Lobby{}, err
	}
	d.byPlayer[id] = code
	return l.Clone(), nil
}

// AddBot seats a bot. Bots are not indexed by player since they never leave
// on their own.
func (d *Directory) AddBot(code, id, name string) (Lobby, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.lobbies[normalizeCode(code)]
	if !ok {
		return Lobby{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	if err := l.Add(Member{ID: id, Name: d.name(name), Bot: true}); err != nil {
		return Lobby{}, err
	}
	return l.Clone(), nil
}

// LeaveResult describes a departure. Lobby is only set when it still exists.
type LeaveResult struct {
	Code      string
	WasHost   bool
	Disbanded bool
	// Removed lists everyone who lost their seat, including the leaver.
	Removed []string
	Lobby   *Lobby
}

// Leave removes id from its lobby. The host leaving disbands the lobby, bots
// included.
func (d *Directory) Leave(id string) (LeaveResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	code, ok := d.byPlayer[id]
	if !ok {
		return LeaveResult{}, fmt.Errorf("%w: %s is not in a lobby", ErrNotFound, id)
	}
	l := d.lobbies[code]
	res := LeaveResult{Code: code, WasHost: l.HostID == id, Removed: []string{id}}
	l.Remove(id)
	delete(d.byPlayer, id)

	if res.WasHost {
		res.Removed = append(res.Removed, d.disband(l)...)
		res.Disbanded = true
		return res, nil
	}
	c := l.Clone()
	res.Lobby = &c
	return res, nil
}

// Kick removes target from the host's lobby.
func (d *Directory) Kick(hostID, target string) (Lobby, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, err := d.hosted(hostID)
	if err != nil {
		return Lobby{}, err
	}
	if target == hostID {
		return Lobby{}, fmt.Errorf("%w: the host cannot kick themselves", ErrNotHost)
	}
	if !l.Remove(target) {
		return Lobby{}, fmt.Errorf("%w: %s is not in lobby %s", ErrNotFound, target, l.Code)
	}
	delete(d.byPlayer, target)
	return l.Clone(), nil
}

// Disband closes the host's lobby and returns the ids that were seated.
func (d *Directory) Disband(hostID string) (string, []string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, err := d.hosted(hostID)
	if err != nil {
		return "", nil, err
	}
	return l.Code, d.disband(l), nil
}

// Rename changes id's display name in its lobby.
func (d *Directory) Rename(id, name string) (Lobby, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	code, ok := d.byPlayer[id]
	if !ok {
		return Lobby{}, fmt.Errorf("%w: %s is not in a lobby", ErrNotFound, id)
	}
	l := d.lobbies[code]
	if err := l.Rename(id, name); err != nil {
		return Lobby{}, err
	}
	return l.Clone(), nil
}

// SetInGame marks whether the lobby's game is running. Running lobbies
// refuse new members.
func (d *Directory) SetInGame(code string, inGame bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.lobbies[normalizeCode(code)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	l.InGame = inGame
	return nil
}

func (d *Directory) Get(code string) (Lobby, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.lobbies[normalizeCode(code)]
	if !ok {
		return Lobby{}, false
	}
	return l.Clone(), true
}

func (d *Directory) ByPlayer(id string) (Lobby, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	code, ok := d.byPlayer[id]
	if !ok {
		return Lobby{}, false
	}
	return d.lobbies[code].Clone(), true
}

// All returns every lobby, oldest first.
func (d *Directory) All() []Lobby {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Lobby, 0, len(d.lobbies))
	for _, l := range d.lobbies {
		out = append(out, l.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Code < out[j].Code
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (d *Directory) hosted(hostID string) (*Lobby, error) {
	code, ok := d.byPlayer[hostID]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in a lobby", ErrNotFound, hostID)
	}
	l := d.lobbies[code]
	if l.HostID != hostID {
		return nil, ErrNotHost
	}
	return l, nil
}

// disband deletes l and unindexes its remaining members, returning their ids.
func (d *Directory) disband(l *Lobby) []string {
	ids := make([]string, 0, len(l.Members))
	for _, m := range l.Members {
		ids = append(ids, m.ID)
		delete(d.byPlayer, m.ID)
	}
	delete(d.lobbies, l.Code)
	return ids
}

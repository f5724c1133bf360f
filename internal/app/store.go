package app

import (
	"strings"

	"shanghai/internal/domain"

	"github.com/awesome-cap/hashmap"
)

// Store keeps live games by id and by room code.
type Store interface {
	Get(id string) (*domain.GameState, bool)
	Put(game *domain.GameState)
	Remove(id string)
	FindByCode(code string) (*domain.GameState, bool)
}

// MemoryStore is an in-process Store safe for concurrent use. Games do not
// survive a restart.
type MemoryStore struct {
	games *hashmap.HashMap
	codes *hashmap.HashMap
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: hashmap.New(), codes: hashmap.New()}
}

func (m *MemoryStore) Get(id string) (*domain.GameState, bool) {
	v, ok := m.games.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*domain.GameState), true
}

func (m *MemoryStore) Put(game *domain.GameState) {
	m.games.Set(game.ID, game)
	if game.Code != "" {
		m.codes.Set(normalizeCode(game.Code), game.ID)
	}
}

func (m *MemoryStore) Remove(id string) {
	if game, ok := m.Get(id); ok && game.Code != "" {
		if v, ok := m.codes.Get(normalizeCode(game.Code)); ok && v.(string) == id {
			m.codes.Del(normalizeCode(game.Code))
		}
	}
	m.games.Del(id)
}

// FindByCode looks a game up by its room code, ignoring case.
func (m *MemoryStore) FindByCode(code string) (*domain.GameState, bool) {
	v, ok := m.codes.Get(normalizeCode(code))
	if !ok {
		return nil, false
	}
	return m.Get(v.(string))
}

// All returns every stored game in no particular order.
func (m *MemoryStore) All() []*domain.GameState {
	var out []*domain.GameState
	m.games.Foreach(func(e *hashmap.Entry) {
		out = append(out, e.Value().(*domain.GameState))
	})
	return out
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

var _ Store = (*MemoryStore)(nil)

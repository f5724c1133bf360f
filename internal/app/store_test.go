package app

import (
	"testing"

	"shanghai/internal/domain"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	g1 := &domain.GameState{ID: "g1", Code: "ABC123"}
	g2 := &domain.GameState{ID: "g2", Code: "XYZ789"}
	store.Put(g1)
	store.Put(g2)

	if got, ok := store.Get("g1"); !ok || got != g1 {
		t.Fatal("Get(g1) failed")
	}
	if got, ok := store.FindByCode(" abc123 "); !ok || got != g1 {
		t.Fatal("FindByCode should ignore case and whitespace")
	}
	if n := len(store.All()); n != 2 {
		t.Fatalf("All() = %d games, want 2", n)
	}

	store.Remove("g1")
	if _, ok := store.Get("g1"); ok {
		t.Fatal("g1 still stored")
	}
	if _, ok := store.FindByCode("ABC123"); ok {
		t.Fatal("code index still points at g1")
	}
	if _, ok := store.FindByCode("XYZ789"); !ok {
		t.Fatal("removing g1 dropped g2")
	}
}

func TestMemoryStoreCodeReuse(t *testing.T) {
	store := NewMemoryStore()
	store.Put(&domain.GameState{ID: "old", Code: "ROOM01"})
	store.Put(&domain.GameState{ID: "new", Code: "ROOM01"})
	store.Remove("old")

	got, ok := store.FindByCode("room01")
	if !ok || got.ID != "new" {
		t.Fatal("removing an old game must not drop a newer game's code")
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	store := NewMemoryStore()
	first := &domain.GameState{ID: "g1", Code: "ROOM01", Round: 1}
	second := &domain.GameState{ID: "g1", Code: "ROOM01", Round: 2}
	store.Put(first)
	store.Put(second)

	all := store.All()
	if len(all) != 1 || all[0] != second {
		t.Fatalf("All() = %v, want only the replacement", all)
	}
	if got, ok := store.FindByCode("ROOM01"); !ok || got.Round != 2 {
		t.Fatal("code lookup should return the replacement")
	}
	store.Remove("g1")
	if len(store.All()) != 0 {
		t.Fatal("store should be empty")
	}
	if _, ok := store.FindByCode("ROOM01"); ok {
		t.Fatal("code index outlived its game")
	}
}

package app

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"shanghai/internal/domain"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(seed int64) *Service {
	return NewService(rand.New(rand.NewSource(seed))).WithClock(func() time.Time { return testNow })
}

func participants(ids ...string) []Participant {
	out := make([]Participant, len(ids))
	for i, id := range ids {
		out[i] = Participant{ID: id, Name: "Player " + id}
	}
	return out
}

func startTestGame(t *testing.T, mode domain.BuyMode, ids ...string) (*Service, *domain.GameState) {
	t.Helper()
	svc := newTestService(1)
	game, _, err := svc.StartGame("ROOM01", ids[0], ids[0], participants(ids...), domain.GameSettings{BuyMode: mode})
	if err != nil {
		t.Fatalf("StartGame error: %v", err)
	}
	return svc, game
}

func card(id string, rank domain.Rank, suit domain.Suit) domain.Card {
	return domain.Card{ID: id, Rank: rank, Suit: suit, Points: domain.PointValue(rank)}
}

func jokerCard(id string) domain.Card {
	return card(id, domain.RankJoker, domain.SuitJoker)
}

func ids(cards ...domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func assertConserved(t *testing.T, game *domain.GameState) {
	t.Helper()
	if game.Phase != domain.PhasePlaying {
		return
	}
	if n := game.CardCount(); n != domain.TotalCards {
		t.Fatalf("card count = %d, want %d", n, domain.TotalCards)
	}
	for id, n := range game.CardLocations() {
		if n != 1 {
			t.Fatalf("card %s appears %d times", id, n)
		}
	}
}

// assertRejected runs fn against game and checks it fails with kind and leaves
// the game untouched.
func assertRejected(t *testing.T, game *domain.GameState, kind error, fn func() ([]Event, error)) {
	t.Helper()
	before := game.Clone()
	events, err := fn()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want %v", err, kind)
	}
	if events != nil {
		t.Fatalf("rejected command returned %d events", len(events))
	}
	if !reflect.DeepEqual(before, game) {
		t.Fatal("rejected command modified the game")
	}
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

package bot

import (
	"math/rand"
	"testing"
	"time"

	"shanghai/internal/app"
	"shanghai/internal/domain"

	"github.com/stretchr/testify/require"
)

func c(id string, rank domain.Rank, suit domain.Suit) domain.Card {
	return domain.Card{ID: id, Rank: rank, Suit: suit, Points: domain.PointValue(rank)}
}

func jk(id string) domain.Card {
	return c(id, domain.RankJoker, domain.SuitJoker)
}

func newService(seed int64) *app.Service {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return app.NewService(rand.New(rand.NewSource(seed))).WithClock(func() time.Time { return now })
}

// startGame starts a game between ids and moves it to the first player's
// place step, so tests can hand out exact hands.
func startGame(t *testing.T, ids ...string) (*app.Service, *domain.GameState) {
	t.Helper()
	svc := newService(1)
	parts := make([]app.Participant, len(ids))
	for i, id := range ids {
		parts[i] = app.Participant{ID: id, Name: id}
	}
	game, _, err := svc.StartGame("BOTS", ids[0], ids[0], parts, domain.GameSettings{})
	require.NoError(t, err)
	return svc, game
}

// toPlaceStep declines the opening buy window and draws for the current player.
func toPlaceStep(t *testing.T, svc *app.Service, game *domain.GameState) {
	t.Helper()
	for game.TurnPhase == domain.TurnBuy {
		_, err := svc.DeclineBuy(game, app.Actors(game)[0])
		require.NoError(t, err)
	}
	_, err := svc.DrawFromDeck(game, game.CurrentPlayer().ID)
	require.NoError(t, err)
	require.Equal(t, domain.TurnPlace, game.TurnPhase)
}

// setHand swaps p's hand for hand, returning the old cards to the deck so
// the table still holds every card once.
func setHand(game *domain.GameState, p *domain.Player, hand ...domain.Card) {
	game.Deck = append(game.Deck, p.Hand...)
	p.Hand = hand
}

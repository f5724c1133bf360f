package bot

import (
	"testing"

	"shanghai/internal/app"
	"shanghai/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBrain struct {
	events []app.Event
}

func (b *recordingBrain) Decide(*domain.GameState, *domain.Player) (Action, error) {
	return Action{Kind: ActionDrawDeck}, nil
}

func (b *recordingBrain) OnEvent(ev app.Event) { b.events = append(b.events, ev) }

func TestAgentOnlySeesItsEvents(t *testing.T) {
	rec := &recordingBrain{}
	a := &Agent{ID: "a", Strategy: rec}

	a.OnGameEvent(app.Event{Kind: app.EventCardDiscarded})
	a.OnGameEvent(app.Event{Kind: app.EventStateSnapshot, Recipients: []string{"b"}})
	a.OnGameEvent(app.Event{Kind: app.EventStateSnapshot, Recipients: []string{"a"}})

	require.Len(t, rec.events, 2)
	assert.Equal(t, app.EventCardDiscarded, rec.events[0].Kind)
	assert.Equal(t, []string{"a"}, rec.events[1].Recipients)
}

func TestAgentActWaitsWhenNotSeated(t *testing.T) {
	_, game := startGame(t, "a", "b")
	a := &Agent{ID: "ghost", Strategy: &recordingBrain{}}
	act, err := a.Act(game)
	require.NoError(t, err)
	assert.Equal(t, ActionWait, act.Kind)
	assert.False(t, a.CanAct(game))
}

func TestAgentCanAct(t *testing.T) {
	_, game := startGame(t, "a", "b", "c")
	cur := game.CurrentPlayer().ID
	for _, p := range game.Players {
		a := &Agent{ID: p.ID}
		assert.Equal(t, p.ID == cur, a.CanAct(game), p.ID)
	}

	game.Round = domain.RoundCount
	game.RoundConfig, _ = domain.RoundConfigFor(domain.RoundCount)
	dealer := &Agent{ID: game.Dealer().ID}
	assert.True(t, dealer.CanAct(game), "dealer must pick the contract")
	game.DealersChoice = domain.ChoiceBooks
	assert.False(t, dealer.CanAct(game))

	game.Phase = domain.PhaseRoundEnd
	assert.False(t, (&Agent{ID: cur}).CanAct(game))
}

func TestExecute(t *testing.T) {
	svc, game := startGame(t, "a", "b")
	cur := game.CurrentPlayer().ID

	events, err := Execute(svc, game, cur, Action{Kind: ActionWait})
	require.NoError(t, err)
	assert.Nil(t, events)

	events, err = Execute(svc, game, cur, Action{Kind: ActionDeclineBuy})
	require.NoError(t, err)
	assert.NotEmpty(t, events)
	assert.Equal(t, domain.TurnDraw, game.TurnPhase)

	_, err = Execute(svc, game, cur, Action{Kind: ActionDiscard, CardID: game.CurrentPlayer().Hand[0].ID})
	assert.ErrorIs(t, err, app.ErrInvalidPhase)

	_, err = Execute(svc, game, cur, Action{Kind: "shuffle"})
	assert.Error(t, err)

	_, err = Execute(svc, game, cur, Action{Kind: ActionDrawDeck})
	require.NoError(t, err)
	assert.Equal(t, domain.TurnPlace, game.TurnPhase)
}

func TestFallbackIsAlwaysLegal(t *testing.T) {
	svc, game := startGame(t, "a", "b", "c")
	for step := 0; step < 60 && game.Phase == domain.PhasePlaying; step++ {
		id := app.Actors(game)[0]
		act := Fallback(game, id)
		require.NotEqual(t, ActionWait, act.Kind)
		_, err := Execute(svc, game, id, act)
		require.NoError(t, err, "step %d: %+v", step, act)
	}
	assert.Equal(t, ActionWait, Fallback(nil, "a").Kind)
}

package bot

import (
	"shanghai/internal/app"
	"shanghai/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Act asks the agent for its next command. Agents not seated in game wait.
func (a *Agent) Act(game *domain.GameState) (Action, error) {
	player := game.Player(a.ID)
	if player == nil {
		return Action{Kind: ActionWait}, nil
	}
	return a.Strategy.Decide(game, player)
}

// OnGameEvent feeds a game event the agent was allowed to see.
func (a *Agent) OnGameEvent(ev app.Event) {
	if len(ev.Recipients) > 0 && !containsID(ev.Recipients, a.ID) {
		return
	}
	a.Strategy.OnEvent(ev)
}

// CanAct reports whether the agent is one of the players allowed to act now.
func (a *Agent) CanAct(game *domain.GameState) bool {
	if game == nil || game.Phase != domain.PhasePlaying {
		return false
	}
	if containsID(app.Actors(game), a.ID) {
		return true
	}
	return game.Round == domain.RoundCount && game.DealersChoice == "" && game.Dealer() != nil && game.Dealer().ID == a.ID
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Fallback returns a command that is always legal for playerID when it may
// act, used when a strategy errs or stalls.
func Fallback(game *domain.GameState, playerID string) Action {
	if game == nil || game.Phase != domain.PhasePlaying {
		return Action{Kind: ActionWait}
	}
	if game.RoundConfig.DealersChoice && game.DealersChoice == "" {
		if d := game.Dealer(); d != nil && d.ID == playerID {
			return Action{Kind: ActionDealersChoice, Choice: domain.ChoiceBooks}
		}
	}
	if !containsID(app.Actors(game), playerID) {
		return Action{Kind: ActionWait}
	}
	switch game.TurnPhase {
	case domain.TurnBuy:
		return Action{Kind: ActionDeclineBuy}
	case domain.TurnDraw:
		return Action{Kind: ActionDrawDeck}
	}
	p := game.Player(playerID)
	if p == nil || len(p.Hand) == 0 {
		return Action{Kind: ActionWait}
	}
	return Action{Kind: ActionDiscard, CardID: p.Hand[0].ID}
}

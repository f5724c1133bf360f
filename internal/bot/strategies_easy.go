package bot

import (
	"shanghai/internal/app"
	"shanghai/internal/domain"
)

// EasyBot never buys, always draws from the deck, lays down whatever it can
// and throws away its highest card.
type EasyBot struct{}

func (b *EasyBot) Decide(game *domain.GameState, player *domain.Player) (Action, error) {
	if needsDealersChoice(game, player) {
		return Action{Kind: ActionDealersChoice, Choice: domain.ChoiceBooks}, nil
	}
	if game.Phase != domain.PhasePlaying {
		return Action{Kind: ActionWait}, nil
	}

	switch game.TurnPhase {
	case domain.TurnBuy:
		if asked, _ := isAsked(game, player); asked {
			return Action{Kind: ActionDeclineBuy}, nil
		}
		return Action{Kind: ActionWait}, nil
	case domain.TurnDraw:
		if game.CurrentPlayer().ID != player.ID {
			return Action{Kind: ActionWait}, nil
		}
		return Action{Kind: ActionDrawDeck}, nil
	}

	if game.CurrentPlayer().ID != player.ID || len(player.Hand) == 0 {
		return Action{Kind: ActionWait}, nil
	}
	if game.TurnPhase == domain.TurnPlace {
		if act, ok := placeOrLayOff(game, player); ok {
			return act, nil
		}
	}
	return Action{Kind: ActionDiscard, CardID: highestCard(player.Hand).ID}, nil
}

func (b *EasyBot) OnEvent(app.Event) {}

func highestCard(hand []domain.Card) domain.Card {
	best := hand[0]
	for _, c := range hand[1:] {
		if c.Points > best.Points {
			best = c
		}
	}
	return best
}

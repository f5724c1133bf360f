package bot

import (
	"fmt"

	"shanghai/internal/app"
	"shanghai/internal/domain"
)

// Execute applies action for playerID through svc. ActionWait is a no-op.
func Execute(svc *app.Service, game *domain.GameState, playerID string, action Action) ([]app.Event, error) {
	switch action.Kind {
	case ActionWait:
		return nil, nil
	case ActionTakeDiscard:
		return svc.TakeDiscard(game, playerID)
	case ActionWantToBuy:
		return svc.WantToBuy(game, playerID)
	case ActionDeclineBuy:
		return svc.DeclineBuy(game, playerID)
	case ActionDrawDeck:
		return svc.DrawFromDeck(game, playerID)
	case ActionDrawDiscard:
		return svc.DrawFromDiscard(game, playerID)
	case ActionPlaceContract:
		return svc.PlaceContract(game, playerID, action.Groups)
	case ActionAddToMeld:
		return svc.AddToMeld(game, playerID, action.TargetID, action.MeldIndex, action.CardID)
	case ActionDiscard:
		return svc.DiscardCard(game, playerID, action.CardID)
	case ActionDealersChoice:
		return svc.SetDealersChoice(game, playerID, action.Choice)
	default:
		return nil, fmt.Errorf("unknown bot action %q", action.Kind)
	}
}

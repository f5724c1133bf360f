package bot

import (
	"shanghai/internal/app"
	botinternal "shanghai/internal/bot/internal"
	"shanghai/internal/domain"
)

// contractShape returns the shape the current round asks for. ok is false in
// round seven until the dealer has chosen.
func contractShape(game *domain.GameState) (domain.ContractShape, bool) {
	if game.RoundConfig.DealersChoice {
		return game.DealersChoice.Shape()
	}
	return game.RoundConfig.Shape(), true
}

// needsDealersChoice reports whether player must pick the round-seven contract.
func needsDealersChoice(game *domain.GameState, player *domain.Player) bool {
	if game.Phase != domain.PhasePlaying || !game.RoundConfig.DealersChoice || game.DealersChoice != "" {
		return false
	}
	dealer := game.Dealer()
	return dealer != nil && dealer.ID == player.ID
}

// placeOrLayOff returns the contract placement or meld extension to make now,
// if any. It always leaves a card to discard.
func placeOrLayOff(game *domain.GameState, player *domain.Player) (Action, bool) {
	if !player.HasPlacedContract {
		shape, ok := contractShape(game)
		if !ok {
			return Action{}, false
		}
		plan, found := botinternal.FindContract(player.Hand, shape, 1)
		if !found {
			return Action{}, false
		}
		groups := make([][]string, len(plan.Groups))
		for i, g := range plan.Groups {
			for _, c := range g {
				groups[i] = append(groups[i], c.ID)
			}
		}
		return Action{Kind: ActionPlaceContract, Groups: groups}, true
	}

	if len(player.Hand) < 2 {
		return Action{}, false
	}
	for _, c := range player.Hand {
		for _, target := range game.Players {
			for i, meld := range target.PlacedCards {
				if domain.FitsMeld(meld, c) {
					return Action{Kind: ActionAddToMeld, CardID: c.ID, TargetID: target.ID, MeldIndex: i}, true
				}
			}
		}
	}
	return Action{}, false
}

// isAsked reports whether the buy window is waiting on player, and whether
// player is the next drawer holding the free take.
func isAsked(game *domain.GameState, player *domain.Player) (asked, free bool) {
	if game.BuyPhase == nil {
		return false, false
	}
	cur := game.CurrentPlayer()
	free = cur != nil && cur.ID == player.ID && !game.BuyPhase.NextPlayerHasPassed
	for _, id := range app.Actors(game) {
		if id == player.ID {
			return true, free
		}
	}
	return false, false
}

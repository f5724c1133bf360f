package wire

import (
	"fmt"

	"shanghai/internal/app"
	"shanghai/internal/domain"
)

// GameCommand applies one decoded in-game command for userID.
type GameCommand func(svc *app.Service, game *domain.GameState, userID string, decode func(any) error) ([]app.Event, error)

// GameCommands maps in-game command names to their Service calls. Lobby
// commands are handled by the transports.
var GameCommands = map[string]GameCommand{
	CmdTakeDiscard: func(svc *app.Service, game *domain.GameState, userID string, _ func(any) error) ([]app.Event, error) {
		return svc.TakeDiscard(game, userID)
	},
	CmdWantToBuy: func(svc *app.Service, game *domain.GameState, userID string, _ func(any) error) ([]app.Event, error) {
		return svc.WantToBuy(game, userID)
	},
	CmdDeclineBuy: func(svc *app.Service, game *domain.GameState, userID string, _ func(any) error) ([]app.Event, error) {
		return svc.DeclineBuy(game, userID)
	},
	CmdDrawFromDeck: func(svc *app.Service, game *domain.GameState, userID string, _ func(any) error) ([]app.Event, error) {
		return svc.DrawFromDeck(game, userID)
	},
	CmdDrawFromDiscard: func(svc *app.Service, game *domain.GameState, userID string, _ func(any) error) ([]app.Event, error) {
		return svc.DrawFromDiscard(game, userID)
	},
	CmdPlaceContract: func(svc *app.Service, game *domain.GameState, userID string, decode func(any) error) ([]app.Event, error) {
		var req PlaceContractRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		return svc.PlaceContract(game, userID, req.Groups)
	},
	CmdAddToMeld: func(svc *app.Service, game *domain.GameState, userID string, decode func(any) error) ([]app.Event, error) {
		var req AddToMeldRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		return svc.AddToMeld(game, userID, req.TargetPlayerID, req.MeldIndex, req.CardID)
	},
	CmdDiscardCard: func(svc *app.Service, game *domain.GameState, userID string, decode func(any) error) ([]app.Event, error) {
		var req CardRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		return svc.DiscardCard(game, userID, req.CardID)
	},
	CmdDealersChoice: func(svc *app.Service, game *domain.GameState, userID string, decode func(any) error) ([]app.Event, error) {
		var req DealersChoiceRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		return svc.SetDealersChoice(game, userID, req.Choice)
	},
	CmdEndGameEarly: func(svc *app.Service, game *domain.GameState, userID string, _ func(any) error) ([]app.Event, error) {
		return svc.EndGameEarly(game, userID)
	},
	CmdNextRound: func(svc *app.Service, game *domain.GameState, userID string, _ func(any) error) ([]app.Event, error) {
		return svc.NextRound(game, userID)
	},
}

// ApplyGameCommand runs the named command against game. A nil game means no
// game has started in the room yet.
func ApplyGameCommand(svc *app.Service, game *domain.GameState, op, userID string, decode func(any) error) ([]app.Event, error) {
	cmd, ok := GameCommands[op]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", ErrMalformed, op)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game not started", app.ErrInvalidPhase)
	}
	return cmd(svc, game, userID, decode)
}

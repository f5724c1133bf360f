package bot

import (
	"shanghai/internal/app"
	"shanghai/internal/domain"
)

// ActionKind names one command a bot can send.
type ActionKind string

const (
	ActionTakeDiscard   ActionKind = "take_discard"
	ActionWantToBuy     ActionKind = "want_to_buy"
	ActionDeclineBuy    ActionKind = "decline_buy"
	ActionDrawDeck      ActionKind = "draw_deck"
	ActionDrawDiscard   ActionKind = "draw_discard"
	ActionPlaceContract ActionKind = "place_contract"
	ActionAddToMeld     ActionKind = "add_to_meld"
	ActionDiscard       ActionKind = "discard"
	ActionDealersChoice ActionKind = "dealers_choice"
	ActionWait          ActionKind = "wait"
)

// Action is the decision made by a bot.
type Action struct {
	Kind      ActionKind
	CardID    string
	Groups    [][]string
	TargetID  string
	MeldIndex int
	Choice    domain.DealersChoice
}

// Brain is the interface that all bot strategies implement.
type Brain interface {
	Decide(game *domain.GameState, player *domain.Player) (Action, error)
	OnEvent(ev app.Event)
}

package app

import (
	"time"

	"shanghai/internal/domain"
)

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventGameStarted       EventKind = "game_started"
	EventTurnUpdate        EventKind = "turn_update"
	EventBuyPhaseStarted   EventKind = "buy_phase_started"
	EventBuyRequested      EventKind = "buy_requested"
	EventBuyDeclined       EventKind = "buy_declined"
	EventBuyCompleted      EventKind = "buy_completed"
	EventDiscardTaken      EventKind = "discard_taken"
	EventBuyPhaseEnded     EventKind = "buy_phase_ended"
	EventCardDrawn         EventKind = "card_drawn"
	EventContractPlaced    EventKind = "contract_placed"
	EventCardAddedToMeld   EventKind = "card_added_to_meld"
	EventCardDiscarded     EventKind = "card_discarded"
	EventDealersChoiceSet  EventKind = "dealers_choice_set"
	EventRoundEnded        EventKind = "round_ended"
	EventNextRoundStarting EventKind = "next_round_starting"
	EventGameEnded         EventKind = "game_ended"
	EventStateSnapshot     EventKind = "state_snapshot"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

// Buy window outcomes reported in BuyPhaseEndedPayload.Reason.
const (
	BuyEndTaken    = "taken"
	BuyEndBought   = "bought"
	BuyEndDeclined = "declined"
	BuyEndTimeout  = "timeout"
)

type GameStartedPayload struct {
	GameID   string              `json:"gameId"`
	Code     string              `json:"gameCode"`
	Round    int                 `json:"round"`
	DealerID string              `json:"dealerId"`
	Settings domain.GameSettings `json:"settings"`
}

type TurnUpdatePayload struct {
	CurrentPlayerID string           `json:"currentPlayerId"`
	Phase           domain.Phase     `json:"phase"`
	TurnPhase       domain.TurnPhase `json:"turnPhase"`
}

type BuyPhaseStartedPayload struct {
	Seq            uint64         `json:"seq"`
	Mode           domain.BuyMode `json:"mode"`
	Card           domain.Card    `json:"card"`
	FirstRefusalID string         `json:"firstRefusalId"`
	// AskingPlayerID is empty in simultaneous mode, where everyone may answer.
	AskingPlayerID string    `json:"askingPlayerId,omitempty"`
	TimeLimit      int       `json:"timeLimit"`
	Deadline       time.Time `json:"deadline"`
}

type BuyRequestedPayload struct {
	PlayerID string `json:"playerId"`
}

type BuyDeclinedPayload struct {
	PlayerID       string `json:"playerId"`
	NextAskedID    string `json:"nextAskedId,omitempty"`
	OpenToEveryone bool   `json:"openToEveryone"`
}

type BuyCompletedPayload struct {
	BuyerID    string      `json:"buyerId"`
	Card       domain.Card `json:"card"`
	ExtraCards int         `json:"extraCards"`
	BuysUsed   int         `json:"buysUsed"`
}

type DiscardTakenPayload struct {
	PlayerID string      `json:"playerId"`
	Card     domain.Card `json:"card"`
}

type BuyPhaseEndedPayload struct {
	Seq          uint64 `json:"seq"`
	BuyerID      string `json:"buyerId,omitempty"`
	Reason       string `json:"reason"`
	NextPlayerID string `json:"nextPlayerId"`
}

type CardDrawnPayload struct {
	PlayerID string `json:"playerId"`
	FromDeck bool   `json:"fromDeck"`
	// Card is only set for discard draws, which everyone saw.
	Card      *domain.Card `json:"card,omitempty"`
	Reshuffle bool         `json:"reshuffle,omitempty"`
}

type ContractPlacedPayload struct {
	PlayerID string          `json:"playerId"`
	Groups   [][]domain.Card `json:"groups"`
}

type CardAddedToMeldPayload struct {
	PlayerID       string      `json:"playerId"`
	TargetPlayerID string      `json:"targetPlayerId"`
	MeldIndex      int         `json:"meldIndex"`
	Card           domain.Card `json:"card"`
}

type CardDiscardedPayload struct {
	PlayerID string      `json:"playerId"`
	Card     domain.Card `json:"card"`
}

type DealersChoiceSetPayload struct {
	DealerID string               `json:"dealerId"`
	Choice   domain.DealersChoice `json:"choice"`
}

// PlayerScore is one line of a score table.
type PlayerScore struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	RoundScore int    `json:"roundScore"`
	TotalScore int    `json:"totalScore"`
	Position   int    `json:"position,omitempty"`
}

type RoundEndedPayload struct {
	Round    int           `json:"round"`
	WinnerID string        `json:"winnerId"`
	Scores   []PlayerScore `json:"scores"`
}

type NextRoundStartingPayload struct {
	Round       int                `json:"round"`
	DealerID    string             `json:"dealerId"`
	RoundConfig domain.RoundConfig `json:"roundConfig"`
}

type GameEndedPayload struct {
	FinalScores []PlayerScore `json:"finalScores"`
	EndedEarly  bool          `json:"endedEarly"`
}

type StateSnapshotPayload struct {
	View PlayerView `json:"gameState"`
}

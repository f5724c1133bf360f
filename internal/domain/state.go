package domain

import (
	"errors"
	"fmt"
	"time"
)

// Phase is the coarse lifecycle stage of a game.
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhasePlaying  Phase = "playing"
	PhaseRoundEnd Phase = "round-end"
	PhaseFinished Phase = "finished"
)

// TurnPhase is the step within the current player's turn.
type TurnPhase string

const (
	TurnBuy     TurnPhase = "buy"
	TurnDraw    TurnPhase = "draw"
	TurnPlace   TurnPhase = "place"
	TurnDiscard TurnPhase = "discard"
)

// BuyMode selects how the buy window is polled.
type BuyMode string

const (
	BuySequential   BuyMode = "sequential"
	BuySimultaneous BuyMode = "simultaneous"
)

const (
	DefaultBuyMode      = BuySequential
	DefaultBuyTimeLimit = 10
)

var ErrInvalidSettings = errors.New("invalid game settings")

// GameSettings are fixed when a game is created.
type GameSettings struct {
	BuyMode BuyMode `json:"buyMode"`
	// BuyTimeLimit is the buy window length in whole seconds.
	BuyTimeLimit int `json:"buyTimeLimit"`
}

// NormalizeSettings fills absent fields with defaults and rejects unknown modes
// and negative limits.
func NormalizeSettings(s GameSettings) (GameSettings, error) {
	switch s.BuyMode {
	case "":
		s.BuyMode = DefaultBuyMode
	case BuySequential, BuySimultaneous:
	default:
		return s, fmt.Errorf("%w: unknown buy mode %q", ErrInvalidSettings, s.BuyMode)
	}
	if s.BuyTimeLimit < 0 {
		return s, fmt.Errorf("%w: buy time limit must be positive, got %d", ErrInvalidSettings, s.BuyTimeLimit)
	}
	if s.BuyTimeLimit == 0 {
		s.BuyTimeLimit = DefaultBuyTimeLimit
	}
	return s, nil
}

// Player is one participant's per-game state.
type Player struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Hand              []Card   `json:"hand"`
	TotalScore        int      `json:"totalScore"`
	RoundScore        int      `json:"roundScore"`
	HasPlacedContract bool     `json:"hasPlacedContract"`
	PlacedCards       [][]Card `json:"placedCards"`
	BuysUsed          int      `json:"buysUsed"`
}

// BuyPhaseState tracks one buy window.
type BuyPhaseState struct {
	// Seq identifies the window so a late timer for an older window is ignored.
	Seq uint64 `json:"seq"`
	// AskedPlayerIndex is the seat whose answer is awaited in sequential mode.
	AskedPlayerIndex int `json:"askedPlayerIndex"`
	// RespondedPlayers lists answers in arrival order (simultaneous mode).
	RespondedPlayers []string  `json:"respondedPlayers"`
	StartTime        time.Time `json:"startTime"`
	Deadline         time.Time `json:"deadline"`
	// NextPlayerHasPassed opens the window to everyone beyond the adjacent seat.
	NextPlayerHasPassed bool `json:"nextPlayerHasPassed"`
}

// GameState is the aggregate root of one game.
//
// While TurnPhase is TurnBuy, CurrentPlayerIndex points at the player who draws
// next. That player holds free first refusal on the discard and the previous
// player, who just discarded, sits out the window.
type GameState struct {
	ID                 string         `json:"id"`
	Code               string         `json:"gameCode"`
	HostID             string         `json:"hostId"`
	Players            []*Player      `json:"players"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Round              int            `json:"round"`
	DealerIndex        int            `json:"dealerIndex"`
	Deck               []Card         `json:"-"`
	DiscardPile        []Card         `json:"discardPile"`
	Phase              Phase          `json:"phase"`
	TurnPhase          TurnPhase      `json:"turnPhase"`
	RoundConfig        RoundConfig    `json:"roundConfig"`
	DealersChoice      DealersChoice  `json:"dealersChoice,omitempty"`
	Settings           GameSettings   `json:"settings"`
	BuyPhase           *BuyPhaseState `json:"buyPhase,omitempty"`
	DiscardIsDead      bool           `json:"discardIsDead"`
	// RoundWinnerID is set when a round ends by a player going out.
	RoundWinnerID string `json:"roundWinnerId,omitempty"`
	// EndedEarly records termination by the host.
	EndedEarly bool `json:"endedEarly,omitempty"`
	// BuySeq is the sequence number handed to the next buy window.
	BuySeq uint64 `json:"-"`
}

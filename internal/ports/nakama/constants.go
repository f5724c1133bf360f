package nakama

import (
	"shanghai/internal/app"
	"shanghai/internal/wire"
)

// RPC ids registered with Nakama.
const (
	RpcCreateRoom = "create_room"
	RpcJoinRoom   = "join_room"
	RpcQuickMatch = "quick_match"
	RpcVoiceToken = "voice_token"

	// MatchNameShanghai is the authoritative match handler name registered with Nakama.
	MatchNameShanghai = "shanghai_match"
)

// Match label keys.
const (
	MatchLabelKey_OpenSeats = "open"
	MatchLabelKey_Code      = "code"
	MatchLabelKey_Phase     = "phase"
	MatchLabelKey_Game      = "game"
)

// Op codes for client messages.
const (
	OpStartGame        int64 = 1
	OpTakeDiscard      int64 = 2
	OpWantToBuy        int64 = 3
	OpDeclineBuy       int64 = 4
	OpDrawFromDeck     int64 = 5
	OpDrawFromDiscard  int64 = 6
	OpPlaceContract    int64 = 7
	OpAddToMeld        int64 = 8
	OpDiscardCard      int64 = 9
	OpSetDealersChoice int64 = 10
	OpEndGameEarly     int64 = 11
	OpNextRound        int64 = 12
	OpRename           int64 = 13
	OpKickPlayer       int64 = 14
)

// Op codes for server messages.
const (
	OpLobbyState        int64 = 100
	OpGameStarted       int64 = 101
	OpTurnUpdate        int64 = 102
	OpBuyPhaseStarted   int64 = 103
	OpBuyRequested      int64 = 104
	OpBuyDeclined       int64 = 105
	OpBuyCompleted      int64 = 106
	OpDiscardTaken      int64 = 107
	OpBuyPhaseEnded     int64 = 108
	OpCardDrawn         int64 = 109
	OpContractPlaced    int64 = 110
	OpCardAddedToMeld   int64 = 111
	OpCardDiscarded     int64 = 112
	OpDealersChoiceSet  int64 = 113
	OpRoundEnded        int64 = 114
	OpNextRoundStarting int64 = 115
	OpGameEnded         int64 = 116
	OpStateSnapshot     int64 = 117
	OpLobbyClosed       int64 = 118
	OpGameError         int64 = 199
)

var eventOpCodes = map[app.EventKind]int64{
	app.EventGameStarted:       OpGameStarted,
	app.EventTurnUpdate:        OpTurnUpdate,
	app.EventBuyPhaseStarted:   OpBuyPhaseStarted,
	app.EventBuyRequested:      OpBuyRequested,
	app.EventBuyDeclined:       OpBuyDeclined,
	app.EventBuyCompleted:      OpBuyCompleted,
	app.EventDiscardTaken:      OpDiscardTaken,
	app.EventBuyPhaseEnded:     OpBuyPhaseEnded,
	app.EventCardDrawn:         OpCardDrawn,
	app.EventContractPlaced:    OpContractPlaced,
	app.EventCardAddedToMeld:   OpCardAddedToMeld,
	app.EventCardDiscarded:     OpCardDiscarded,
	app.EventDealersChoiceSet:  OpDealersChoiceSet,
	app.EventRoundEnded:        OpRoundEnded,
	app.EventNextRoundStarting: OpNextRoundStarting,
	app.EventGameEnded:         OpGameEnded,
	app.EventStateSnapshot:     OpStateSnapshot,
}

// opCommands maps in-game client opcodes to wire command names.
var opCommands = map[int64]string{
	OpTakeDiscard:      wire.CmdTakeDiscard,
	OpWantToBuy:        wire.CmdWantToBuy,
	OpDeclineBuy:       wire.CmdDeclineBuy,
	OpDrawFromDeck:     wire.CmdDrawFromDeck,
	OpDrawFromDiscard:  wire.CmdDrawFromDiscard,
	OpPlaceContract:    wire.CmdPlaceContract,
	OpAddToMeld:        wire.CmdAddToMeld,
	OpDiscardCard:      wire.CmdDiscardCard,
	OpSetDealersChoice: wire.CmdDealersChoice,
	OpEndGameEarly:     wire.CmdEndGameEarly,
	OpNextRound:        wire.CmdNextRound,
}

package wire

import (
	"shanghai/internal/domain"
	"shanghai/internal/lobby"
)

// Client command names. The websocket transport receives them in the "op"
// field; the Nakama transport maps each to an opcode.
const (
	CmdCreateLobby     = "create-lobby"
	CmdJoinLobby       = "join-lobby"
	CmdLeaveLobby      = "leave-lobby"
	CmdKickPlayer      = "kick-player"
	CmdDisbandLobby    = "disband-lobby"
	CmdRename          = "rename"
	CmdStartGame       = "start-game"
	CmdWantToBuy       = "want-to-buy"
	CmdDeclineBuy      = "decline-buy"
	CmdTakeDiscard     = "take-discard"
	CmdDrawFromDeck    = "draw-from-deck"
	CmdDrawFromDiscard = "draw-from-discard"
	CmdPlaceContract   = "place-contract"
	CmdAddToMeld       = "add-to-meld"
	CmdDiscardCard     = "discard-card"
	CmdDealersChoice   = "set-dealers-choice"
	CmdEndGameEarly    = "end-game-early"
	CmdNextRound       = "next-round"
)

// Server-only frame types. Game events use their app.EventKind as type.
const (
	TypeLobbyState  = "lobby_state"
	TypeLobbyClosed = "lobby_closed"
	TypeError       = "error"
)

type CreateLobbyRequest struct {
	Name string `json:"name"`
}

type JoinLobbyRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type KickRequest struct {
	PlayerID string `json:"playerId"`
}

type RenameRequest struct {
	Name string `json:"name"`
}

type StartGameRequest struct {
	Settings domain.GameSettings `json:"settings"`
}

type CardRequest struct {
	CardID string `json:"cardId"`
}

type PlaceContractRequest struct {
	Groups [][]string `json:"groups"`
}

type AddToMeldRequest struct {
	TargetPlayerID string `json:"targetPlayerId"`
	MeldIndex      int    `json:"meldIndex"`
	CardID         string `json:"cardId"`
}

type DealersChoiceRequest struct {
	Choice domain.DealersChoice `json:"choice"`
}

// ErrorPayload is the private rejection sent to the actor of a failed command.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LobbyMember is one seat in a lobby_state frame.
type LobbyMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
	IsBot  bool   `json:"isBot,omitempty"`
}

// LobbyState describes a room before and between games.
type LobbyState struct {
	Code    string        `json:"code"`
	HostID  string        `json:"hostId"`
	Members []LobbyMember `json:"members"`
	InGame  bool          `json:"inGame"`
}

// LobbyStateOf describes l for a lobby_state frame.
func LobbyStateOf(l lobby.Lobby) LobbyState {
	ls := LobbyState{Code: l.Code, HostID: l.HostID, InGame: l.InGame, Members: make([]LobbyMember, 0, len(l.Members))}
	for _, m := range l.Members {
		ls.Members = append(ls.Members, LobbyMember{ID: m.ID, Name: m.Name, IsHost: m.ID == l.HostID, IsBot: m.Bot})
	}
	return ls
}

package nakama

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"shanghai/internal/domain"
	"shanghai/internal/lobby"

	"github.com/heroiclabs/nakama-common/runtime"
)

const roomCodeAttempts = 5

// CreateRoomRequest optionally overrides the buy window settings of a new room.
type CreateRoomRequest struct {
	BuyMode      domain.BuyMode `json:"buyMode,omitempty"`
	BuyTimeLimit int            `json:"buyTimeLimit,omitempty"`
}

// JoinRoomRequest looks a room up by its shareable code.
type JoinRoomRequest struct {
	Code string `json:"code"`
}

// RoomResponse tells the client which match to join.
type RoomResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code"`
}

// rpcCreateRoom creates a private room with a fresh code. The caller becomes
// host when they join the returned match.
func rpcCreateRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req CreateRoomRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	settings, err := domain.NormalizeSettings(domain.GameSettings{BuyMode: req.BuyMode, BuyTimeLimit: req.BuyTimeLimit})
	if err != nil {
		return "", runtime.NewError(err.Error(), errCodeInvalidArgument)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var code string
	for i := 0; i < roomCodeAttempts && code == ""; i++ {
		candidate := lobby.NewCode(rng)
		existing, err := findRoom(ctx, nk, candidate)
		if err != nil {
			logger.Error("CreateRoom [User:%s]: Failed to list matches: %v", userID, err)
			return "", err
		}
		if existing == "" {
			code = candidate
		}
	}
	if code == "" {
		return "", runtime.NewError("could not allocate a room code", errCodeInternal)
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameShanghai, map[string]interface{}{
		"code":           code,
		"buy_mode":       string(settings.BuyMode),
		"buy_time_limit": settings.BuyTimeLimit,
	})
	if err != nil {
		logger.Error("CreateRoom [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	logger.Info("CreateRoom [User:%s]: Created room %s (match %s)", userID, code, matchID)
	return encodeResponse(RoomResponse{MatchID: matchID, Code: code})
}

// rpcJoinRoom resolves a room code to its match id.
func rpcJoinRoom(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	var req JoinRoomRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return "", runtime.NewError("room code is required", errCodeInvalidArgument)
	}

	matchID, err := findRoom(ctx, nk, code)
	if err != nil {
		logger.Error("JoinRoom [User:%s]: Failed to list matches: %v", userID, err)
		return "", err
	}
	if matchID == "" {
		return "", runtime.NewError(fmt.Sprintf("room %s not found", code), errCodeNotFound)
	}

	logger.Debug("JoinRoom [User:%s]: Room %s is match %s", userID, code, matchID)
	return encodeResponse(RoomResponse{MatchID: matchID, Code: code})
}

// findRoom returns the id of the live match labelled with code, or "".
func findRoom(ctx context.Context, nk runtime.NakamaModule, code string) (string, error) {
	query := fmt.Sprintf("+label.%s:%s", MatchLabelKey_Code, code)
	matches, err := nk.MatchList(ctx, 1, true, "", nil, nil, query)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	return matches[0].MatchId, nil
}

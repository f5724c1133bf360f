package nakama

import (
	"context"
	"database/sql"
	"errors"

	"shanghai/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// vivoxService is set by InitModule when voice credentials are configured.
var vivoxService *app.VivoxService

// VoiceTokenRequest asks for a login token, or a join token for a room's channel.
type VoiceTokenRequest struct {
	Action string `json:"action"`
	Code   string `json:"code,omitempty"`
}

// VoiceTokenResponse carries a signed token and, for joins, the channel name.
type VoiceTokenResponse struct {
	Token   string `json:"token"`
	Channel string `json:"channel,omitempty"`
}

// RpcGetVivoxToken signs a Vivox access token for the caller.
func RpcGetVivoxToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	if !vivoxService.Enabled() {
		return "", runtime.NewError(app.ErrVoiceNotConfigured.Error(), errCodeFailedPrecondition)
	}
	var req VoiceTokenRequest
	if err := decodePayload(payload, &req); err != nil {
		return "", err
	}

	var resp VoiceTokenResponse
	switch req.Action {
	case "", app.VoiceActionLogin:
		resp.Token, err = vivoxService.LoginToken(userID)
	case app.VoiceActionJoin:
		resp.Token, err = vivoxService.JoinToken(userID, req.Code)
		resp.Channel = app.RoomChannel(req.Code)
	default:
		return "", runtime.NewError("unknown voice action "+req.Action, errCodeInvalidArgument)
	}
	if errors.Is(err, app.ErrNotFound) {
		return "", runtime.NewError(err.Error(), errCodeInvalidArgument)
	}
	if err != nil {
		logger.Error("VoiceToken [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to sign voice token", errCodeInternal)
	}
	return encodeResponse(resp)
}

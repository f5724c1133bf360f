package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Nakama runtime error codes (gRPC status codes).
const (
	errCodeInvalidArgument    = 3
	errCodeNotFound           = 5
	errCodeFailedPrecondition = 9
	errCodeInternal           = 13
	errCodeUnauthenticated    = 16
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateRoom: rpcCreateRoom,
		RpcJoinRoom:   rpcJoinRoom,
		RpcQuickMatch: rpcQuickMatch,
		RpcVoiceToken: RpcGetVivoxToken,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("register rpc %s: %w", id, err)
		}
	}
	return nil
}

func callerID(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("user is not authenticated", errCodeUnauthenticated)
	}
	return userID, nil
}

// decodePayload unmarshals an optional JSON payload into into.
func decodePayload(payload string, into any) error {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), into); err != nil {
		return runtime.NewError("invalid payload", errCodeInvalidArgument)
	}
	return nil
}

func encodeResponse(resp any) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("failed to encode response", errCodeInternal)
	}
	return string(b), nil
}

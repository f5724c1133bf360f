package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"shanghai/internal/app"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/runtime"
)

func TestRpcGetVivoxToken_GeneratesValidClaims(t *testing.T) {
	t.Cleanup(func() { vivoxService = nil })

	vivoxService = app.NewVivoxService("test-secret", "issuer", "example.com", time.Minute)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user123")
	payload := `{"action":"login"}`

	// 1. Generate Token 1
	raw1, err := RpcGetVivoxToken(ctx, noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("RpcGetVivoxToken error: %v", err)
	}
	resp1 := parseTokenResponse(t, raw1)

	// 2. Generate Token 2 (to check uniqueness)
	raw2, err := RpcGetVivoxToken(ctx, noopLogger{}, nil, nil, "")
	if err != nil {
		t.Fatalf("RpcGetVivoxToken error: %v", err)
	}
	resp2 := parseTokenResponse(t, raw2)

	// 3. Validate Claims
	claims1 := parseVivoxClaims(t, resp1.Token, "test-secret")
	claims2 := parseVivoxClaims(t, resp2.Token, "test-secret")

	assertClaim(t, claims1, "iss", "issuer")
	assertClaim(t, claims1, "sub", "user123")
	assertClaim(t, claims1, "vxa", app.VoiceActionLogin)
	assertClaim(t, claims1, "f", "sip:.issuer.user123.@example.com")

	if claims1["vxi"] == claims2["vxi"] {
		t.Errorf("vxi claim must be unique per token. Got %v for both.", claims1["vxi"])
	}
	if resp1.Channel != "" {
		t.Errorf("login tokens carry no channel, got %q", resp1.Channel)
	}
}

func TestRpcGetVivoxToken_JoinRoomChannel(t *testing.T) {
	t.Cleanup(func() { vivoxService = nil })
	vivoxService = app.NewVivoxService("test-secret", "issuer", "example.com", time.Minute)

	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user123")
	raw, err := RpcGetVivoxToken(ctx, noopLogger{}, nil, nil, `{"action":"join","code":"abc123"}`)
	if err != nil {
		t.Fatalf("RpcGetVivoxToken error: %v", err)
	}
	resp := parseTokenResponse(t, raw)
	if resp.Channel != app.RoomChannel("abc123") {
		t.Fatalf("channel = %q, want %q", resp.Channel, app.RoomChannel("abc123"))
	}
	claims := parseVivoxClaims(t, resp.Token, "test-secret")
	assertClaim(t, claims, "vxa", app.VoiceActionJoin)
	assertClaim(t, claims, "t", "sip:confctl-g-shanghai-abc123@example.com")

	if _, err := RpcGetVivoxToken(ctx, noopLogger{}, nil, nil, `{"action":"join"}`); err == nil {
		t.Fatal("expected join without a room code to fail")
	}
}

func TestRpcGetVivoxToken_Errors(t *testing.T) {
	t.Cleanup(func() { vivoxService = nil })
	authed := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "user123")

	vivoxService = nil
	if _, err := RpcGetVivoxToken(authed, noopLogger{}, nil, nil, ""); !hasCode(err, errCodeFailedPrecondition) {
		t.Fatalf("expected failed precondition when voice is not configured, got %v", err)
	}

	vivoxService = app.NewVivoxService("test-secret", "issuer", "example.com", time.Minute)
	if _, err := RpcGetVivoxToken(context.Background(), noopLogger{}, nil, nil, ""); !hasCode(err, errCodeUnauthenticated) {
		t.Fatalf("expected unauthenticated without a user, got %v", err)
	}
	if _, err := RpcGetVivoxToken(authed, noopLogger{}, nil, nil, `{"action":"shout"}`); !hasCode(err, errCodeInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown action, got %v", err)
	}
	if _, err := RpcGetVivoxToken(authed, noopLogger{}, nil, nil, `{not json`); !hasCode(err, errCodeInvalidArgument) {
		t.Fatalf("expected invalid argument for bad payload, got %v", err)
	}
}

func hasCode(err error, code int) bool {
	rtErr, ok := err.(*runtime.Error)
	return ok && rtErr.Code == code
}

func parseTokenResponse(t *testing.T, jsonRaw string) VoiceTokenResponse {
	t.Helper()
	var resp VoiceTokenResponse
	if err := json.Unmarshal([]byte(jsonRaw), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected token in response")
	}
	return resp
}

func parseVivoxClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func assertClaim(t *testing.T, claims jwt.MapClaims, key, expected string) {
	t.Helper()
	val, ok := claims[key]
	if !ok {
		t.Errorf("missing claim: %s", key)
		return
	}
	str, ok := val.(string)
	if !ok {
		t.Errorf("claim %s is not a string: %v", key, val)
		return
	}
	if str != expected {
		t.Errorf("claim %s = %s, want %s", key, str, expected)
	}
}

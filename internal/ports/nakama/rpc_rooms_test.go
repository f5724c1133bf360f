package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"shanghai/internal/wire"

	"github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// fakeNakama overrides the handful of NakamaModule calls the RPCs use.
type fakeNakama struct {
	runtime.NakamaModule

	matches  []*api.Match
	queries  []string
	created  []map[string]interface{}
	users    []*api.User
	updated  map[string]string
	listErr  error
	createID string
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.queries = append(f.queries, query)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*api.Match
	for _, m := range f.matches {
		l, err := wire.UnmarshalLabel(m.GetLabel().GetValue())
		if err != nil {
			continue
		}
		if strings.Contains(query, "label.code:") && !strings.HasSuffix(query, ":"+l.Code) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = append(f.created, params)
	return f.createID, nil
}

func (f *fakeNakama) UsersGetId(ctx context.Context, userIDs []string, facebookIDs []string) ([]*api.User, error) {
	return f.users, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	f.updated[userID] = displayName
	return nil
}

func labelledMatch(t *testing.T, id string, label wire.MatchLabel) *api.Match {
	t.Helper()
	raw, err := wire.MarshalLabel(label)
	if err != nil {
		t.Fatalf("MarshalLabel: %v", err)
	}
	return &api.Match{MatchId: id, Authoritative: true, Label: wrapperspb.String(raw), Size: 1}
}

func authed(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

func TestRpcCreateRoom(t *testing.T) {
	nk := &fakeNakama{createID: "match-1"}
	raw, err := rpcCreateRoom(authed("alice"), noopLogger{}, nil, nk, `{"buyMode":"simultaneous","buyTimeLimit":12}`)
	if err != nil {
		t.Fatalf("rpcCreateRoom: %v", err)
	}
	var resp RoomResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.MatchID != "match-1" || len(resp.Code) != 6 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(nk.created) != 1 {
		t.Fatalf("expected one match created, got %d", len(nk.created))
	}
	params := nk.created[0]
	if params["code"] != resp.Code || params["buy_mode"] != "simultaneous" || params["buy_time_limit"] != 12 {
		t.Fatalf("unexpected match params %+v", params)
	}
	if len(nk.queries) != 1 || nk.queries[0] != "+label.code:"+resp.Code {
		t.Fatalf("expected a uniqueness check on the code, got %v", nk.queries)
	}
}

func TestRpcCreateRoom_Errors(t *testing.T) {
	nk := &fakeNakama{createID: "match-1"}
	if _, err := rpcCreateRoom(context.Background(), noopLogger{}, nil, nk, ""); !hasCode(err, errCodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := rpcCreateRoom(authed("alice"), noopLogger{}, nil, nk, `{"buyMode":"auction"}`); !hasCode(err, errCodeInvalidArgument) {
		t.Fatalf("expected invalid argument for unknown buy mode, got %v", err)
	}

	nk.listErr = errors.New("db down")
	if _, err := rpcCreateRoom(authed("alice"), noopLogger{}, nil, nk, ""); err == nil {
		t.Fatal("expected list failure to propagate")
	}
	if len(nk.created) != 0 {
		t.Fatalf("no match should be created on failure")
	}
}

func TestRpcJoinRoom(t *testing.T) {
	nk := &fakeNakama{matches: []*api.Match{
		labelledMatch(t, "match-a", wire.MatchLabel{Open: 5, Game: wire.LabelGame, Phase: "lobby", Code: "AAAAAA"}),
		labelledMatch(t, "match-b", wire.MatchLabel{Open: 4, Game: wire.LabelGame, Phase: "lobby", Code: "BBBBBB"}),
	}}

	raw, err := rpcJoinRoom(authed("bob"), noopLogger{}, nil, nk, `{"code":" bbbbbb "}`)
	if err != nil {
		t.Fatalf("rpcJoinRoom: %v", err)
	}
	var resp RoomResponse
	_ = json.Unmarshal([]byte(raw), &resp)
	if resp.MatchID != "match-b" || resp.Code != "BBBBBB" {
		t.Fatalf("unexpected response %+v", resp)
	}

	if _, err := rpcJoinRoom(authed("bob"), noopLogger{}, nil, nk, `{"code":"ZZZZZZ"}`); !hasCode(err, errCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := rpcJoinRoom(authed("bob"), noopLogger{}, nil, nk, `{}`); !hasCode(err, errCodeInvalidArgument) {
		t.Fatalf("expected invalid argument for empty code, got %v", err)
	}
}

func TestRpcQuickMatch(t *testing.T) {
	t.Run("JoinsOpenLobby", func(t *testing.T) {
		nk := &fakeNakama{matches: []*api.Match{
			labelledMatch(t, "match-a", wire.MatchLabel{Open: 3, Game: wire.LabelGame, Phase: "lobby", Code: "QQQQQQ"}),
		}}
		raw, err := rpcQuickMatch(authed("carol"), noopLogger{}, nil, nk, "")
		if err != nil {
			t.Fatalf("rpcQuickMatch: %v", err)
		}
		var resp QuickMatchResponse
		_ = json.Unmarshal([]byte(raw), &resp)
		if resp.MatchID != "match-a" || resp.Code != "QQQQQQ" || resp.IsNew {
			t.Fatalf("unexpected response %+v", resp)
		}
		want := "+label.open:>=1 +label.game:shanghai +label.phase:lobby"
		if nk.queries[0] != want {
			t.Fatalf("query = %q, want %q", nk.queries[0], want)
		}
	})

	t.Run("CreatesWhenNoneOpen", func(t *testing.T) {
		nk := &fakeNakama{createID: "match-new"}
		raw, err := rpcQuickMatch(authed("carol"), noopLogger{}, nil, nk, "")
		if err != nil {
			t.Fatalf("rpcQuickMatch: %v", err)
		}
		var resp QuickMatchResponse
		_ = json.Unmarshal([]byte(raw), &resp)
		if resp.MatchID != "match-new" || !resp.IsNew {
			t.Fatalf("unexpected response %+v", resp)
		}
	})
}

func TestAccountAdapter_DisplayNames(t *testing.T) {
	nk := &fakeNakama{users: []*api.User{
		{Id: "u1", Username: "user_one", DisplayName: "One"},
		{Id: "u2", Username: "user_two"},
	}}
	names, err := NewNakamaAccountAdapter(nk).DisplayNames(context.Background(), []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("DisplayNames: %v", err)
	}
	if names["u1"] != "One" || names["u2"] != "user_two" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestAfterAuthenticateDevice_OnboardsNewAccounts(t *testing.T) {
	nk := &fakeNakama{}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "user-9", "usn": "device"})
	signed, err := token.SignedString([]byte("server-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if err := AfterAuthenticateDevice(context.Background(), noopLogger{}, nil, nk, &api.Session{Token: signed}, nil); err != nil {
		t.Fatalf("existing account: %v", err)
	}
	if len(nk.updated) != 0 {
		t.Fatalf("existing accounts must not be renamed")
	}

	if err := AfterAuthenticateDevice(context.Background(), noopLogger{}, nil, nk, &api.Session{Token: signed, Created: true}, nil); err != nil {
		t.Fatalf("new account: %v", err)
	}
	if nk.updated["user-9"] == "" {
		t.Fatalf("expected display name for user-9, got %v", nk.updated)
	}
}

func TestExtractUserIDFromToken(t *testing.T) {
	if _, err := extractUserIDFromToken("not-a-token"); err == nil {
		t.Fatal("expected malformed token to fail")
	}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"usn": "x"}).SignedString([]byte("k"))
	if _, err := extractUserIDFromToken(signed); err == nil {
		t.Fatal("expected token without uid to fail")
	}
}

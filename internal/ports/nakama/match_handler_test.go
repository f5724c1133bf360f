package nakama

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"shanghai/internal/app"
	"shanghai/internal/bot"
	"shanghai/internal/config"
	"shanghai/internal/domain"
	"shanghai/internal/lobby"
	"shanghai/internal/wire"

	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []string
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	messages     []sentMessage
	labels       []string
	kicked       []string
	labelUpdates int
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	msg := sentMessage{opCode: opCode, data: append([]byte(nil), data...)}
	for _, p := range presences {
		msg.recipients = append(msg.recipients, p.GetUserId())
	}
	md.messages = append(md.messages, msg)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return md.BroadcastMessage(opCode, data, presences, sender, reliable)
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	for _, p := range presences {
		md.kicked = append(md.kicked, p.GetUserId())
	}
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.labels = append(md.labels, label)
	return nil
}

func (md *mockDispatcher) withOp(opCode int64) []sentMessage {
	var out []sentMessage
	for _, m := range md.messages {
		if m.opCode == opCode {
			out = append(out, m)
		}
	}
	return out
}

func (md *mockDispatcher) reset() {
	md.messages = nil
	md.labels = nil
	md.labelUpdates = 0
}

type fakePresence struct {
	userID   string
	username string
}

func (p fakePresence) GetHidden() bool                   { return false }
func (p fakePresence) GetPersistence() bool              { return false }
func (p fakePresence) GetUsername() string               { return p.username }
func (p fakePresence) GetStatus() string                 { return "" }
func (p fakePresence) GetReason() runtime.PresenceReason { return runtime.PresenceReasonUnknown }
func (p fakePresence) GetUserId() string                 { return p.userID }
func (p fakePresence) GetSessionId() string              { return "session-" + p.userID }
func (p fakePresence) GetNodeId() string                 { return "node-1" }

type fakeMatchData struct {
	fakePresence
	opCode int64
	data   []byte
}

func (d fakeMatchData) GetOpCode() int64      { return d.opCode }
func (d fakeMatchData) GetData() []byte       { return d.data }
func (d fakeMatchData) GetReliable() bool     { return true }
func (d fakeMatchData) GetReceiveTime() int64 { return 0 }

func init() {
	if err := bot.LoadIdentities("testdata/bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

func presence(id string) runtime.Presence {
	return fakePresence{userID: id, username: id + "_name"}
}

func command(t *testing.T, userID string, opCode int64, payload any) runtime.MatchData {
	t.Helper()
	var data []byte
	if payload != nil {
		s, err := wire.ToStruct(payload)
		if err != nil {
			t.Fatalf("ToStruct: %v", err)
		}
		if data, err = proto.Marshal(s); err != nil {
			t.Fatalf("proto.Marshal: %v", err)
		}
	}
	return fakeMatchData{fakePresence: fakePresence{userID: userID}, opCode: opCode, data: data}
}

func decodeFrame(t *testing.T, msg sentMessage, into any) wire.Frame {
	t.Helper()
	f, err := wire.DecodeFrame(msg.data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if into != nil {
		if err := json.Unmarshal(f.Data, into); err != nil {
			t.Fatalf("unmarshal %s: %v", f.Type, err)
		}
	}
	return f
}

// newRoom returns an initialised room with bots disabled and humans joined.
func newRoom(t *testing.T, humans ...string) (*matchHandler, *MatchState, *mockDispatcher) {
	t.Helper()
	mh := newMatchHandler()
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, map[string]string{"shanghai_bots_enabled": "false"})
	raw, tickRate, label := mh.MatchInit(ctx, noopLogger{}, nil, nil, map[string]interface{}{"code": "ROOM01"})
	if tickRate != 1 || label == "" {
		t.Fatalf("MatchInit returned tickRate=%d label=%q", tickRate, label)
	}
	state := raw.(*MatchState)
	dispatcher := &mockDispatcher{}
	for _, id := range humans {
		mh.MatchJoin(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{presence(id)})
	}
	return mh, state, dispatcher
}

func loop(mh *matchHandler, state *MatchState, dispatcher *mockDispatcher, tick int64, msgs ...runtime.MatchData) interface{} {
	return mh.MatchLoop(context.Background(), noopLogger{}, nil, nil, dispatcher, tick, state, msgs)
}

func TestMatchInit_ParamsAndEnv(t *testing.T) {
	mh := newMatchHandler()
	env := map[string]string{
		"shanghai_bots_enabled":        "false",
		"shanghai_bot_min_delay_sec":   "3",
		"shanghai_bot_max_delay_sec":   "1",
		"shanghai_round_end_delay_sec": "7",
	}
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_ENV, env)
	params := map[string]interface{}{"code": "ABC123", "buy_mode": "simultaneous", "buy_time_limit": float64(5)}

	raw, _, label := mh.MatchInit(ctx, noopLogger{}, nil, nil, params)
	state := raw.(*MatchState)

	if state.Code != "ABC123" {
		t.Fatalf("Code = %q, want ABC123", state.Code)
	}
	if state.Settings.BuyMode != domain.BuySimultaneous || state.Settings.BuyTimeLimit != 5 {
		t.Fatalf("Settings = %+v", state.Settings)
	}
	if state.BotsEnabled {
		t.Fatalf("expected bots disabled by env")
	}
	if state.BotMinDelay != 3 || state.BotMaxDelay != 3 {
		t.Fatalf("bot delays = %d..%d, want 3..3", state.BotMinDelay, state.BotMaxDelay)
	}
	if state.RoundEndDelay != 7 {
		t.Fatalf("RoundEndDelay = %d, want 7", state.RoundEndDelay)
	}

	parsed, err := wire.UnmarshalLabel(label)
	if err != nil {
		t.Fatalf("UnmarshalLabel: %v", err)
	}
	want := wire.MatchLabel{Open: domain.MaxPlayers, Game: wire.LabelGame, Phase: "lobby", Code: "ABC123"}
	if parsed != want {
		t.Fatalf("label = %+v, want %+v", parsed, want)
	}
}

func TestMatchInit_InvalidBuyModeFallsBack(t *testing.T) {
	mh := newMatchHandler()
	raw, _, _ := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{"buy_mode": "auction"})
	state := raw.(*MatchState)
	if state.Settings.BuyMode != config.GetGameConfig().Settings().BuyMode {
		t.Fatalf("BuyMode = %q, want configured default", state.Settings.BuyMode)
	}
	if len(state.Code) != 6 {
		t.Fatalf("expected a generated room code, got %q", state.Code)
	}
}

func TestMatchJoin_FirstJoinerHosts(t *testing.T) {
	_, state, dispatcher := newRoom(t, "alice", "bob")

	if state.Lobby == nil || state.Lobby.HostID != "alice" {
		t.Fatalf("expected alice to host, got %+v", state.Lobby)
	}
	if len(state.Lobby.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(state.Lobby.Members))
	}

	msgs := dispatcher.withOp(OpLobbyState)
	if len(msgs) == 0 {
		t.Fatalf("expected lobby state broadcast")
	}
	var ls wire.LobbyState
	f := decodeFrame(t, msgs[len(msgs)-1], &ls)
	if f.Type != wire.TypeLobbyState || len(ls.Members) != 2 || !ls.Members[0].IsHost || ls.Members[1].Name != "bob_name" {
		t.Fatalf("unexpected lobby state %+v", ls)
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatalf("expected label update")
	}
	label, _ := wire.UnmarshalLabel(dispatcher.labels[len(dispatcher.labels)-1])
	if label.Open != domain.MaxPlayers-2 {
		t.Fatalf("open seats = %d, want %d", label.Open, domain.MaxPlayers-2)
	}
}

func TestMatchJoinAttempt(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice", "bob")
	ctx := context.Background()

	if _, ok, _ := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 0, state, presence("carol"), nil); !ok {
		t.Fatalf("expected carol to be admitted to the lobby")
	}

	loop(mh, state, dispatcher, 1, command(t, "alice", OpStartGame, nil))
	if !state.GameRunning() {
		t.Fatalf("expected game to be running")
	}

	if _, ok, reason := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, presence("carol"), nil); ok || reason == "" {
		t.Fatalf("expected stranger to be rejected mid-game")
	}
	if _, ok, _ := mh.MatchJoinAttempt(ctx, noopLogger{}, nil, nil, dispatcher, 1, state, presence("bob"), nil); !ok {
		t.Fatalf("expected seated player to reconnect")
	}
}

func TestMatchJoin_ReplacesBotWhenFull(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice")
	for i := 0; len(state.Lobby.Members) < domain.MaxPlayers; i++ {
		id := bot.GetBotIdentity(i).UserID
		if state.Lobby.Has(id) {
			id = id + "-extra"
		}
		if err := state.Lobby.Add(lobby.Member{ID: id, Name: id, Bot: true}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if _, ok, _ := mh.MatchJoinAttempt(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, presence("dave"), nil); !ok {
		t.Fatalf("expected human to be admitted over a bot")
	}
	mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 0, state, []runtime.Presence{presence("dave")})

	if !state.Lobby.Has("dave") || len(state.Lobby.Members) != domain.MaxPlayers {
		t.Fatalf("expected dave seated in a full lobby, members=%+v", state.Lobby.Members)
	}
}

func TestStartGame_HostOnly(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice", "bob")
	dispatcher.reset()

	loop(mh, state, dispatcher, 1, command(t, "bob", OpStartGame, nil))
	if state.Game != nil {
		t.Fatalf("non-host must not start the game")
	}
	errs := dispatcher.withOp(OpGameError)
	if len(errs) != 1 || len(errs[0].recipients) != 1 || errs[0].recipients[0] != "bob" {
		t.Fatalf("expected one private error for bob, got %+v", errs)
	}
	var payload wire.ErrorPayload
	decodeFrame(t, errs[0], &payload)
	if payload.Code != 403 {
		t.Fatalf("error code = %d, want 403", payload.Code)
	}

	loop(mh, state, dispatcher, 2, command(t, "alice", OpStartGame, wire.StartGameRequest{Settings: domain.GameSettings{BuyTimeLimit: 15}}))
	if state.Game == nil || state.Game.Settings.BuyTimeLimit != 15 {
		t.Fatalf("expected game with 15s buy window, got %+v", state.Game)
	}
	if len(dispatcher.withOp(OpGameStarted)) != 1 || len(dispatcher.withOp(OpBuyPhaseStarted)) != 1 {
		t.Fatalf("expected game started and buy phase broadcasts")
	}
	for _, snap := range dispatcher.withOp(OpStateSnapshot) {
		if len(snap.recipients) != 1 {
			t.Fatalf("snapshot must be private, got recipients %v", snap.recipients)
		}
	}
	if !state.Lobby.InGame {
		t.Fatalf("expected lobby to be marked in game")
	}
}

func TestGameCommands_DeclineThenDraw(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice", "bob")
	loop(mh, state, dispatcher, 1, command(t, "alice", OpStartGame, nil))
	drawer := state.Game.CurrentPlayer().ID
	dispatcher.reset()

	loop(mh, state, dispatcher, 2, command(t, drawer, OpDeclineBuy, nil))
	if state.Game.TurnPhase != domain.TurnDraw {
		t.Fatalf("TurnPhase = %s, want draw", state.Game.TurnPhase)
	}
	if len(dispatcher.withOp(OpBuyPhaseEnded)) != 1 {
		t.Fatalf("expected buy phase to end")
	}

	handSize := len(state.Game.Player(drawer).Hand)
	loop(mh, state, dispatcher, 3, command(t, drawer, OpDrawFromDeck, nil))
	if got := len(state.Game.Player(drawer).Hand); got != handSize+1 {
		t.Fatalf("hand size = %d, want %d", got, handSize+1)
	}
	if len(dispatcher.withOp(OpCardDrawn)) == 0 {
		t.Fatalf("expected card drawn broadcast")
	}
	if len(dispatcher.withOp(OpGameError)) != 0 {
		t.Fatalf("unexpected error frames")
	}
}

func TestGameCommands_RejectedBeforeStart(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice")
	loop(mh, state, dispatcher, 1, command(t, "alice", OpDrawFromDeck, nil))

	errs := dispatcher.withOp(OpGameError)
	if len(errs) != 1 {
		t.Fatalf("expected one error frame, got %d", len(errs))
	}
	var payload wire.ErrorPayload
	decodeFrame(t, errs[0], &payload)
	if payload.Code != 400 {
		t.Fatalf("error code = %d, want 400", payload.Code)
	}
}

func TestMatchLoop_ExpiresBuyWindow(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice", "bob")
	loop(mh, state, dispatcher, 1, command(t, "alice", OpStartGame, nil))

	loop(mh, state, dispatcher, 2)
	if state.Game.TurnPhase != domain.TurnBuy {
		t.Fatalf("buy window closed before its deadline")
	}

	state.Now = func() time.Time { return time.Now().Add(time.Minute) }
	dispatcher.reset()
	loop(mh, state, dispatcher, 3)

	if state.Game.TurnPhase != domain.TurnDraw {
		t.Fatalf("TurnPhase = %s, want draw after timeout", state.Game.TurnPhase)
	}
	ended := dispatcher.withOp(OpBuyPhaseEnded)
	if len(ended) != 1 {
		t.Fatalf("expected one buy phase ended frame, got %d", len(ended))
	}
	var payload app.BuyPhaseEndedPayload
	decodeFrame(t, ended[0], &payload)
	if payload.Reason != app.BuyEndTimeout {
		t.Fatalf("reason = %q, want timeout", payload.Reason)
	}
}

func TestMatchLoop_AdvancesRoundAfterDelay(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice", "bob")
	state.RoundEndDelay = 2
	loop(mh, state, dispatcher, 1, command(t, "alice", OpStartGame, nil))

	state.Game.Phase = domain.PhaseRoundEnd
	mh.dispatchEvents(state, dispatcher, noopLogger{}, nil)
	if !state.NextRoundArmed || state.NextRoundTick != 3 {
		t.Fatalf("expected next round armed for tick 3, got armed=%t tick=%d", state.NextRoundArmed, state.NextRoundTick)
	}

	loop(mh, state, dispatcher, 2)
	if state.Game.Round != 1 {
		t.Fatalf("round advanced too early")
	}
	loop(mh, state, dispatcher, 3)
	if state.Game.Round != 2 || state.Game.Phase != domain.PhasePlaying {
		t.Fatalf("expected round 2 in play, got round %d phase %s", state.Game.Round, state.Game.Phase)
	}
	if len(dispatcher.withOp(OpNextRoundStarting)) != 1 {
		t.Fatalf("expected next round broadcast")
	}
}

func TestEndGameEarly_ReopensLobby(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice", "bob")
	loop(mh, state, dispatcher, 1, command(t, "alice", OpStartGame, nil))
	loop(mh, state, dispatcher, 2, command(t, "alice", OpEndGameEarly, nil))

	if state.Game.Phase != domain.PhaseFinished || state.GameRunning() {
		t.Fatalf("expected finished game, got %s", state.Game.Phase)
	}
	if state.Lobby.InGame {
		t.Fatalf("expected lobby reopened")
	}
	if len(dispatcher.withOp(OpGameEnded)) != 1 {
		t.Fatalf("expected game ended broadcast")
	}
	label, _ := wire.UnmarshalLabel(state.Label)
	if label.Phase != string(domain.PhaseFinished) || label.Open != domain.MaxPlayers-2 {
		t.Fatalf("unexpected label %+v", label)
	}
}

func TestMatchLeave(t *testing.T) {
	t.Run("GuestLeavesLobby", func(t *testing.T) {
		mh, state, dispatcher := newRoom(t, "alice", "bob")
		got := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.Presence{presence("bob")})
		if got == nil || state.Lobby.Has("bob") {
			t.Fatalf("expected bob removed and room kept")
		}
	})

	t.Run("HostClosesLobby", func(t *testing.T) {
		mh, state, dispatcher := newRoom(t, "alice", "bob")
		got := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 1, state, []runtime.Presence{presence("alice")})
		if got != nil {
			t.Fatalf("expected room to terminate when the host leaves")
		}
		if len(dispatcher.withOp(OpLobbyClosed)) != 1 {
			t.Fatalf("expected lobby closed broadcast")
		}
	})

	t.Run("SeatKeptMidGame", func(t *testing.T) {
		mh, state, dispatcher := newRoom(t, "alice", "bob")
		loop(mh, state, dispatcher, 1, command(t, "alice", OpStartGame, nil))
		got := mh.MatchLeave(context.Background(), noopLogger{}, nil, nil, dispatcher, 2, state, []runtime.Presence{presence("bob")})
		if got == nil || !state.Lobby.Has("bob") {
			t.Fatalf("expected bob to keep his seat")
		}

		dispatcher.reset()
		mh.MatchJoin(context.Background(), noopLogger{}, nil, nil, dispatcher, 3, state, []runtime.Presence{presence("bob")})
		snaps := dispatcher.withOp(OpStateSnapshot)
		if len(snaps) != 1 || snaps[0].recipients[0] != "bob" {
			t.Fatalf("expected a snapshot for the reconnecting player, got %+v", snaps)
		}
	})
}

func TestKickAndRename(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice", "bob")

	loop(mh, state, dispatcher, 1, command(t, "bob", OpRename, wire.RenameRequest{Name: "  Robert "}))
	if m, _ := state.Lobby.Member("bob"); m.Name != "Robert" {
		t.Fatalf("Name = %q, want Robert", m.Name)
	}

	loop(mh, state, dispatcher, 2, command(t, "bob", OpKickPlayer, wire.KickRequest{PlayerID: "alice"}))
	if !state.Lobby.Has("alice") {
		t.Fatalf("guest must not kick the host")
	}

	loop(mh, state, dispatcher, 3, command(t, "alice", OpKickPlayer, wire.KickRequest{PlayerID: "bob"}))
	if state.Lobby.Has("bob") {
		t.Fatalf("expected bob kicked")
	}
	if len(dispatcher.kicked) != 1 || dispatcher.kicked[0] != "bob" {
		t.Fatalf("expected dispatcher kick for bob, got %v", dispatcher.kicked)
	}
}

func TestProcessBots_FillsSoloLobby(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice")
	state.BotsEnabled = true
	state.BotAutoFillDelay = 2
	state.LastSinglePlayerTick = 8
	state.Tick = 10
	dispatcher.reset()

	mh.processBots(context.Background(), state, dispatcher, noopLogger{})

	if got := len(state.Lobby.Members); got != botFillTarget {
		t.Fatalf("members = %d, want %d", got, botFillTarget)
	}
	if state.GetHumanPlayerCount() != 1 || len(state.Bots) != botFillTarget-1 {
		t.Fatalf("expected %d bot agents, got %d", botFillTarget-1, len(state.Bots))
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("Expected auto-fill timer reset, got %d", state.LastSinglePlayerTick)
	}
	if len(dispatcher.withOp(OpLobbyState)) == 0 || dispatcher.labelUpdates == 0 {
		t.Fatalf("Expected lobby broadcast and label update after auto-fill")
	}
}

func TestProcessBots_WaitsForDelay(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice")
	state.BotsEnabled = true
	state.BotAutoFillDelay = 5
	state.Tick = 10

	mh.processBots(context.Background(), state, dispatcher, noopLogger{})
	if len(state.Lobby.Members) != 1 || state.LastSinglePlayerTick != 10 {
		t.Fatalf("expected timer started without bots, members=%d", len(state.Lobby.Members))
	}
}

func TestProcessBots_BotsPlay(t *testing.T) {
	mh, state, dispatcher := newRoom(t, "alice")
	state.BotsEnabled = true
	state.BotAutoFillDelay = 0
	state.BotMinDelay, state.BotMaxDelay = 0, 0
	loop(mh, state, dispatcher, 1)
	loop(mh, state, dispatcher, 2, command(t, "alice", OpStartGame, nil))
	if state.Game == nil {
		t.Fatalf("expected game with bots to start")
	}

	for tick := int64(3); tick < 200; tick++ {
		// The human always passes and draws, then discards the first card.
		msgs := []runtime.MatchData{}
		if contains(app.Actors(state.Game), "alice") {
			switch {
			case state.Game.TurnPhase == domain.TurnBuy:
				msgs = append(msgs, command(t, "alice", OpDeclineBuy, nil))
			case state.Game.TurnPhase == domain.TurnDraw:
				msgs = append(msgs, command(t, "alice", OpDrawFromDeck, nil))
			default:
				card := state.Game.Player("alice").Hand[0].ID
				msgs = append(msgs, command(t, "alice", OpDiscardCard, wire.CardRequest{CardID: card}))
			}
		}
		loop(mh, state, dispatcher, tick, msgs...)
		if state.Game.Phase != domain.PhasePlaying {
			break
		}
		if got := state.Game.CardCount(); got != domain.TotalCards {
			t.Fatalf("tick %d: card count = %d, want %d", tick, got, domain.TotalCards)
		}
	}

	for _, snap := range dispatcher.withOp(OpStateSnapshot) {
		if len(snap.recipients) != 1 || snap.recipients[0] != "alice" {
			t.Fatalf("bot snapshots must not reach other players: %v", snap.recipients)
		}
	}
	if len(dispatcher.withOp(OpCardDiscarded)) < 4 {
		t.Fatalf("expected bots and human to take turns, saw %d discards", len(dispatcher.withOp(OpCardDiscarded)))
	}
	if len(dispatcher.withOp(OpGameError)) != 0 {
		t.Fatalf("unexpected error frames for the human")
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

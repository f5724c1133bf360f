package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"shanghai/internal/app"
	"shanghai/internal/bot"
	"shanghai/internal/config"
	"shanghai/internal/domain"
	"shanghai/internal/lobby"
	"shanghai/internal/ports"
	"shanghai/internal/wire"

	"github.com/heroiclabs/nakama-common/runtime"
)

// botFillTarget is the table size bots fill a solo human's lobby up to.
const botFillTarget = 4

// MatchState holds the authoritative runtime state for one room.
type MatchState struct {
	Code      string                      `json:"code"`
	Lobby     *lobby.Lobby                `json:"lobby"` // nil until the first player joins
	Tick      int64                       `json:"tick"`
	Presences map[string]runtime.Presence `json:"-"` // UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`
	Game      *domain.GameState           `json:"-"` // nil until the host starts a game
	Settings  domain.GameSettings         `json:"settings"`
	Codec     wire.Codec                  `json:"-"`
	Now       func() time.Time            `json:"-"`
	Profiles  ports.ProfilePort           `json:"-"`
	Label     string                      `json:"label"`

	BotsEnabled          bool                  `json:"bots_enabled"`
	BotMinDelay          int                   `json:"bot_min_delay"`
	BotMaxDelay          int                   `json:"bot_max_delay"`
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                 `json:"bot_wait_until"`
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent `json:"-"`

	// RoundEndDelay is how many ticks the score table stays up before the
	// next round is dealt. Negative disables auto-advance.
	RoundEndDelay  int   `json:"round_end_delay"`
	NextRoundTick  int64 `json:"next_round_tick"`
	NextRoundArmed bool  `json:"next_round_armed"`

	rng *rand.Rand
}

// NewMatchState returns an empty room with code and the configured defaults.
func NewMatchState(code string, cfg *config.Config) *MatchState {
	return &MatchState{
		Code:             code,
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		Settings:         cfg.Settings(),
		Codec:            wire.ProtoCodec{},
		Now:              time.Now,
		BotsEnabled:      cfg.Bots.Enabled,
		BotMinDelay:      cfg.Bots.MinThinkSeconds,
		BotMaxDelay:      cfg.Bots.MaxThinkSeconds,
		BotAutoFillDelay: cfg.Bots.AutoFillDelaySeconds,
		Bots:             make(map[string]*bot.Agent),
		RoundEndDelay:    cfg.Game.RoundEndDelaySeconds,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GameRunning reports whether a game is in progress.
func (ms *MatchState) GameRunning() bool {
	return ms.Game != nil && ms.Game.Phase != domain.PhaseFinished
}

func (ms *MatchState) GetOpenSeatsCount() int {
	if ms.GameRunning() {
		return 0
	}
	if ms.Lobby == nil {
		return domain.MaxPlayers
	}
	return ms.Lobby.MaxPlayers - len(ms.Lobby.Members)
}

func (ms *MatchState) GetHumanPlayerCount() int {
	if ms.Lobby == nil {
		return 0
	}
	return ms.Lobby.Humans()
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

func newMatchHandler() *matchHandler { return &matchHandler{} }

// MatchInit creates the room. params may carry "code", "buy_mode" and
// "buy_time_limit" from the create_room RPC.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := config.GetGameConfig()
	if err := bot.LoadIdentities(cfg.Bots.IdentitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	code, _ := params["code"].(string)
	state := NewMatchState(code, cfg)
	if state.Code == "" {
		state.Code = lobby.NewCode(state.rng)
	}
	if nk != nil {
		state.Profiles = NewNakamaAccountAdapter(nk)
	}
	if mode, ok := params["buy_mode"].(string); ok && mode != "" {
		state.Settings.BuyMode = domain.BuyMode(mode)
	}
	if limit, ok := intParam(params["buy_time_limit"]); ok && limit > 0 {
		state.Settings.BuyTimeLimit = limit
	}
	if s, err := domain.NormalizeSettings(state.Settings); err != nil {
		logger.Warn("MatchInit: Ignoring invalid settings: %v", err)
		state.Settings = cfg.Settings()
	} else {
		state.Settings = s
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["shanghai_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	envInt(env, "shanghai_bot_min_delay_sec", &state.BotMinDelay)
	envInt(env, "shanghai_bot_max_delay_sec", &state.BotMaxDelay)
	envInt(env, "shanghai_bot_auto_fill_delay_sec", &state.BotAutoFillDelay)
	envInt(env, "shanghai_round_end_delay_sec", &state.RoundEndDelay)
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}

	label, err := mh.label(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.Label = label

	tickRate := 1
	logger.Info("MatchInit: Room %s created (buy mode %s, %ds)", state.Code, state.Settings.BuyMode, state.Settings.BuyTimeLimit)
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if matchState.Lobby != nil && matchState.Lobby.Has(presence.GetUserId()) {
		return state, true, ""
	}
	if matchState.GameRunning() {
		return state, false, "Game in progress"
	}
	if matchState.GetOpenSeatsCount() <= 0 && !mh.hasBotSeat(matchState) {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) hasBotSeat(state *MatchState) bool {
	if state.Lobby == nil {
		return false
	}
	for _, m := range state.Lobby.Members {
		if m.Bot {
			return true
		}
	}
	return false
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	names := mh.displayNames(ctx, matchState, logger, presences)
	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if matchState.Lobby == nil {
			matchState.Lobby = lobby.New(matchState.Code, userID, names[userID], matchState.Now())
			logger.Info("MatchJoin: %s opened room %s", userID, matchState.Code)
			continue
		}
		if matchState.Lobby.Has(userID) {
			logger.Debug("MatchJoin: %s reconnected to room %s", userID, matchState.Code)
			if matchState.Game != nil {
				mh.sendSnapshot(matchState, dispatcher, logger, userID)
			}
			continue
		}

		err := matchState.Lobby.Add(lobby.Member{ID: userID, Name: names[userID]})
		if errors.Is(err, lobby.ErrFull) && !matchState.GameRunning() {
			for _, m := range matchState.Lobby.Members {
				if m.Bot {
					logger.Info("MatchJoin: Replacing bot %s with human %s", m.ID, userID)
					matchState.Lobby.Remove(m.ID)
					delete(matchState.Bots, m.ID)
					break
				}
			}
			err = matchState.Lobby.Add(lobby.Member{ID: userID, Name: names[userID]})
		}
		if err != nil {
			logger.Warn("MatchJoin: User %s joined but was not seated: %v", userID, err)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)
	return matchState
}

// displayNames resolves account display names, falling back to usernames.
func (mh *matchHandler) displayNames(ctx context.Context, state *MatchState, logger runtime.Logger, presences []runtime.Presence) map[string]string {
	names := make(map[string]string, len(presences))
	ids := make([]string, 0, len(presences))
	for _, p := range presences {
		names[p.GetUserId()] = p.GetUsername()
		ids = append(ids, p.GetUserId())
	}
	if state.Profiles == nil {
		return names
	}
	resolved, err := state.Profiles.DisplayNames(ctx, ids)
	if err != nil {
		logger.Warn("MatchJoin: Could not resolve display names: %v", err)
		return names
	}
	for id, name := range resolved {
		if name != "" {
			names[id] = name
		}
	}
	return names
}

// MatchLeave is called when one or more players leave the match. Seats are
// kept for the rest of a running game so players can reconnect.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)
		if matchState.Lobby == nil || matchState.GameRunning() {
			continue
		}
		if userID == matchState.Lobby.HostID {
			logger.Info("MatchLeave: Host %s left, closing room %s.", userID, matchState.Code)
			mh.broadcast(matchState, dispatcher, logger, OpLobbyClosed, wire.TypeLobbyClosed, nil, nil)
			return nil
		}
		matchState.Lobby.Remove(userID)
		logger.Debug("MatchLeave: User %s left room %s.", userID, matchState.Code)
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating room %s with no humans.", matchState.Code)
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobbyState(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick
	for _, msg := range messages {
		mh.handleMessage(ctx, matchState, dispatcher, logger, msg)
	}

	if matchState.Game != nil {
		if events := matchState.App.ExpireBuyPhase(matchState.Game, matchState.Now()); len(events) > 0 {
			logger.Debug("MatchLoop: Buy window expired in room %s", matchState.Code)
			mh.dispatchEvents(matchState, dispatcher, logger, events)
		}
		mh.advanceRound(matchState, dispatcher, logger)
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}
	return matchState
}

func (mh *matchHandler) handleMessage(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	decode := func(into any) error { return state.Codec.Decode(msg.GetData(), into) }

	switch op := msg.GetOpCode(); op {
	case OpStartGame:
		mh.handleStartGame(state, dispatcher, logger, senderID, decode)
	case OpRename:
		var req wire.RenameRequest
		err := decode(&req)
		if err == nil {
			err = mh.lobbyOf(state).Rename(senderID, req.Name)
		}
		if err != nil {
			mh.sendError(state, dispatcher, logger, senderID, err)
			return
		}
		mh.broadcastLobbyState(state, dispatcher, logger)
	case OpKickPlayer:
		mh.handleKick(state, dispatcher, logger, senderID, decode)
	default:
		name, ok := opCommands[op]
		if !ok {
			logger.Warn("MatchLoop: Unknown opcode received: %d", op)
			return
		}
		events, err := wire.ApplyGameCommand(state.App, state.Game, name, senderID, decode)
		if err != nil {
			logger.Warn("handleMessage: User %s op %d rejected: %v", senderID, op, err)
			mh.sendError(state, dispatcher, logger, senderID, err)
			return
		}
		mh.dispatchEvents(state, dispatcher, logger, events)
	}
}

// lobbyOf returns the room's lobby, or an empty one so lookups fail cleanly.
func (mh *matchHandler) lobbyOf(state *MatchState) *lobby.Lobby {
	if state.Lobby == nil {
		return &lobby.Lobby{Code: state.Code}
	}
	return state.Lobby
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, decode func(any) error) {
	l := mh.lobbyOf(state)
	logger.Info("StartGame: Request received from %s (host=%s, seated=%d)", senderID, l.HostID, len(l.Members))

	var req wire.StartGameRequest
	if err := decode(&req); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}
	if state.GameRunning() {
		mh.sendError(state, dispatcher, logger, senderID, fmt.Errorf("%w: a game is already running", app.ErrInvalidPhase))
		return
	}
	settings := state.Settings
	if req.Settings.BuyMode != "" {
		settings.BuyMode = req.Settings.BuyMode
	}
	if req.Settings.BuyTimeLimit != 0 {
		settings.BuyTimeLimit = req.Settings.BuyTimeLimit
	}

	participants := make([]app.Participant, 0, len(l.Members))
	for _, m := range l.Members {
		participants = append(participants, app.Participant{ID: m.ID, Name: m.Name})
	}
	game, events, err := state.App.StartGame(state.Code, l.HostID, senderID, participants, settings)
	if err != nil {
		logger.Warn("StartGame: Rejected for %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	state.Game = game
	state.NextRoundArmed = false
	l.InGame = true
	for _, m := range l.Members {
		if m.Bot {
			mh.ensureAgent(state, logger, m.ID)
		}
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
	logger.Info("StartGame: Game %s started in room %s with %d players.", game.ID, state.Code, len(participants))
}

func (mh *matchHandler) handleKick(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, decode func(any) error) {
	var req wire.KickRequest
	if err := decode(&req); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}
	l := mh.lobbyOf(state)
	switch {
	case l.HostID != senderID || req.PlayerID == senderID:
		mh.sendError(state, dispatcher, logger, senderID, lobby.ErrNotHost)
		return
	case state.GameRunning():
		mh.sendError(state, dispatcher, logger, senderID, lobby.ErrInGame)
		return
	case !l.Remove(req.PlayerID):
		mh.sendError(state, dispatcher, logger, senderID, fmt.Errorf("%w: %s", lobby.ErrNotFound, req.PlayerID))
		return
	}

	delete(state.Bots, req.PlayerID)
	if p, ok := state.Presences[req.PlayerID]; ok {
		delete(state.Presences, req.PlayerID)
		if err := dispatcher.MatchKick([]runtime.Presence{p}); err != nil {
			logger.Warn("handleKick: Failed to kick %s: %v", req.PlayerID, err)
		}
	}
	logger.Info("handleKick: %s removed %s from room %s", senderID, req.PlayerID, state.Code)
	mh.updateLabel(state, dispatcher, logger)
	mh.broadcastLobbyState(state, dispatcher, logger)
}

// dispatchEvents sends events to clients and bots, then refreshes the room's
// round timer and label.
func (mh *matchHandler) dispatchEvents(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		for _, agent := range state.Bots {
			agent.OnGameEvent(ev)
		}
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	if state.Game == nil {
		return
	}
	switch state.Game.Phase {
	case domain.PhaseRoundEnd:
		if !state.NextRoundArmed {
			state.NextRoundArmed = true
			state.NextRoundTick = state.Tick + int64(state.RoundEndDelay)
		}
	case domain.PhaseFinished:
		state.NextRoundArmed = false
		if state.Lobby != nil {
			state.Lobby.InGame = false
		}
		logger.Info("dispatchEvents: Game %s in room %s finished.", state.Game.ID, state.Code)
	default:
		state.NextRoundArmed = false
	}
	mh.updateLabel(state, dispatcher, logger)
}

// advanceRound deals the next round once the round-end delay has passed.
func (mh *matchHandler) advanceRound(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.NextRoundArmed || state.RoundEndDelay < 0 || state.Tick < state.NextRoundTick {
		return
	}
	if state.Game.Phase != domain.PhaseRoundEnd || len(state.Game.Players) == 0 {
		state.NextRoundArmed = false
		return
	}
	state.NextRoundArmed = false
	events, err := state.App.NextRound(state.Game, state.Game.Players[0].ID)
	if err != nil {
		logger.Error("advanceRound: Failed to start next round: %v", err)
		return
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Fill a solo human's lobby with bots after a delay.
	if !state.GameRunning() && state.Lobby != nil {
		if state.GetHumanPlayerCount() == 1 && len(state.Lobby.Members) < botFillTarget {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				mh.fillBots(state, dispatcher, logger)
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Let one bot act per tick once its think delay has passed.
	if state.Game == nil || state.Game.Phase != domain.PhasePlaying {
		state.BotWaitUntil = 0
		return
	}
	var agent *bot.Agent
	for _, p := range state.Game.Players {
		if a, ok := state.Bots[p.ID]; ok && a.CanAct(state.Game) {
			agent = a
			break
		}
	}
	if agent == nil {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if state.BotMaxDelay > state.BotMinDelay {
			delay += state.rng.Intn(state.BotMaxDelay - state.BotMinDelay + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", agent.ID, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	action, err := agent.Act(state.Game)
	if err != nil || action.Kind == bot.ActionWait {
		logger.Warn("processBots: Bot %s had no move (%v), using fallback", agent.ID, err)
		action = bot.Fallback(state.Game, agent.ID)
	}
	events, err := bot.Execute(state.App, state.Game, agent.ID, action)
	if err != nil {
		logger.Warn("processBots: Bot %s move %s rejected: %v", agent.ID, action.Kind, err)
		events, err = bot.Execute(state.App, state.Game, agent.ID, bot.Fallback(state.Game, agent.ID))
		if err != nil {
			logger.Error("processBots: Bot %s fallback rejected: %v", agent.ID, err)
			return
		}
	}
	mh.dispatchEvents(state, dispatcher, logger, events)
}

// fillBots seats pooled bots until the table reaches botFillTarget.
func (mh *matchHandler) fillBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	added := false
	for i := 0; len(state.Lobby.Members) < botFillTarget && i < botFillTarget+bot.DefaultRoster().Len(); i++ {
		identity := bot.GetBotIdentity(i)
		if state.Lobby.Has(identity.UserID) {
			continue
		}
		if err := state.Lobby.Add(lobby.Member{ID: identity.UserID, Name: identity.DisplayName, Bot: true}); err != nil {
			logger.Warn("processBots: Could not seat bot %s: %v", identity.UserID, err)
			break
		}
		mh.ensureAgent(state, logger, identity.UserID)
		logger.Info("processBots: Added bot %s (%s) to room %s", identity.DisplayName, identity.UserID, state.Code)
		added = true
	}
	if added {
		mh.updateLabel(state, dispatcher, logger)
		mh.broadcastLobbyState(state, dispatcher, logger)
	}
}

func (mh *matchHandler) ensureAgent(state *MatchState, logger runtime.Logger, userID string) {
	if _, ok := state.Bots[userID]; ok {
		return
	}
	agent, err := bot.NewAgent(userID)
	if err != nil {
		logger.Error("Failed to create bot agent for %s: %v", userID, err)
		return
	}
	state.Bots[userID] = agent
}

// broadcastEvent encodes one app event and sends it to its recipients.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Private events for players who are not connected (bots included)
		// must not fall through to a room-wide broadcast.
		if len(recipients) == 0 {
			return
		}
	}
	mh.broadcast(state, dispatcher, logger, opCode, string(ev.Kind), ev.Payload, recipients)
}

func (mh *matchHandler) broadcast(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, frameType string, payload any, recipients []runtime.Presence) {
	data, err := state.Codec.Encode(frameType, payload)
	if err != nil {
		logger.Error("Failed to encode %s: %v", frameType, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
		logger.Error("Failed to send %s: %v", frameType, err)
	}
}

func (mh *matchHandler) broadcastLobbyState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Lobby == nil {
		return
	}
	ls := wire.LobbyStateOf(*state.Lobby)
	ls.InGame = state.GameRunning()
	mh.broadcast(state, dispatcher, logger, OpLobbyState, wire.TypeLobbyState, ls, nil)
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	p, ok := state.Presences[userID]
	if !ok {
		return
	}
	view := app.StateSnapshotPayload{View: app.Project(state.Game, userID)}
	mh.broadcast(state, dispatcher, logger, OpStateSnapshot, string(app.EventStateSnapshot), view, []runtime.Presence{p})
}

// sendError sends a private error frame to userID.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	mh.broadcast(state, dispatcher, logger, OpGameError, wire.TypeError, wire.ErrorFor(err), []runtime.Presence{presence})
}

func (mh *matchHandler) label(state *MatchState) (string, error) {
	phase := "lobby"
	if state.Game != nil {
		phase = string(state.Game.Phase)
	}
	return wire.MarshalLabel(wire.MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  wire.LabelGame,
		Phase: phase,
		Code:  state.Code,
	})
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := mh.label(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.Label {
		return
	}
	state.Label = label
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated, grace %d", graceSeconds)
	if matchState, ok := state.(*MatchState); ok {
		mh.broadcast(matchState, dispatcher, logger, OpLobbyClosed, wire.TypeLobbyClosed, nil, nil)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

func envInt(env map[string]string, key string, dst *int) {
	if val, ok := env[key]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func intParam(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

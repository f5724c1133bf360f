package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"shanghai/internal/app"
	"shanghai/internal/domain"
	"shanghai/internal/wire"
)

const roomInbox = 64

// Room serialises every game command for one lobby on its own goroutine.
// Only that goroutine touches game.
type Room struct {
	code  string
	srv   *Server
	svc   *app.Service
	inbox chan func()
	done  chan struct{}
	once  sync.Once

	game        *domain.GameState
	buySeq      uint64
	cancelBuy   func() bool
	cancelRound func() bool
}

func newRoom(code string, srv *Server) *Room {
	return &Room{
		code:  code,
		srv:   srv,
		svc:   srv.newService(),
		inbox: make(chan func(), roomInbox),
		done:  make(chan struct{}),
	}
}

func (r *Room) run() {
	for {
		select {
		case fn := <-r.inbox:
			fn()
		case <-r.done:
			r.cancelTimers()
			return
		}
	}
}

// post queues fn on the room goroutine. It reports false once the room is closed.
func (r *Room) post(fn func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.inbox <- fn:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) stop() {
	r.once.Do(func() { close(r.done) })
}

func (r *Room) startGame(callerID string, req wire.StartGameRequest) {
	l, ok := r.srv.lobbies.Get(r.code)
	if !ok {
		return
	}
	if r.game != nil && r.game.Phase != domain.PhaseFinished {
		r.srv.sendError(callerID, fmt.Errorf("%w: a game is already running", app.ErrInvalidPhase))
		return
	}

	settings := r.srv.cfg.Settings()
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
	if len(participants) < r.srv.cfg.Game.MinPlayers {
		r.srv.sendError(callerID, fmt.Errorf("%w: need at least %d players to start", app.ErrInvalidPhase, r.srv.cfg.Game.MinPlayers))
		return
	}

	game, events, err := r.svc.StartGame(r.code, l.HostID, callerID, participants, settings)
	if err != nil {
		r.srv.logger.Warn("StartGame: Rejected for %s in room %s: %v", callerID, r.code, err)
		r.srv.sendError(callerID, err)
		return
	}
	if r.game != nil {
		r.srv.games.Remove(r.game.ID)
	}
	r.cancelTimers()
	r.buySeq = 0
	r.game = game
	r.srv.games.Put(game)
	if err := r.srv.lobbies.SetInGame(r.code, true); err != nil {
		r.srv.logger.Error("StartGame: %v", err)
	}
	r.srv.logger.Info("StartGame: Game %s started in room %s with %d players.", game.ID, r.code, len(participants))
	r.srv.broadcastLobby(r.code)
	r.dispatch(events)
}

func (r *Room) command(userID, op string, data json.RawMessage) {
	decode := func(into any) error { return r.srv.codec.Decode(data, into) }
	events, err := wire.ApplyGameCommand(r.svc, r.game, op, userID, decode)
	if err != nil {
		r.srv.logger.Warn("Command: User %s %s rejected in room %s: %v", userID, op, r.code, err)
		r.srv.sendError(userID, err)
		return
	}
	r.dispatch(events)
}

// snapshot sends userID their view of the running game.
func (r *Room) snapshot(userID string) {
	if r.game == nil || r.game.Player(userID) == nil {
		return
	}
	r.srv.sendFrame(userID, string(app.EventStateSnapshot), app.StateSnapshotPayload{View: app.Project(r.game, userID)})
}

// dispatch fans events out to the room, then re-arms the buy and round timers.
func (r *Room) dispatch(events []app.Event) {
	var everyone []string
	if l, ok := r.srv.lobbies.Get(r.code); ok {
		for _, m := range l.Members {
			everyone = append(everyone, m.ID)
		}
	}
	for _, ev := range events {
		data, err := r.srv.codec.Encode(string(ev.Kind), ev.Payload)
		if err != nil {
			r.srv.logger.Error("Failed to encode %s: %v", ev.Kind, err)
			continue
		}
		recipients := ev.Recipients
		if len(recipients) == 0 {
			recipients = everyone
		}
		for _, id := range recipients {
			r.srv.hub.Send(id, data)
		}
	}

	if r.game == nil {
		return
	}
	r.scheduleBuy()
	switch r.game.Phase {
	case domain.PhaseRoundEnd:
		r.scheduleRound()
	case domain.PhaseFinished:
		r.cancelTimers()
		if err := r.srv.lobbies.SetInGame(r.code, false); err == nil {
			r.srv.broadcastLobby(r.code)
		}
		r.srv.logger.Info("Game %s in room %s finished.", r.game.ID, r.code)
	default:
		if r.cancelRound != nil {
			r.cancelRound()
			r.cancelRound = nil
		}
	}
}

// scheduleBuy arms a timer for a newly opened buy window.
func (r *Room) scheduleBuy() {
	seq, deadline, ok := app.BuyDeadline(r.game)
	if !ok || seq == r.buySeq {
		return
	}
	if r.cancelBuy != nil {
		r.cancelBuy()
	}
	r.buySeq = seq
	game := r.game
	wait := deadline.Sub(r.srv.now())
	r.srv.logger.Debug("Room %s: buy window %d closes in %s", r.code, seq, wait)
	r.cancelBuy = r.srv.scheduler.After(wait, func() {
		r.post(func() {
			if r.game != game {
				return
			}
			r.dispatch(r.svc.ResolveBuyPhase(game, seq))
		})
	})
}

// scheduleRound deals the next round after the configured delay.
func (r *Room) scheduleRound() {
	if r.cancelRound != nil {
		return
	}
	game := r.game
	round := game.Round
	r.cancelRound = r.srv.scheduler.After(r.srv.cfg.RoundEndDelay(), func() {
		r.post(func() {
			r.cancelRound = nil
			if r.game != game || game.Round != round || game.Phase != domain.PhaseRoundEnd {
				return
			}
			events, err := r.svc.NextRound(game, game.Players[0].ID)
			if err != nil {
				r.srv.logger.Error("NextRound: Room %s: %v", r.code, err)
				return
			}
			r.dispatch(events)
		})
	})
}

func (r *Room) cancelTimers() {
	if r.cancelBuy != nil {
		r.cancelBuy()
		r.cancelBuy = nil
	}
	if r.cancelRound != nil {
		r.cancelRound()
		r.cancelRound = nil
	}
}

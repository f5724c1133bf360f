// Package ws serves Shanghai over plain websockets for running without Nakama.
// Every connection authenticates with a signed token, lobby commands run on
// the connection goroutine and game commands are serialised per room.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"shanghai/internal/app"
	"shanghai/internal/app/onboarding"
	"shanghai/internal/config"
	"shanghai/internal/lobby"
	"shanghai/internal/ports"
	"shanghai/internal/wire"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/runtime"
	"golang.org/x/time/rate"
)

// Server is the standalone websocket game server.
type Server struct {
	cfg       *config.Config
	logger    runtime.Logger
	router    chi.Router
	hub       *Hub
	lobbies   *lobby.Directory
	games     *app.MemoryStore
	tokens    *TokenIssuer
	scheduler ports.Scheduler
	codec     wire.JSONCodec
	now       func() time.Time
	upgrader  websocket.Upgrader

	mu    sync.Mutex
	rooms map[string]*Room

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option customises a Server.
type Option func(*Server)

// WithScheduler replaces the timer source for buy windows and round advances.
func WithScheduler(s ports.Scheduler) Option {
	return func(srv *Server) { srv.scheduler = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(srv *Server) { srv.now = now }
}

// WithSeed makes lobby codes, names and deals reproducible.
func WithSeed(seed int64) Option {
	return func(srv *Server) { srv.rng = rand.New(rand.NewSource(seed)) }
}

func NewServer(cfg *config.Config, logger runtime.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		router:    chi.NewRouter(),
		hub:       NewHub(),
		games:     app.NewMemoryStore(),
		scheduler: ports.RealScheduler{},
		now:       time.Now,
		rooms:     make(map[string]*Room),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.codec = wire.JSONCodec{Now: s.now}
	s.lobbies = lobby.NewDirectory(rand.New(rand.NewSource(s.seed())))

	secret := cfg.Server.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("No jwt_secret configured, tokens will not survive a restart.")
	}
	s.tokens = NewTokenIssuer(secret, 0)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(cfg.Server.AllowedOrigins),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			allowed = nil
			break
		}
	}
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ws", s.serveWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/token", s.issueToken)
		r.Get("/rooms", s.listRooms)
		r.Get("/rooms/{code}", s.getRoom)
	})
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Tokens exposes the issuer so callers can mint tokens out of band.
func (s *Server) Tokens() *TokenIssuer {
	return s.tokens
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Websocket server listening on %s", s.cfg.Server.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", s.cfg.Server.ListenAddr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close stops every room and drops every connection.
func (s *Server) Close() {
	s.mu.Lock()
	for code, r := range s.rooms {
		r.stop()
		delete(s.rooms, code)
	}
	s.mu.Unlock()
	s.hub.closeAll()
}

func (s *Server) seed() int64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Int63()
}

func (s *Server) newService() *app.Service {
	return app.NewService(rand.New(rand.NewSource(s.seed()))).WithClock(s.now)
}

func (s *Server) friendlyName() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return onboarding.FriendlyName(s.rng)
}

func (s *Server) openRoom(code string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[code]; ok {
		return r
	}
	r := newRoom(code, s)
	s.rooms[code] = r
	go r.run()
	return r
}

func (s *Server) room(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	return r, ok
}

func (s *Server) closeRoom(code string) {
	s.mu.Lock()
	r, ok := s.rooms[code]
	delete(s.rooms, code)
	s.mu.Unlock()
	if !ok {
		return
	}
	r.stop()
	if g, ok := s.games.FindByCode(code); ok {
		s.games.Remove(g.ID)
	}
}

func (s *Server) roomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// HTTP handlers

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
		"rooms":   s.roomCount(),
	})
}

// TokenRequest asks for a guest session. Name is optional.
type TokenRequest struct {
	Name string `json:"name"`
}

type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = s.friendlyName()
	}
	userID := uuid.NewString()
	token, err := s.tokens.Issue(userID, name)
	if err != nil {
		s.logger.Error("Failed to sign token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token, UserID: userID, Name: name})
}

// RoomInfo is the public view of a room.
type RoomInfo struct {
	wire.LobbyState
	Players int    `json:"players"`
	Phase   string `json:"phase,omitempty"`
	Round   int    `json:"round,omitempty"`
}

func (s *Server) roomInfo(l lobby.Lobby) RoomInfo {
	info := RoomInfo{LobbyState: wire.LobbyStateOf(l), Players: len(l.Members)}
	if g, ok := s.games.FindByCode(l.Code); ok {
		info.Phase = string(g.Phase)
		info.Round = g.Round
	}
	return info
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms := make([]RoomInfo, 0)
	for _, l := range s.lobbies.All() {
		rooms = append(rooms, s.roomInfo(l))
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) getRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	l, ok := s.lobbies.Get(code)
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, s.roomInfo(l))
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	claims, err := s.tokens.Verify(requestToken(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed: %v", err)
		return
	}

	limit := rate.Limit(s.cfg.Server.RateLimit)
	if s.cfg.Server.RateLimit == 0 {
		limit = rate.Inf
	}
	c := &Client{
		id:      uuid.NewString(),
		userID:  claims.UserID,
		name:    claims.Name,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(limit, s.cfg.Server.RateBurst),
	}
	if s.hub.register(c) {
		s.logger.Info("User %s reconnected, previous connection closed.", c.userID)
	}
	go c.writePump()
	go c.readPump(s.handle, s.onDisconnect)

	if l, ok := s.lobbies.ByPlayer(c.userID); ok {
		s.sendFrame(c.userID, wire.TypeLobbyState, wire.LobbyStateOf(l))
		if room, ok := s.room(l.Code); ok {
			room.post(func() { room.snapshot(c.userID) })
		}
	}
}

func (s *Server) onDisconnect(c *Client) {
	if !s.hub.unregister(c) {
		return
	}
	l, ok := s.lobbies.ByPlayer(c.userID)
	if !ok || l.InGame {
		return
	}
	s.leave(c.userID)
}

// handle runs one client command on the connection's read goroutine.
func (s *Server) handle(c *Client, raw []byte) {
	cmd, err := wire.ParseCommand(raw)
	if err != nil {
		s.sendError(c.userID, err)
		return
	}
	if !c.limiter.Allow() {
		s.sendError(c.userID, fmt.Errorf("%w: slow down", app.ErrResourceExhausted))
		return
	}
	if err := s.dispatch(c, cmd); err != nil {
		s.logger.Debug("User %s %s rejected: %v", c.userID, cmd.Op, err)
		s.sendError(c.userID, err)
	}
}

func (s *Server) dispatch(c *Client, cmd wire.Command) error {
	switch cmd.Op {
	case wire.CmdCreateLobby:
		var req wire.CreateLobbyRequest
		if err := s.codec.Decode(cmd.Data, &req); err != nil {
			return err
		}
		name := req.Name
		if strings.TrimSpace(name) == "" {
			name = c.name
		}
		l, err := s.lobbies.Create(c.userID, name)
		if err != nil {
			return err
		}
		s.openRoom(l.Code)
		s.logger.Info("Lobby %s created by %s", l.Code, c.userID)
		s.broadcastLobby(l.Code)

	case wire.CmdJoinLobby:
		var req wire.JoinLobbyRequest
		if err := s.codec.Decode(cmd.Data, &req); err != nil {
			return err
		}
		name := req.Name
		if strings.TrimSpace(name) == "" {
			name = c.name
		}
		l, err := s.lobbies.Join(req.Code, c.userID, name)
		if err != nil {
			return err
		}
		s.broadcastLobby(l.Code)
		if l.InGame {
			if room, ok := s.room(l.Code); ok {
				room.post(func() { room.snapshot(c.userID) })
			}
		}

	case wire.CmdLeaveLobby:
		l, ok := s.lobbies.ByPlayer(c.userID)
		if !ok {
			return fmt.Errorf("%w: %s is not in a lobby", lobby.ErrNotFound, c.userID)
		}
		if l.InGame {
			return fmt.Errorf("%w: finish or end the game first", lobby.ErrInGame)
		}
		return s.leave(c.userID)

	case wire.CmdKickPlayer:
		var req wire.KickRequest
		if err := s.codec.Decode(cmd.Data, &req); err != nil {
			return err
		}
		l, err := s.lobbies.Kick(c.userID, req.PlayerID)
		if err != nil {
			return err
		}
		s.sendFrame(req.PlayerID, wire.TypeLobbyClosed, map[string]string{"code": l.Code, "reason": "kicked"})
		s.broadcastLobby(l.Code)

	case wire.CmdDisbandLobby:
		code, ids, err := s.lobbies.Disband(c.userID)
		if err != nil {
			return err
		}
		s.closeRoom(code)
		for _, id := range ids {
			s.sendFrame(id, wire.TypeLobbyClosed, map[string]string{"code": code, "reason": "disbanded"})
		}

	case wire.CmdRename:
		var req wire.RenameRequest
		if err := s.codec.Decode(cmd.Data, &req); err != nil {
			return err
		}
		l, err := s.lobbies.Rename(c.userID, req.Name)
		if err != nil {
			return err
		}
		s.broadcastLobby(l.Code)

	case wire.CmdStartGame:
		var req wire.StartGameRequest
		if err := s.codec.Decode(cmd.Data, &req); err != nil {
			return err
		}
		room, err := s.roomOf(c.userID)
		if err != nil {
			return err
		}
		room.post(func() { room.startGame(c.userID, req) })

	default:
		if _, ok := wire.GameCommands[cmd.Op]; !ok {
			return fmt.Errorf("%w: unknown op %q", wire.ErrMalformed, cmd.Op)
		}
		room, err := s.roomOf(c.userID)
		if err != nil {
			return err
		}
		op, data := cmd.Op, cmd.Data
		room.post(func() { room.command(c.userID, op, data) })
	}
	return nil
}

func (s *Server) roomOf(userID string) (*Room, error) {
	l, ok := s.lobbies.ByPlayer(userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in a lobby", lobby.ErrNotFound, userID)
	}
	room, ok := s.room(l.Code)
	if !ok {
		return nil, fmt.Errorf("%w: room %s is closed", lobby.ErrNotFound, l.Code)
	}
	return room, nil
}

// leave removes userID from their lobby, closing the room when the host goes.
func (s *Server) leave(userID string) error {
	res, err := s.lobbies.Leave(userID)
	if err != nil {
		return err
	}
	if res.Disbanded {
		s.closeRoom(res.Code)
		for _, id := range res.Removed {
			s.sendFrame(id, wire.TypeLobbyClosed, map[string]string{"code": res.Code, "reason": "host left"})
		}
		s.logger.Info("Lobby %s closed, host %s left.", res.Code, userID)
		return nil
	}
	s.sendFrame(userID, wire.TypeLobbyClosed, map[string]string{"code": res.Code, "reason": "left"})
	s.broadcastLobby(res.Code)
	return nil
}

// broadcastLobby sends the lobby's current state to all of its members.
func (s *Server) broadcastLobby(code string) {
	l, ok := s.lobbies.Get(code)
	if !ok {
		return
	}
	data, err := s.codec.Encode(wire.TypeLobbyState, wire.LobbyStateOf(l))
	if err != nil {
		s.logger.Error("Failed to encode lobby state: %v", err)
		return
	}
	for _, m := range l.Members {
		s.hub.Send(m.ID, data)
	}
}

func (s *Server) sendError(userID string, err error) {
	s.sendFrame(userID, wire.TypeError, wire.ErrorFor(err))
}

func (s *Server) sendFrame(userID, frameType string, payload any) {
	data, err := s.codec.Encode(frameType, payload)
	if err != nil {
		s.logger.Error("Failed to encode %s: %v", frameType, err)
		return
	}
	s.hub.Send(userID, data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

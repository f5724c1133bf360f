package app

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"shanghai/internal/domain"

	"github.com/google/uuid"
)

// Service applies Shanghai commands to a GameState and returns the resulting
// events. It never performs I/O. A Service is not safe for concurrent use; each
// game loop owns one.
type Service struct {
	rng *rand.Rand
	now func() time.Time
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, now: time.Now}
}

// WithClock replaces the clock used for buy deadlines.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Participant is a seated player handed to StartGame in seat order.
type Participant struct {
	ID   string
	Name string
}

// StartGame creates a game for participants and deals round one. code is the
// room code the game is reachable by. callerID must equal hostID. Settings are
// normalised; invalid settings are rejected.
func (s *Service) StartGame(code, hostID, callerID string, participants []Participant, settings domain.GameSettings) (*domain.GameState, []Event, error) {
	if callerID != hostID {
		return nil, nil, fmt.Errorf("%w: only the host can start the game", ErrNotAuthorized)
	}
	if len(participants) < MinPlayersToStartGame {
		return nil, nil, fmt.Errorf("%w: need at least %d players to start", ErrInvalidPhase, MinPlayersToStartGame)
	}
	if len(participants) > MaxPlayersPerGame {
		return nil, nil, fmt.Errorf("%w: at most %d players", ErrResourceExhausted, MaxPlayersPerGame)
	}
	settings, err := domain.NormalizeSettings(settings)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPhase, err)
	}

	seen := make(map[string]bool, len(participants))
	players := make([]*domain.Player, 0, len(participants))
	for _, p := range participants {
		if p.ID == "" || seen[p.ID] {
			return nil, nil, fmt.Errorf("%w: duplicate or empty player id %q", ErrInvalidPhase, p.ID)
		}
		seen[p.ID] = true
		players = append(players, &domain.Player{ID: p.ID, Name: p.Name})
	}
	if !seen[hostID] {
		return nil, nil, fmt.Errorf("%w: host is not seated", ErrNotAuthorized)
	}

	game := &domain.GameState{
		ID:       uuid.NewString(),
		Code:     code,
		HostID:   hostID,
		Players:  players,
		Round:    1,
		Phase:    domain.PhaseStarting,
		Settings: settings,
	}

	events := []Event{{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			GameID:   game.ID,
			Code:     code,
			Round:    game.Round,
			DealerID: players[0].ID,
			Settings: settings,
		},
	}}
	events = append(events, s.startRound(game)...)
	return game, s.finish(game, events), nil
}

// startRound deals the current round and opens the buy window on the dealer's flip.
func (s *Service) startRound(game *domain.GameState) []Event {
	rc, _ := domain.RoundConfigFor(game.Round)
	game.RoundConfig = rc

	deck := domain.NewDeck()
	domain.Shuffle(deck, s.rng)

	for _, p := range game.Players {
		p.Hand = append([]domain.Card(nil), deck[:rc.CardsDealt]...)
		deck = deck[rc.CardsDealt:]
		p.HasPlacedContract = false
		p.PlacedCards = nil
		p.RoundScore = 0
		p.BuysUsed = 0
	}

	game.DiscardPile = []domain.Card{deck[0]}
	game.Deck = append([]domain.Card(nil), deck[1:]...)
	game.Phase = domain.PhasePlaying
	game.DiscardIsDead = false
	game.RoundWinnerID = ""
	// The dealer's flip counts as the dealer's discard.
	game.CurrentPlayerIndex = game.Seat(game.DealerIndex + 1)

	return []Event{s.openBuyWindow(game)}
}

// NextRound deals the next round, or finishes the game after round seven. Any
// seated player may call it once the round has ended.
func (s *Service) NextRound(game *domain.GameState, callerID string) ([]Event, error) {
	if game.Phase != domain.PhaseRoundEnd {
		return nil, fmt.Errorf("%w: round has not ended", ErrInvalidPhase)
	}
	if game.Player(callerID) == nil {
		return nil, fmt.Errorf("%w: player %s is not in this game", ErrNotFound, callerID)
	}

	if game.Round >= domain.RoundCount {
		game.Phase = domain.PhaseFinished
		return s.finish(game, []Event{s.gameEnded(game)}), nil
	}

	game.Round++
	game.DealerIndex = game.Seat(game.DealerIndex + 1)
	game.DealersChoice = ""

	rc, _ := domain.RoundConfigFor(game.Round)
	events := []Event{{
		Kind: EventNextRoundStarting,
		Payload: NextRoundStartingPayload{
			Round:       game.Round,
			DealerID:    game.Dealer().ID,
			RoundConfig: rc,
		},
	}}
	events = append(events, s.startRound(game)...)
	return s.finish(game, events), nil
}

// EndGameEarly finishes the game from any state, including one that has
// already finished. Only the host may call it. A game that ran its full seven
// rounds keeps EndedEarly unset.
func (s *Service) EndGameEarly(game *domain.GameState, callerID string) ([]Event, error) {
	if callerID != game.HostID {
		return nil, fmt.Errorf("%w: only the host can end the game early", ErrNotAuthorized)
	}
	if game.Phase != domain.PhaseFinished {
		game.EndedEarly = true
	}
	game.Phase = domain.PhaseFinished
	game.BuyPhase = nil
	return s.finish(game, []Event{s.gameEnded(game)}), nil
}

// SetDealersChoice records the round-seven contract. Only the dealer may choose,
// and the choice is locked once anyone has placed a contract.
func (s *Service) SetDealersChoice(game *domain.GameState, callerID string, choice domain.DealersChoice) ([]Event, error) {
	if game.Phase != domain.PhasePlaying || game.Round != domain.RoundCount {
		return nil, fmt.Errorf("%w: dealer's choice is only made in round %d", ErrInvalidPhase, domain.RoundCount)
	}
	if dealer := game.Dealer(); dealer == nil || dealer.ID != callerID {
		return nil, fmt.Errorf("%w: only the dealer can make this choice", ErrNotAuthorized)
	}
	if _, ok := choice.Shape(); !ok {
		return nil, fmt.Errorf("%w: unknown choice %q", ErrInvalidMeld, choice)
	}
	for _, p := range game.Players {
		if p.HasPlacedContract {
			return nil, fmt.Errorf("%w: a contract has already been placed", ErrInvalidPhase)
		}
	}

	game.DealersChoice = choice
	return s.finish(game, []Event{{
		Kind:    EventDealersChoiceSet,
		Payload: DealersChoiceSetPayload{DealerID: callerID, Choice: choice},
	}}), nil
}

// endRound scores every hand and moves the game to round-end.
func (s *Service) endRound(game *domain.GameState, winnerID string) Event {
	for _, p := range game.Players {
		p.RoundScore = domain.HandPoints(p.Hand)
		p.TotalScore += p.RoundScore
	}
	game.Phase = domain.PhaseRoundEnd
	game.BuyPhase = nil
	game.RoundWinnerID = winnerID

	scores := make([]PlayerScore, 0, len(game.Players))
	for _, p := range game.Players {
		scores = append(scores, PlayerScore{PlayerID: p.ID, Name: p.Name, RoundScore: p.RoundScore, TotalScore: p.TotalScore})
	}
	return Event{
		Kind:    EventRoundEnded,
		Payload: RoundEndedPayload{Round: game.Round, WinnerID: winnerID, Scores: scores},
	}
}

func (s *Service) gameEnded(game *domain.GameState) Event {
	return Event{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{FinalScores: Standings(game), EndedEarly: game.EndedEarly},
	}
}

// Standings ranks players by ascending total score, seat order breaking ties.
func Standings(game *domain.GameState) []PlayerScore {
	out := make([]PlayerScore, 0, len(game.Players))
	for _, p := range game.Players {
		out = append(out, PlayerScore{PlayerID: p.ID, Name: p.Name, RoundScore: p.RoundScore, TotalScore: p.TotalScore})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore < out[j].TotalScore })
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// finish appends a turn update and one private snapshot per player.
func (s *Service) finish(game *domain.GameState, events []Event) []Event {
	if game.Phase == domain.PhasePlaying {
		if cur := game.CurrentPlayer(); cur != nil {
			events = append(events, Event{
				Kind: EventTurnUpdate,
				Payload: TurnUpdatePayload{
					CurrentPlayerID: cur.ID,
					Phase:           game.Phase,
					TurnPhase:       game.TurnPhase,
				},
			})
		}
	}
	for _, p := range game.Players {
		events = append(events, Event{
			Kind:       EventStateSnapshot,
			Payload:    StateSnapshotPayload{View: Project(game, p.ID)},
			Recipients: []string{p.ID},
		})
	}
	return events
}

// requireTurn checks the common playing/current-player/turn-phase preconditions.
func requireTurn(game *domain.GameState, playerID string, phases ...domain.TurnPhase) (*domain.Player, error) {
	if game.Phase != domain.PhasePlaying {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidPhase, game.Phase)
	}
	player := game.Player(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: player %s is not in this game", ErrNotFound, playerID)
	}
	allowed := false
	for _, tp := range phases {
		if game.TurnPhase == tp {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: not allowed during %s", ErrInvalidPhase, game.TurnPhase)
	}
	if game.CurrentPlayer().ID != playerID {
		return nil, fmt.Errorf("%w: not your turn", ErrNotAuthorized)
	}
	return player, nil
}

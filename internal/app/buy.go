package app

import (
	"fmt"
	"time"

	"shanghai/internal/domain"
)

// openBuyWindow starts a buy window on the top discard. The current player is the
// next drawer and is asked first.
func (s *Service) openBuyWindow(game *domain.GameState) Event {
	game.BuySeq++
	now := s.now()
	limit := time.Duration(game.Settings.BuyTimeLimit) * time.Second
	game.TurnPhase = domain.TurnBuy
	game.DiscardIsDead = false
	game.BuyPhase = &domain.BuyPhaseState{
		Seq:              game.BuySeq,
		AskedPlayerIndex: game.CurrentPlayerIndex,
		RespondedPlayers: []string{},
		StartTime:        now,
		Deadline:         now.Add(limit),
	}

	top, _ := game.TopDiscard()
	first := game.CurrentPlayer().ID
	payload := BuyPhaseStartedPayload{
		Seq:            game.BuySeq,
		Mode:           game.Settings.BuyMode,
		Card:           top,
		FirstRefusalID: first,
		TimeLimit:      game.Settings.BuyTimeLimit,
		Deadline:       game.BuyPhase.Deadline,
	}
	if game.Settings.BuyMode == domain.BuySequential {
		payload.AskingPlayerID = first
	}
	return Event{Kind: EventBuyPhaseStarted, Payload: payload}
}

// TakeDiscard is the next drawer's free first-refusal take of the discard. It
// replaces their draw, so their turn continues in the place step.
func (s *Service) TakeDiscard(game *domain.GameState, playerID string) ([]Event, error) {
	if err := requireBuyWindow(game, playerID); err != nil {
		return nil, err
	}
	if game.CurrentPlayer().ID != playerID {
		return nil, fmt.Errorf("%w: only the next player may take the discard for free", ErrNotAuthorized)
	}
	if game.BuyPhase.NextPlayerHasPassed {
		return nil, fmt.Errorf("%w: you already passed on this discard", ErrInvalidPhase)
	}
	card, ok := game.TopDiscard()
	if !ok {
		return nil, fmt.Errorf("%w: discard pile is empty", ErrNotFound)
	}

	player := game.CurrentPlayer()
	seq := game.BuyPhase.Seq
	game.DiscardPile = game.DiscardPile[:len(game.DiscardPile)-1]
	player.Hand = append(player.Hand, card)
	game.BuyPhase = nil
	game.DiscardIsDead = false
	game.TurnPhase = domain.TurnPlace

	return s.finish(game, []Event{
		{Kind: EventDiscardTaken, Payload: DiscardTakenPayload{PlayerID: playerID, Card: card}},
		{Kind: EventBuyPhaseEnded, Payload: BuyPhaseEndedPayload{Seq: seq, Reason: BuyEndTaken, NextPlayerID: playerID}},
	}), nil
}

// WantToBuy claims the discard. From the next drawer it is the free take. Anyone
// else may only buy once the next drawer has passed. In sequential mode they
// must also be the seat being asked; in simultaneous mode the first claim wins.
func (s *Service) WantToBuy(game *domain.GameState, playerID string) ([]Event, error) {
	if err := requireBuyWindow(game, playerID); err != nil {
		return nil, err
	}
	if game.CurrentPlayer().ID == playerID && !game.BuyPhase.NextPlayerHasPassed {
		return s.TakeDiscard(game, playerID)
	}
	idx := game.PlayerIndex(playerID)
	if idx == game.CurrentPlayerIndex {
		return nil, fmt.Errorf("%w: you already passed on this discard", ErrInvalidPhase)
	}
	bp := game.BuyPhase
	if !bp.NextPlayerHasPassed {
		return nil, fmt.Errorf("%w: waiting for next player to decide first", ErrNotAuthorized)
	}
	simultaneous := game.Settings.BuyMode == domain.BuySimultaneous
	if !simultaneous && bp.AskedPlayerIndex != idx {
		return nil, fmt.Errorf("%w: not your turn to buy yet", ErrNotAuthorized)
	}
	if simultaneous && contains(bp.RespondedPlayers, playerID) {
		return nil, fmt.Errorf("%w: you already answered this buy", ErrInvalidPhase)
	}
	if err := canBuy(game, game.Players[idx]); err != nil {
		return nil, err
	}

	if !simultaneous {
		return s.finish(game, s.completeBuy(game, idx, nil)), nil
	}
	events := []Event{{Kind: EventBuyRequested, Payload: BuyRequestedPayload{PlayerID: playerID}}}
	return s.finish(game, s.completeBuy(game, idx, events)), nil
}

// DeclineBuy passes on the discard. The next drawer passing opens the window to
// everyone else. In sequential mode the ask moves to the following seat, skipping
// the discarder, and the window closes once it comes back round to the next drawer.
func (s *Service) DeclineBuy(game *domain.GameState, playerID string) ([]Event, error) {
	if err := requireBuyWindow(game, playerID); err != nil {
		return nil, err
	}
	bp := game.BuyPhase
	idx := game.PlayerIndex(playerID)
	isNext := idx == game.CurrentPlayerIndex

	if game.Settings.BuyMode == domain.BuySequential {
		if bp.AskedPlayerIndex != idx {
			return nil, fmt.Errorf("%w: not your turn to decide", ErrNotAuthorized)
		}
		if isNext {
			bp.NextPlayerHasPassed = true
		}
		ask := game.Seat(bp.AskedPlayerIndex + 1)
		if ask == game.PreviousPlayerIndex() {
			ask = game.Seat(ask + 1)
		}
		payload := BuyDeclinedPayload{PlayerID: playerID, OpenToEveryone: bp.NextPlayerHasPassed}
		if bp.NextPlayerHasPassed && ask == game.CurrentPlayerIndex {
			declined := Event{Kind: EventBuyDeclined, Payload: payload}
			return s.finish(game, s.closeWithoutBuyer(game, BuyEndDeclined, []Event{declined})), nil
		}
		bp.AskedPlayerIndex = ask
		payload.NextAskedID = game.Players[ask].ID
		return s.finish(game, []Event{{Kind: EventBuyDeclined, Payload: payload}}), nil
	}

	if contains(bp.RespondedPlayers, playerID) || (isNext && bp.NextPlayerHasPassed) {
		return nil, fmt.Errorf("%w: you already answered this buy", ErrInvalidPhase)
	}
	if isNext {
		bp.NextPlayerHasPassed = true
	}
	bp.RespondedPlayers = append(bp.RespondedPlayers, playerID)
	events := []Event{{Kind: EventBuyDeclined, Payload: BuyDeclinedPayload{PlayerID: playerID, OpenToEveryone: bp.NextPlayerHasPassed}}}

	if bp.NextPlayerHasPassed && allResponded(game) {
		return s.finish(game, s.closeWithoutBuyer(game, BuyEndDeclined, events)), nil
	}
	return s.finish(game, events), nil
}

// ResolveBuyPhase closes buy window seq without a buyer when its timer fires.
// It is a no-op when the window has already closed or a newer one is open, so a
// timer may fire late or twice.
func (s *Service) ResolveBuyPhase(game *domain.GameState, seq uint64) []Event {
	if game.Phase != domain.PhasePlaying || game.TurnPhase != domain.TurnBuy || game.BuyPhase == nil || game.BuyPhase.Seq != seq {
		return nil
	}
	return s.finish(game, s.closeWithoutBuyer(game, BuyEndTimeout, nil))
}

// ExpireBuyPhase resolves the open buy window if its deadline has passed by now.
// Tick-driven transports call it every tick.
func (s *Service) ExpireBuyPhase(game *domain.GameState, now time.Time) []Event {
	seq, deadline, ok := BuyDeadline(game)
	if !ok || now.Before(deadline) {
		return nil
	}
	return s.ResolveBuyPhase(game, seq)
}

// BuyDeadline returns the open buy window and when it expires.
func BuyDeadline(game *domain.GameState) (seq uint64, deadline time.Time, ok bool) {
	if game == nil || game.Phase != domain.PhasePlaying || game.TurnPhase != domain.TurnBuy || game.BuyPhase == nil {
		return 0, time.Time{}, false
	}
	return game.BuyPhase.Seq, game.BuyPhase.Deadline, true
}

// Actors lists the players currently allowed to act.
func Actors(game *domain.GameState) []string {
	if game == nil || game.Phase != domain.PhasePlaying {
		return nil
	}
	cur := game.CurrentPlayer()
	if game.TurnPhase != domain.TurnBuy || game.BuyPhase == nil {
		return []string{cur.ID}
	}
	bp := game.BuyPhase
	if game.Settings.BuyMode == domain.BuySequential {
		return []string{game.Players[bp.AskedPlayerIndex].ID}
	}
	if !bp.NextPlayerHasPassed {
		return []string{cur.ID}
	}
	var out []string
	prev := game.PreviousPlayerIndex()
	for i, p := range game.Players {
		if i == prev || i == game.CurrentPlayerIndex || contains(bp.RespondedPlayers, p.ID) {
			continue
		}
		out = append(out, p.ID)
	}
	return out
}

// completeBuy gives the discard and two deck cards to the buyer, marks the pile
// dead and hands the turn to the next drawer's draw step.
func (s *Service) completeBuy(game *domain.GameState, buyerIdx int, events []Event) []Event {
	buyer := game.Players[buyerIdx]
	seq := game.BuyPhase.Seq
	s.refillDeck(game, domain.BuyExtraCards)

	card := game.DiscardPile[len(game.DiscardPile)-1]
	game.DiscardPile = game.DiscardPile[:len(game.DiscardPile)-1]
	extra := game.Deck[:domain.BuyExtraCards]
	buyer.Hand = append(buyer.Hand, card)
	buyer.Hand = append(buyer.Hand, extra...)
	game.Deck = game.Deck[domain.BuyExtraCards:]
	buyer.BuysUsed++

	game.BuyPhase = nil
	game.DiscardIsDead = true
	game.TurnPhase = domain.TurnDraw

	return append(events,
		Event{Kind: EventBuyCompleted, Payload: BuyCompletedPayload{
			BuyerID:    buyer.ID,
			Card:       card,
			ExtraCards: domain.BuyExtraCards,
			BuysUsed:   buyer.BuysUsed,
		}},
		Event{Kind: EventBuyPhaseEnded, Payload: BuyPhaseEndedPayload{
			Seq:          seq,
			BuyerID:      buyer.ID,
			Reason:       BuyEndBought,
			NextPlayerID: game.CurrentPlayer().ID,
		}},
	)
}

// closeWithoutBuyer ends the window with the discard still live for the next drawer.
func (s *Service) closeWithoutBuyer(game *domain.GameState, reason string, events []Event) []Event {
	seq := game.BuyPhase.Seq
	game.BuyPhase = nil
	game.DiscardIsDead = false
	game.TurnPhase = domain.TurnDraw
	return append(events, Event{Kind: EventBuyPhaseEnded, Payload: BuyPhaseEndedPayload{
		Seq:          seq,
		Reason:       reason,
		NextPlayerID: game.CurrentPlayer().ID,
	}})
}

func requireBuyWindow(game *domain.GameState, playerID string) error {
	if game.Phase != domain.PhasePlaying || game.TurnPhase != domain.TurnBuy || game.BuyPhase == nil {
		return fmt.Errorf("%w: not in buy phase", ErrInvalidPhase)
	}
	idx := game.PlayerIndex(playerID)
	if idx < 0 {
		return fmt.Errorf("%w: player %s is not in this game", ErrNotFound, playerID)
	}
	if idx == game.PreviousPlayerIndex() && idx != game.CurrentPlayerIndex {
		return fmt.Errorf("%w: you discarded this card", ErrNotAuthorized)
	}
	return nil
}

func canBuy(game *domain.GameState, p *domain.Player) error {
	if p.BuysUsed >= domain.MaxBuysPerRound {
		return fmt.Errorf("%w: no buys remaining (max %d per round)", ErrResourceExhausted, domain.MaxBuysPerRound)
	}
	if len(p.Hand) >= domain.MaxHandSize {
		return fmt.Errorf("%w: too many cards (max %d)", ErrResourceExhausted, domain.MaxHandSize)
	}
	if drawable(game) < domain.BuyExtraCards {
		return fmt.Errorf("%w: not enough cards left in the deck to buy", ErrResourceExhausted)
	}
	return nil
}

// allResponded reports whether every player other than the discarder has answered.
func allResponded(game *domain.GameState) bool {
	bp := game.BuyPhase
	prev := game.PreviousPlayerIndex()
	for i, p := range game.Players {
		if i == prev {
			continue
		}
		if i == game.CurrentPlayerIndex {
			if !bp.NextPlayerHasPassed {
				return false
			}
			continue
		}
		if !contains(bp.RespondedPlayers, p.ID) {
			return false
		}
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

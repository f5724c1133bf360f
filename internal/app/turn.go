package app

import (
	"fmt"

	"shanghai/internal/domain"
)

// DrawFromDeck moves the top deck card into the current player's hand. An empty
// deck is rebuilt from the discard pile under its top card.
func (s *Service) DrawFromDeck(game *domain.GameState, playerID string) ([]Event, error) {
	player, err := requireTurn(game, playerID, domain.TurnDraw)
	if err != nil {
		return nil, err
	}
	if drawable(game) < 1 {
		return nil, fmt.Errorf("%w: no cards left to draw", ErrResourceExhausted)
	}

	reshuffled := s.refillDeck(game, 1)
	card := game.Deck[0]
	game.Deck = game.Deck[1:]
	player.Hand = append(player.Hand, card)
	game.TurnPhase = domain.TurnPlace
	game.DiscardIsDead = false

	return s.finish(game, []Event{{
		Kind:    EventCardDrawn,
		Payload: CardDrawnPayload{PlayerID: playerID, FromDeck: true, Reshuffle: reshuffled},
	}}), nil
}

// DrawFromDiscard moves the top discard into the current player's hand. A card
// bought away during the buy window leaves the pile dead until the next discard.
func (s *Service) DrawFromDiscard(game *domain.GameState, playerID string) ([]Event, error) {
	player, err := requireTurn(game, playerID, domain.TurnDraw)
	if err != nil {
		return nil, err
	}
	if game.DiscardIsDead {
		return nil, fmt.Errorf("%w: the discard was bought and is dead, draw from the deck", ErrInvalidPhase)
	}
	card, ok := game.TopDiscard()
	if !ok {
		return nil, fmt.Errorf("%w: discard pile is empty", ErrNotFound)
	}

	game.DiscardPile = game.DiscardPile[:len(game.DiscardPile)-1]
	player.Hand = append(player.Hand, card)
	game.TurnPhase = domain.TurnPlace

	return s.finish(game, []Event{{
		Kind:    EventCardDrawn,
		Payload: CardDrawnPayload{PlayerID: playerID, Card: &card},
	}}), nil
}

// PlaceContract lays down the round's contract from card ids in the player's
// hand. It does not advance the turn and never ends the round, even when it
// empties the hand.
func (s *Service) PlaceContract(game *domain.GameState, playerID string, groups [][]string) ([]Event, error) {
	player, err := requireTurn(game, playerID, domain.TurnPlace)
	if err != nil {
		return nil, err
	}
	if player.HasPlacedContract {
		return nil, fmt.Errorf("%w: contract already placed this round", ErrInvalidPhase)
	}

	want := game.RoundConfig.Shape()
	if game.RoundConfig.DealersChoice {
		shape, ok := game.DealersChoice.Shape()
		if !ok {
			return nil, fmt.Errorf("%w: the dealer has not chosen the contract yet", ErrInvalidPhase)
		}
		want = shape
	}

	cards, used, missing, ok := domain.ResolveGroups(player.Hand, groups)
	if !ok {
		return nil, fmt.Errorf("%w: card %s is not in your hand", ErrNotFound, missing)
	}
	got, ok := domain.CountMelds(cards)
	if !ok {
		return nil, fmt.Errorf("%w: invalid book or run", ErrInvalidMeld)
	}
	if got != want {
		return nil, fmt.Errorf("%w: must place %d books and %d runs", ErrInvalidMeld, want.Books, want.Runs)
	}

	player.Hand = domain.RemoveCards(player.Hand, used)
	player.PlacedCards = cards
	player.HasPlacedContract = true

	return s.finish(game, []Event{{
		Kind:    EventContractPlaced,
		Payload: ContractPlacedPayload{PlayerID: playerID, Groups: cards},
	}}), nil
}

// DiscardCard ends the current player's turn. Emptying the hand ends the round;
// otherwise the turn passes left and a buy window opens on the discard.
func (s *Service) DiscardCard(game *domain.GameState, playerID, cardID string) ([]Event, error) {
	player, err := requireTurn(game, playerID, domain.TurnPlace, domain.TurnDiscard)
	if err != nil {
		return nil, err
	}
	i := domain.IndexOfCard(player.Hand, cardID)
	if i < 0 {
		return nil, fmt.Errorf("%w: card %s is not in your hand", ErrNotFound, cardID)
	}

	card := player.Hand[i]
	player.Hand = domain.RemoveCardAt(player.Hand, i)
	game.DiscardPile = append(game.DiscardPile, card)

	events := []Event{{
		Kind:    EventCardDiscarded,
		Payload: CardDiscardedPayload{PlayerID: playerID, Card: card},
	}}
	if len(player.Hand) == 0 {
		events = append(events, s.endRound(game, playerID))
		return s.finish(game, events), nil
	}

	game.CurrentPlayerIndex = game.Seat(game.CurrentPlayerIndex + 1)
	events = append(events, s.openBuyWindow(game))
	return s.finish(game, events), nil
}

// AddToMeld attaches one card from the player's hand to any placed meld. The
// player must have placed their own contract and the meld must stay the same
// kind. Laying off the last card is allowed; only a discard ends the round.
func (s *Service) AddToMeld(game *domain.GameState, playerID, targetPlayerID string, meldIndex int, cardID string) ([]Event, error) {
	if game.Phase != domain.PhasePlaying {
		return nil, fmt.Errorf("%w: game is %s", ErrInvalidPhase, game.Phase)
	}
	player := game.Player(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: player %s is not in this game", ErrNotFound, playerID)
	}
	if !player.HasPlacedContract {
		return nil, fmt.Errorf("%w: you must place your contract first", ErrInvalidPhase)
	}
	target := game.Player(targetPlayerID)
	if target == nil {
		return nil, fmt.Errorf("%w: player %s is not in this game", ErrNotFound, targetPlayerID)
	}
	if meldIndex < 0 || meldIndex >= len(target.PlacedCards) {
		return nil, fmt.Errorf("%w: meld %d", ErrNotFound, meldIndex)
	}
	i := domain.IndexOfCard(player.Hand, cardID)
	if i < 0 {
		return nil, fmt.Errorf("%w: card %s is not in your hand", ErrNotFound, cardID)
	}

	meld := target.PlacedCards[meldIndex]
	card := player.Hand[i]
	if !domain.FitsMeld(meld, card) {
		return nil, fmt.Errorf("%w: card doesn't fit in this meld", ErrInvalidMeld)
	}

	target.PlacedCards[meldIndex] = append(append(make([]domain.Card, 0, len(meld)+1), meld...), card)
	player.Hand = domain.RemoveCardAt(player.Hand, i)

	return s.finish(game, []Event{{
		Kind: EventCardAddedToMeld,
		Payload: CardAddedToMeldPayload{
			PlayerID:       playerID,
			TargetPlayerID: targetPlayerID,
			MeldIndex:      meldIndex,
			Card:           card,
		},
	}}), nil
}

// drawable counts cards available to the deck, including the reshufflable part
// of the discard pile.
func drawable(game *domain.GameState) int {
	n := len(game.Deck)
	if len(game.DiscardPile) > 1 {
		n += len(game.DiscardPile) - 1
	}
	return n
}

// refillDeck reshuffles the discard pile minus its top into the deck when the
// deck holds fewer than need cards. It reports whether it reshuffled.
func (s *Service) refillDeck(game *domain.GameState, need int) bool {
	if len(game.Deck) >= need || len(game.DiscardPile) < 2 {
		return false
	}
	top := game.DiscardPile[len(game.DiscardPile)-1]
	under := game.DiscardPile[:len(game.DiscardPile)-1]
	domain.Shuffle(under, s.rng)
	game.Deck = append(game.Deck, under...)
	game.DiscardPile = []domain.Card{top}
	return true
}

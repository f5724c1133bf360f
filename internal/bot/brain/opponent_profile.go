package brain

import "shanghai/internal/domain"

// OpponentProfile tracks what one opponent has picked up and thrown away.
type OpponentProfile struct {
	PlayerID string
	// Taken counts ranks the opponent took from the discard pile.
	Taken map[domain.Rank]int
	// TakenSuits counts suits the opponent took from the discard pile.
	TakenSuits map[domain.Suit]int
	// Discarded counts ranks the opponent let go of.
	Discarded map[domain.Rank]int
	Buys      int
	Placed    bool
}

// NewOpponentProfile initializes a profile for a player.
func NewOpponentProfile(playerID string) *OpponentProfile {
	return &OpponentProfile{
		PlayerID:   playerID,
		Taken:      make(map[domain.Rank]int),
		TakenSuits: make(map[domain.Suit]int),
		Discarded:  make(map[domain.Rank]int),
	}
}

// RecordTake logs a card taken from the discard pile, freely or by buying.
func (p *OpponentProfile) RecordTake(card domain.Card) {
	if card.IsJoker() {
		return
	}
	p.Taken[card.Rank]++
	p.TakenSuits[card.Suit]++
}

// RecordDiscard logs a card the opponent discarded.
func (p *OpponentProfile) RecordDiscard(card domain.Card) {
	if card.IsJoker() {
		return
	}
	p.Discarded[card.Rank]++
}

// Wants reports whether the evidence suggests card would help this opponent.
// A rank the opponent has taken and never thrown back is assumed wanted.
func (p *OpponentProfile) Wants(card domain.Card) bool {
	if card.IsJoker() {
		return true
	}
	return p.Taken[card.Rank] > p.Discarded[card.Rank]
}

func (p *OpponentProfile) reset() {
	p.Taken = make(map[domain.Rank]int)
	p.TakenSuits = make(map[domain.Suit]int)
	p.Discarded = make(map[domain.Rank]int)
	p.Buys = 0
	p.Placed = false
}

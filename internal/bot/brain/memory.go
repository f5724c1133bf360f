package brain

import (
	"shanghai/internal/app"
	"shanghai/internal/domain"
)

// GameMemory is a bot's private record of what has happened this round. It is
// fed from the same events the players receive, so it never sees hidden hands.
type GameMemory struct {
	Self      string
	Round     int
	Opponents map[string]*OpponentProfile
	// Seen counts cards of each rank that went by face up on the discard pile.
	Seen map[domain.Rank]int
}

// NewMemory initializes memory for the bot playing as self.
func NewMemory(self string) *GameMemory {
	return &GameMemory{
		Self:      self,
		Opponents: make(map[string]*OpponentProfile),
		Seen:      make(map[domain.Rank]int),
	}
}

// Reset clears round-scoped knowledge.
func (m *GameMemory) Reset(round int) {
	m.Round = round
	m.Seen = make(map[domain.Rank]int)
	for _, p := range m.Opponents {
		p.reset()
	}
}

// Opponent returns the profile for playerID, creating it on first use.
func (m *GameMemory) Opponent(playerID string) *OpponentProfile {
	p, ok := m.Opponents[playerID]
	if !ok {
		p = NewOpponentProfile(playerID)
		m.Opponents[playerID] = p
	}
	return p
}

// Observe updates memory from one game event.
func (m *GameMemory) Observe(ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		m.Reset(p.Round)
	case app.NextRoundStartingPayload:
		m.Reset(p.Round)
	case app.BuyPhaseStartedPayload:
		m.Seen[p.Card.Rank]++
	case app.CardDiscardedPayload:
		if p.PlayerID != m.Self {
			m.Opponent(p.PlayerID).RecordDiscard(p.Card)
		}
	case app.DiscardTakenPayload:
		if p.PlayerID != m.Self {
			m.Opponent(p.PlayerID).RecordTake(p.Card)
		}
	case app.BuyCompletedPayload:
		if p.BuyerID != m.Self {
			o := m.Opponent(p.BuyerID)
			o.RecordTake(p.Card)
			o.Buys = p.BuysUsed
		}
	case app.CardDrawnPayload:
		if p.PlayerID != m.Self && p.Card != nil {
			m.Opponent(p.PlayerID).RecordTake(*p.Card)
		}
	case app.ContractPlacedPayload:
		if p.PlayerID != m.Self {
			m.Opponent(p.PlayerID).Placed = true
		}
	}
}

// Feeds reports whether discarding card would likely help an opponent.
func (m *GameMemory) Feeds(card domain.Card) bool {
	for _, p := range m.Opponents {
		if p.Wants(card) {
			return true
		}
	}
	return false
}

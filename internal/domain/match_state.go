package domain

// PlayerIndex returns the seat index of id or -1.
func (g *GameState) PlayerIndex(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Player returns the player with id or nil.
func (g *GameState) Player(id string) *Player {
	if i := g.PlayerIndex(id); i >= 0 {
		return g.Players[i]
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil for an empty table.
func (g *GameState) CurrentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// Dealer returns the dealer of the current round.
func (g *GameState) Dealer() *Player {
	if g.DealerIndex < 0 || g.DealerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.DealerIndex]
}

// Seat wraps i onto the table.
func (g *GameState) Seat(i int) int {
	n := len(g.Players)
	return ((i % n) + n) % n
}

// PreviousPlayerIndex is the seat before the current player, i.e. the last discarder.
func (g *GameState) PreviousPlayerIndex() int {
	return g.Seat(g.CurrentPlayerIndex - 1)
}

// TopDiscard returns the active discard, if any.
func (g *GameState) TopDiscard() (Card, bool) {
	if len(g.DiscardPile) == 0 {
		return Card{}, false
	}
	return g.DiscardPile[len(g.DiscardPile)-1], true
}

// CardCount totals every card held anywhere in the game. It equals TotalCards
// whenever a round is in progress.
func (g *GameState) CardCount() int {
	n := len(g.Deck) + len(g.DiscardPile)
	for _, p := range g.Players {
		n += len(p.Hand)
		for _, meld := range p.PlacedCards {
			n += len(meld)
		}
	}
	return n
}

// CardLocations maps every card id to how many times it occurs. A healthy game
// has exactly one occurrence per id.
func (g *GameState) CardLocations() map[string]int {
	seen := make(map[string]int, TotalCards)
	mark := func(cards []Card) {
		for _, c := range cards {
			seen[c.ID]++
		}
	}
	mark(g.Deck)
	mark(g.DiscardPile)
	for _, p := range g.Players {
		mark(p.Hand)
		for _, meld := range p.PlacedCards {
			mark(meld)
		}
	}
	return seen
}

// Clone returns a deep copy of the game.
func (g *GameState) Clone() *GameState {
	out := *g
	out.Deck = cloneCards(g.Deck)
	out.DiscardPile = cloneCards(g.DiscardPile)
	if g.RoundConfig.Contracts != nil {
		out.RoundConfig.Contracts = make([]ContractRequirement, len(g.RoundConfig.Contracts))
		copy(out.RoundConfig.Contracts, g.RoundConfig.Contracts)
	}
	out.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		cp.Hand = cloneCards(p.Hand)
		if p.PlacedCards != nil {
			cp.PlacedCards = make([][]Card, len(p.PlacedCards))
			for j, meld := range p.PlacedCards {
				cp.PlacedCards[j] = cloneCards(meld)
			}
		}
		out.Players[i] = &cp
	}
	if g.BuyPhase != nil {
		bp := *g.BuyPhase
		bp.RespondedPlayers = cloneStrings(g.BuyPhase.RespondedPlayers)
		out.BuyPhase = &bp
	}
	return &out
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	copy(out, cards)
	return out
}

func cloneStrings(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

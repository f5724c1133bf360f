package internal

import "shanghai/internal/domain"

// HandProfile summarises how close a hand is to the melds a round asks for.
type HandProfile struct {
	TotalCards int
	Jokers     int
	// Books counts ranks held at least MinBookSize times.
	Books int
	// Pairs counts ranks held exactly twice.
	Pairs int
	// RunCards counts naturals with a same-suit neighbour within two ranks.
	RunCards int
	Points   int
}

// ProfileHand analyses a hand for contract progress.
func ProfileHand(hand []domain.Card) HandProfile {
	profile := HandProfile{TotalCards: len(hand), Points: domain.HandPoints(hand)}
	ranks := make(map[domain.Rank]int)
	for _, c := range hand {
		if c.IsJoker() {
			profile.Jokers++
			continue
		}
		ranks[c.Rank]++
		if runNeighbours(hand, c) > 0 {
			profile.RunCards++
		}
	}
	for _, n := range ranks {
		switch {
		case n >= domain.MinBookSize:
			profile.Books++
		case n == 2:
			profile.Pairs++
		}
	}
	return profile
}

// Usefulness scores how much card contributes to potential melds in hand,
// which should not already contain it. Jokers are always the most useful card.
func Usefulness(hand []domain.Card, card domain.Card, wantBooks, wantRuns bool) float64 {
	if card.IsJoker() {
		return 100
	}
	score := 0.0
	if wantBooks {
		same := 0
		for _, c := range hand {
			if c.ID != card.ID && !c.IsJoker() && c.Rank == card.Rank {
				same++
			}
		}
		switch {
		case same >= 2:
			score += 12
		case same == 1:
			score += 6
		}
	}
	if wantRuns {
		score += 4 * float64(runNeighbours(hand, card))
	}
	return score
}

// runNeighbours counts distinct same-suit ranks within two of card's rank.
func runNeighbours(hand []domain.Card, card domain.Card) int {
	v := domain.RankValue(card.Rank)
	seen := make(map[int]bool)
	for _, c := range hand {
		if c.ID == card.ID || c.IsJoker() || c.Suit != card.Suit {
			continue
		}
		d := domain.RankValue(c.Rank) - v
		if d != 0 && d >= -2 && d <= 2 {
			seen[d] = true
		}
	}
	return len(seen)
}

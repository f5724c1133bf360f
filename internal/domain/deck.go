package domain

import (
	"fmt"
	"math/rand"
)

const (
	// DeckCount is the number of standard 52-card decks combined into one shoe.
	DeckCount = 2
	// JokerCount is the number of jokers added to the shoe.
	JokerCount = 4
	// TotalCards is the size of a freshly built shoe.
	TotalCards = DeckCount*52 + JokerCount
)

// NewDeck returns an ordered 108-card shoe with ids card-0 through card-107.
func NewDeck() []Card {
	deck := make([]Card, 0, TotalCards)
	next := 0
	add := func(s Suit, r Rank) {
		deck = append(deck, Card{
			ID:     fmt.Sprintf("card-%d", next),
			Suit:   s,
			Rank:   r,
			Points: PointValue(r),
		})
		next++
	}
	for d := 0; d < DeckCount; d++ {
		for _, s := range Suits {
			for _, r := range Ranks {
				add(s, r)
			}
		}
	}
	for i := 0; i < JokerCount; i++ {
		add(SuitJoker, RankJoker)
	}
	return deck
}

// Shuffle permutes cards in place with Fisher-Yates using rng.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

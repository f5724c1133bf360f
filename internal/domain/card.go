package domain

import "strconv"

// Suit of a card. Jokers carry SuitJoker.
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
	SuitJoker    Suit = "joker"
)

// Suits lists the four standard suits in deck construction order.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Rank of a card. Jokers carry RankJoker.
type Rank string

const (
	RankAce   Rank = "A"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankJoker Rank = "JOKER"
)

// Ranks lists the thirteen standard ranks from ace to king.
var Ranks = []Rank{
	RankAce, "2", "3", "4", "5", "6", "7", "8", "9", "10", RankJack, RankQueen, RankKing,
}

// Card is a single physical card. ID is unique within one deck build; two cards
// with the same suit and rank are still distinct cards.
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Rank   Rank   `json:"rank"`
	Points int    `json:"point"`
}

// IsJoker reports whether the card is a wildcard.
func (c Card) IsJoker() bool {
	return c.Rank == RankJoker
}

// String renders the card as rank+suit initial, e.g. "10h" or "JOKER".
func (c Card) String() string {
	if c.IsJoker() {
		return string(RankJoker)
	}
	if c.Suit == "" {
		return string(c.Rank)
	}
	return string(c.Rank) + string(c.Suit[0])
}

// RankValue orders ranks for runs: A=1 through K=13. Jokers and unknown ranks return 0.
func RankValue(r Rank) int {
	switch r {
	case RankAce:
		return 1
	case RankJack:
		return 11
	case RankQueen:
		return 12
	case RankKing:
		return 13
	case RankJoker:
		return 0
	}
	n, err := strconv.Atoi(string(r))
	if err != nil || n < 2 || n > 10 {
		return 0
	}
	return n
}

// PointValue is the penalty a card scores when left in hand at round end.
func PointValue(r Rank) int {
	switch r {
	case RankJoker:
		return 50
	case RankAce:
		return 15
	case RankJack, RankQueen, RankKing:
		return 10
	}
	if RankValue(r) > 0 {
		return 5
	}
	return 0
}

// HandPoints sums the point values of the given cards.
func HandPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points
	}
	return total
}

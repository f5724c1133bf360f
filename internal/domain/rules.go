package domain

import "sort"

const (
	// MinBookSize is the smallest legal book.
	MinBookSize = 3
	// MinRunSize is the smallest legal run.
	MinRunSize = 4
)

// MeldType classifies a group of cards.
type MeldType string

const (
	MeldInvalid MeldType = ""
	MeldBook    MeldType = "book"
	MeldRun     MeldType = "run"
)

// IsValidBook reports whether cards form a book: at least three cards, at least
// one natural card, and every natural card sharing one rank. Jokers stand in for
// any rank.
func IsValidBook(cards []Card) bool {
	if len(cards) < MinBookSize {
		return false
	}
	var rank Rank
	for _, c := range cards {
		if c.IsJoker() {
			continue
		}
		if rank == "" {
			rank = c.Rank
			continue
		}
		if c.Rank != rank {
			return false
		}
	}
	return rank != ""
}

// IsValidRun reports whether cards form a run: at least four cards of one suit
// whose natural ranks, sorted A=1..K=13 without wraparound, have gaps that the
// available jokers can bridge. A gap of g between neighbours costs g-1 jokers and
// the total cost across all gaps must not exceed the joker count. Jokers left over
// after bridging simply extend the run.
func IsValidRun(cards []Card) bool {
	if len(cards) < MinRunSize {
		return false
	}

	jokers := 0
	values := make([]int, 0, len(cards))
	var suit Suit
	for _, c := range cards {
		if c.IsJoker() {
			jokers++
			continue
		}
		if suit == "" {
			suit = c.Suit
		} else if c.Suit != suit {
			return false
		}
		v := RankValue(c.Rank)
		if v == 0 {
			return false
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return false
	}

	sort.Ints(values)
	used := 0
	for i := 1; i < len(values); i++ {
		gap := values[i] - values[i-1]
		if gap == 0 {
			return false
		}
		used += gap - 1
		if used > jokers {
			return false
		}
	}
	return true
}

// ClassifyMeld returns the meld type of cards. Books win ties, so one natural
// rank padded out with jokers is a book.
func ClassifyMeld(cards []Card) MeldType {
	switch {
	case IsValidBook(cards):
		return MeldBook
	case IsValidRun(cards):
		return MeldRun
	default:
		return MeldInvalid
	}
}

// FitsMeld reports whether card can be added to a placed meld. The grown meld
// must still be valid as the meld's own kind.
func FitsMeld(meld []Card, card Card) bool {
	grown := append(append(make([]Card, 0, len(meld)+1), meld...), card)
	switch ClassifyMeld(meld) {
	case MeldBook:
		return IsValidBook(grown)
	case MeldRun:
		return IsValidRun(grown)
	default:
		return false
	}
}

// ContractShape counts the books and runs a contract demands.
type ContractShape struct {
	Books int `json:"books"`
	Runs  int `json:"runs"`
}

// CountMelds classifies groups and returns how many books and runs they contain.
// ok is false if any group is neither.
func CountMelds(groups [][]Card) (shape ContractShape, ok bool) {
	for _, g := range groups {
		switch ClassifyMeld(g) {
		case MeldBook:
			shape.Books++
		case MeldRun:
			shape.Runs++
		default:
			return shape, false
		}
	}
	return shape, true
}

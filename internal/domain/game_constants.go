package domain

const (
	// RoundCount is the number of rounds in a full game.
	RoundCount = 7
	// MaxBuysPerRound caps how many buys one player may make in a round.
	MaxBuysPerRound = 3
	// MaxHandSize is the hand size at which a player may no longer buy.
	MaxHandSize = 18
	// BuyExtraCards is the number of deck cards a buyer takes with the discard.
	BuyExtraCards = 2
	// MinPlayers and MaxPlayers bound the table size.
	MinPlayers = 2
	MaxPlayers = 6
)

// DealersChoice is the round-seven contract picked by the dealer.
type DealersChoice string

const (
	ChoiceBooks DealersChoice = "books"
	ChoiceRuns  DealersChoice = "runs"
)

// Shape returns the contract the choice stands for.
func (c DealersChoice) Shape() (ContractShape, bool) {
	switch c {
	case ChoiceBooks:
		return ContractShape{Books: 4}, true
	case ChoiceRuns:
		return ContractShape{Runs: 3}, true
	}
	return ContractShape{}, false
}

// ContractRequirement is one line of a round's contract.
type ContractRequirement struct {
	Type  MeldType `json:"type"`
	Count int      `json:"count"`
}

// RoundConfig is the static definition of one round.
type RoundConfig struct {
	Round         int                   `json:"round"`
	CardsDealt    int                   `json:"cardsDealt"`
	Contracts     []ContractRequirement `json:"contracts"`
	DealersChoice bool                  `json:"dealersChoice,omitempty"`
	Description   string                `json:"description"`
}

// Shape sums the contract lines. Dealer's-choice rounds have no static shape.
func (rc RoundConfig) Shape() ContractShape {
	var s ContractShape
	for _, c := range rc.Contracts {
		switch c.Type {
		case MeldBook:
			s.Books += c.Count
		case MeldRun:
			s.Runs += c.Count
		}
	}
	return s
}

var rounds = [RoundCount]RoundConfig{
	{Round: 1, CardsDealt: 6, Contracts: []ContractRequirement{{MeldBook, 2}}, Description: "2 books"},
	{Round: 2, CardsDealt: 7, Contracts: []ContractRequirement{{MeldBook, 1}, {MeldRun, 1}}, Description: "1 book and 1 run"},
	{Round: 3, CardsDealt: 8, Contracts: []ContractRequirement{{MeldRun, 2}}, Description: "2 runs"},
	{Round: 4, CardsDealt: 9, Contracts: []ContractRequirement{{MeldBook, 3}}, Description: "3 books"},
	{Round: 5, CardsDealt: 10, Contracts: []ContractRequirement{{MeldBook, 2}, {MeldRun, 1}}, Description: "2 books and 1 run"},
	{Round: 6, CardsDealt: 11, Contracts: []ContractRequirement{{MeldRun, 2}, {MeldBook, 1}}, Description: "2 runs and 1 book"},
	{Round: 7, CardsDealt: 12, DealersChoice: true, Description: "dealer's choice: 4 books or 3 runs"},
}

// RoundConfigFor returns the configuration for round n (1-based).
func RoundConfigFor(n int) (RoundConfig, bool) {
	if n < 1 || n > RoundCount {
		return RoundConfig{}, false
	}
	rc := rounds[n-1]
	rc.Contracts = append([]ContractRequirement(nil), rc.Contracts...)
	return rc, true
}

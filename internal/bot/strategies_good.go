package bot

import (
	"math/rand"

	"shanghai/internal/app"
	"shanghai/internal/bot/brain"
	botinternal "shanghai/internal/bot/internal"
	"shanghai/internal/domain"
)

// GoodBot builds towards the round's contract: it takes and buys discards that
// fit its hand, lays down as soon as it can, extends melds and discards through
// a scoring pipeline that avoids feeding opponents.
type GoodBot struct {
	Memory *brain.GameMemory
	Tuning Tuning
	Rules  []DiscardRule
	rng    *rand.Rand
}

// NewGoodBot creates a good bot playing as self.
func NewGoodBot(self string, rng *rand.Rand) *GoodBot {
	return &GoodBot{
		Memory: brain.NewMemory(self),
		Tuning: DefaultTuning,
		Rules:  DefaultDiscardRules,
		rng:    rng,
	}
}

func (b *GoodBot) Decide(game *domain.GameState, player *domain.Player) (Action, error) {
	if needsDealersChoice(game, player) {
		return Action{Kind: ActionDealersChoice, Choice: b.chooseContract(player.Hand)}, nil
	}
	if game.Phase != domain.PhasePlaying {
		return Action{Kind: ActionWait}, nil
	}
	weights := b.Tuning.ForPhase(botinternal.DetectPhase(game))
	wantBooks, wantRuns := wants(game)

	switch game.TurnPhase {
	case domain.TurnBuy:
		return b.decideBuy(game, player, weights, wantBooks, wantRuns), nil
	case domain.TurnDraw:
		if game.CurrentPlayer().ID != player.ID {
			return Action{Kind: ActionWait}, nil
		}
		if top, ok := game.TopDiscard(); ok && !game.DiscardIsDead &&
			b.value(player, top, wantBooks, wantRuns) >= weights.TakeThreshold {
			return Action{Kind: ActionDrawDiscard}, nil
		}
		return Action{Kind: ActionDrawDeck}, nil
	}

	if game.CurrentPlayer().ID != player.ID || len(player.Hand) == 0 {
		return Action{Kind: ActionWait}, nil
	}
	if game.TurnPhase == domain.TurnPlace {
		if act, ok := placeOrLayOff(game, player); ok {
			return act, nil
		}
	}

	ctx := &DiscardContext{
		Hand:      player.Hand,
		Weights:   weights,
		Memory:    b.Memory,
		WantBooks: wantBooks,
		WantRuns:  wantRuns,
	}
	card, ok := ChooseDiscard(ctx, b.Rules)
	if !ok {
		return Action{Kind: ActionWait}, nil
	}
	return Action{Kind: ActionDiscard, CardID: card.ID}, nil
}

func (b *GoodBot) OnEvent(ev app.Event) {
	b.Memory.Observe(ev)
}

func (b *GoodBot) decideBuy(game *domain.GameState, player *domain.Player, w PhaseWeights, wantBooks, wantRuns bool) Action {
	asked, free := isAsked(game, player)
	if !asked {
		return Action{Kind: ActionWait}
	}
	top, ok := game.TopDiscard()
	if !ok {
		return Action{Kind: ActionDeclineBuy}
	}
	value := b.value(player, top, wantBooks, wantRuns)
	if free {
		if value >= w.TakeThreshold {
			return Action{Kind: ActionTakeDiscard}
		}
		return Action{Kind: ActionDeclineBuy}
	}

	if player.HasPlacedContract || player.BuysUsed >= domain.MaxBuysPerRound ||
		len(player.Hand) >= domain.MaxHandSize-domain.BuyExtraCards ||
		len(game.Deck)+len(game.DiscardPile)-1 < domain.BuyExtraCards {
		return Action{Kind: ActionDeclineBuy}
	}
	// A little noise keeps bots at one table from all behaving identically.
	if value+b.rng.Float64()*2 >= w.BuyThreshold {
		return Action{Kind: ActionWantToBuy}
	}
	return Action{Kind: ActionDeclineBuy}
}

// value scores how much card would help player. After laying down, only cards
// that extend a meld on the table count.
func (b *GoodBot) value(player *domain.Player, card domain.Card, wantBooks, wantRuns bool) float64 {
	if !player.HasPlacedContract {
		return botinternal.Usefulness(player.Hand, card, wantBooks, wantRuns)
	}
	if card.IsJoker() {
		return 100
	}
	for _, meld := range player.PlacedCards {
		if domain.FitsMeld(meld, card) {
			return 20
		}
	}
	return 0
}

// chooseContract picks books or runs for round seven from the dealt hand.
func (b *GoodBot) chooseContract(hand []domain.Card) domain.DealersChoice {
	books, _ := domain.ChoiceBooks.Shape()
	runs, _ := domain.ChoiceRuns.Shape()
	bookPlan, bookOK := botinternal.FindContract(hand, books, 1)
	runPlan, runOK := botinternal.FindContract(hand, runs, 1)
	switch {
	case bookOK && (!runOK || bookPlan.Better(runPlan)):
		return domain.ChoiceBooks
	case runOK:
		return domain.ChoiceRuns
	}
	p := botinternal.ProfileHand(hand)
	if 3*p.Books+2*p.Pairs >= p.RunCards {
		return domain.ChoiceBooks
	}
	return domain.ChoiceRuns
}

// wants reports which meld kinds the round's contract asks for. Before the
// round-seven choice is made both count.
func wants(game *domain.GameState) (books, runs bool) {
	shape, ok := contractShape(game)
	if !ok {
		return true, true
	}
	return shape.Books > 0, shape.Runs > 0
}

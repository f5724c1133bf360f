package bot

import (
	"shanghai/internal/bot/brain"
	botinternal "shanghai/internal/bot/internal"
	"shanghai/internal/domain"
)

// DiscardContext holds the candidates and running scores for a discard choice.
// Higher scores are better to throw away.
type DiscardContext struct {
	Hand       []domain.Card
	Candidates []domain.Card
	Scores     []float64
	Weights    PhaseWeights
	Memory     *brain.GameMemory
	WantBooks  bool
	WantRuns   bool
}

// DiscardRule adjusts candidate scores.
type DiscardRule interface {
	Name() string
	Apply(ctx *DiscardContext)
}

// KeepMeldCardsRule penalises discarding cards that build towards melds.
type KeepMeldCardsRule struct{}

func (r *KeepMeldCardsRule) Name() string { return "KeepMeldCards" }

func (r *KeepMeldCardsRule) Apply(ctx *DiscardContext) {
	for i, c := range ctx.Candidates {
		ctx.Scores[i] -= ctx.Weights.UsefulnessWeight * botinternal.Usefulness(ctx.Hand, c, ctx.WantBooks, ctx.WantRuns)
	}
}

// DumpPointsRule favours throwing away high-point cards.
type DumpPointsRule struct{}

func (r *DumpPointsRule) Name() string { return "DumpPoints" }

func (r *DumpPointsRule) Apply(ctx *DiscardContext) {
	for i, c := range ctx.Candidates {
		ctx.Scores[i] += ctx.Weights.PointWeight * float64(c.Points)
	}
}

// AvoidFeedingRule penalises discards an opponent has been collecting.
type AvoidFeedingRule struct{}

func (r *AvoidFeedingRule) Name() string { return "AvoidFeeding" }

func (r *AvoidFeedingRule) Apply(ctx *DiscardContext) {
	if ctx.Memory == nil {
		return
	}
	for i, c := range ctx.Candidates {
		if ctx.Memory.Feeds(c) {
			ctx.Scores[i] -= ctx.Weights.FeedPenalty
		}
	}
}

// DefaultDiscardRules is the good bot's discard pipeline.
var DefaultDiscardRules = []DiscardRule{
	&KeepMeldCardsRule{},
	&DumpPointsRule{},
	&AvoidFeedingRule{},
}

// ChooseDiscard runs rules over hand and returns the best card to discard.
// Jokers are only discarded when nothing else is left.
func ChooseDiscard(ctx *DiscardContext, rules []DiscardRule) (domain.Card, bool) {
	ctx.Candidates = ctx.Candidates[:0]
	for _, c := range ctx.Hand {
		if !c.IsJoker() {
			ctx.Candidates = append(ctx.Candidates, c)
		}
	}
	if len(ctx.Candidates) == 0 {
		ctx.Candidates = append(ctx.Candidates, ctx.Hand...)
	}
	if len(ctx.Candidates) == 0 {
		return domain.Card{}, false
	}
	ctx.Scores = make([]float64, len(ctx.Candidates))
	for _, rule := range rules {
		rule.Apply(ctx)
	}

	best := 0
	for i := 1; i < len(ctx.Candidates); i++ {
		if ctx.Scores[i] > ctx.Scores[best] {
			best = i
		}
	}
	return ctx.Candidates[best], true
}

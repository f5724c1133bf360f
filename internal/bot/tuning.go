package bot

import botinternal "shanghai/internal/bot/internal"

// PhaseWeights tune the good bot for one stage of a round.
type PhaseWeights struct {
	// UsefulnessWeight scales how strongly meld potential keeps a card.
	UsefulnessWeight float64
	// PointWeight scales how eagerly high-point cards are dumped.
	PointWeight float64
	// FeedPenalty is subtracted from discards an opponent seems to collect.
	FeedPenalty float64
	// TakeThreshold is the usefulness at which the free discard is taken.
	TakeThreshold float64
	// BuyThreshold is the usefulness at which a discard is worth two extra cards.
	BuyThreshold float64
}

// Tuning holds the good bot's weights per phase.
type Tuning struct {
	Opening PhaseWeights
	Mid     PhaseWeights
	End     PhaseWeights
}

// ForPhase picks the weights for phase.
func (t Tuning) ForPhase(phase botinternal.GamePhase) PhaseWeights {
	switch phase {
	case botinternal.PhaseOpening:
		return t.Opening
	case botinternal.PhaseEnd:
		return t.End
	default:
		return t.Mid
	}
}

// DefaultTuning buys freely early and dumps points once someone is close to out.
var DefaultTuning = Tuning{
	Opening: PhaseWeights{
		UsefulnessWeight: 1.0,
		PointWeight:      0.2,
		FeedPenalty:      4,
		TakeThreshold:    6,
		BuyThreshold:     10,
	},
	Mid: PhaseWeights{
		UsefulnessWeight: 1.0,
		PointWeight:      0.4,
		FeedPenalty:      8,
		TakeThreshold:    6,
		BuyThreshold:     12,
	},
	End: PhaseWeights{
		UsefulnessWeight: 0.6,
		PointWeight:      1.0,
		FeedPenalty:      15,
		TakeThreshold:    8,
		BuyThreshold:     1000,
	},
}

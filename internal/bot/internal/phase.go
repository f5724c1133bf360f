package internal

import "shanghai/internal/domain"

// GamePhase describes how close the current round is to ending.
type GamePhase int

const (
	// PhaseOpening means nobody has laid down a contract yet.
	PhaseOpening GamePhase = iota
	// PhaseMid means contracts are down but nobody is close to going out.
	PhaseMid
	// PhaseEnd means some player who has laid down holds few cards.
	PhaseEnd
)

// endHandSize is the hand size at which a player with a contract down is
// considered about to go out.
const endHandSize = 3

// DetectPhase infers the round phase from contracts placed and hand sizes.
func DetectPhase(game *domain.GameState) GamePhase {
	if game == nil || len(game.Players) == 0 {
		return PhaseMid
	}
	placed := false
	for _, p := range game.Players {
		if p == nil || !p.HasPlacedContract {
			continue
		}
		placed = true
		if len(p.Hand) <= endHandSize {
			return PhaseEnd
		}
	}
	if placed {
		return PhaseMid
	}
	return PhaseOpening
}

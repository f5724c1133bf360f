package app

import (
	"time"

	"shanghai/internal/domain"
)

// PlayerView is a game snapshot as one viewer may see it.
type PlayerView struct {
	ID                 string               `json:"id"`
	Code               string               `json:"gameCode"`
	ViewerID           string               `json:"viewerId"`
	HostID             string               `json:"hostId"`
	Players            []PlayerSummary      `json:"players"`
	CurrentPlayerIndex int                  `json:"currentPlayerIndex"`
	CurrentPlayerID    string               `json:"currentPlayerId"`
	Round              int                  `json:"round"`
	DealerIndex        int                  `json:"dealerIndex"`
	DeckCount          int                  `json:"deckCount"`
	TopDiscard         *domain.Card         `json:"topDiscard"`
	DiscardCount       int                  `json:"discardCount"`
	Phase              domain.Phase         `json:"phase"`
	TurnPhase          domain.TurnPhase     `json:"turnPhase"`
	RoundConfig        domain.RoundConfig   `json:"roundConfig"`
	DealersChoice      domain.DealersChoice `json:"dealersChoice,omitempty"`
	Settings           domain.GameSettings  `json:"settings"`
	BuyPhase           *BuyPhaseView        `json:"buyPhase,omitempty"`
	DiscardIsDead      bool                 `json:"discardIsDead"`
	RoundWinnerID      string               `json:"roundWinnerId,omitempty"`
}

// PlayerSummary is one seat in a PlayerView. Hand is only filled for the viewer.
type PlayerSummary struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Hand              []domain.Card   `json:"hand"`
	CardCount         int             `json:"cardCount"`
	TotalScore        int             `json:"totalScore"`
	RoundScore        int             `json:"roundScore"`
	HasPlacedContract bool            `json:"hasPlacedContract"`
	PlacedCards       [][]domain.Card `json:"placedCards"`
	BuysUsed          int             `json:"buysUsed"`
}

// BuyPhaseView exposes the open buy window.
type BuyPhaseView struct {
	Seq                 uint64    `json:"seq"`
	AskedPlayerID       string    `json:"askedPlayerId,omitempty"`
	RespondedPlayers    []string  `json:"respondedPlayers"`
	NextPlayerHasPassed bool      `json:"nextPlayerHasPassed"`
	Deadline            time.Time `json:"deadline"`
	Actors              []string  `json:"actors"`
}

// Project builds viewerID's snapshot of game. Other players' hands are replaced
// by empty slices; only their counts are real. It does not modify game.
func Project(game *domain.GameState, viewerID string) PlayerView {
	view := PlayerView{
		ID:                 game.ID,
		Code:               game.Code,
		ViewerID:           viewerID,
		HostID:             game.HostID,
		Players:            make([]PlayerSummary, 0, len(game.Players)),
		CurrentPlayerIndex: game.CurrentPlayerIndex,
		Round:              game.Round,
		DealerIndex:        game.DealerIndex,
		DeckCount:          len(game.Deck),
		DiscardCount:       len(game.DiscardPile),
		Phase:              game.Phase,
		TurnPhase:          game.TurnPhase,
		RoundConfig:        game.RoundConfig,
		DealersChoice:      game.DealersChoice,
		Settings:           game.Settings,
		DiscardIsDead:      game.DiscardIsDead,
		RoundWinnerID:      game.RoundWinnerID,
	}
	if cur := game.CurrentPlayer(); cur != nil {
		view.CurrentPlayerID = cur.ID
	}
	if top, ok := game.TopDiscard(); ok {
		view.TopDiscard = &top
	}

	for _, p := range game.Players {
		hand := []domain.Card{}
		if p.ID == viewerID {
			hand = append(hand, p.Hand...)
		}
		placed := make([][]domain.Card, 0, len(p.PlacedCards))
		for _, meld := range p.PlacedCards {
			placed = append(placed, append([]domain.Card(nil), meld...))
		}
		view.Players = append(view.Players, PlayerSummary{
			ID:                p.ID,
			Name:              p.Name,
			Hand:              hand,
			CardCount:         len(p.Hand),
			TotalScore:        p.TotalScore,
			RoundScore:        p.RoundScore,
			HasPlacedContract: p.HasPlacedContract,
			PlacedCards:       placed,
			BuysUsed:          p.BuysUsed,
		})
	}

	if bp := game.BuyPhase; bp != nil && game.TurnPhase == domain.TurnBuy {
		bv := &BuyPhaseView{
			Seq:                 bp.Seq,
			RespondedPlayers:    append([]string{}, bp.RespondedPlayers...),
			NextPlayerHasPassed: bp.NextPlayerHasPassed,
			Deadline:            bp.Deadline,
			Actors:              Actors(game),
		}
		if game.Settings.BuyMode == domain.BuySequential && bp.AskedPlayerIndex >= 0 && bp.AskedPlayerIndex < len(game.Players) {
			bv.AskedPlayerID = game.Players[bp.AskedPlayerIndex].ID
		}
		view.BuyPhase = bv
	}
	return view
}

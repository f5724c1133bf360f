package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"shanghai/internal/domain"
	"shanghai/internal/wire"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	Code    string `json:"code,omitempty"`
	IsNew   bool   `json:"is_new"`
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	// Any open shanghai room still waiting in its lobby.
	query := fmt.Sprintf("+label.%s:>=1 +label.%s:%s +label.%s:lobby",
		MatchLabelKey_OpenSeats, MatchLabelKey_Game, wire.LabelGame, MatchLabelKey_Phase)

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := domain.MaxPlayers - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId}
		if matches[0].Label != nil {
			if label, err := wire.UnmarshalLabel(matches[0].Label.Value); err == nil {
				resp.Code = label.Code
			}
		}
		return encodeResponse(resp)
	}

	// Seats and host are assigned in MatchJoin.
	matchID, err := nk.MatchCreate(ctx, MatchNameShanghai, map[string]interface{}{})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	return encodeResponse(QuickMatchResponse{MatchID: matchID, IsNew: true})
}

package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-rounds/internal/usecase"
)

type scoreEntryRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,min=1"`
	Points   int   `json:"points" validate:"min=-10000,max=10000"`
}

type enterScoresRequest struct {
	Scores []scoreEntryRequest `json:"scores" validate:"required,min=1,dive"`
}

type enterScoresResultDTO struct {
	RoundNumber  int `json:"round_number"`
	Updated      int `json:"updated"`
	TeamsUpdated int `json:"teams_updated"`
	UsersUpdated int `json:"users_updated"`
}

func (h *Handler) EnterScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnterScores")
	defer span.End()

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req enterScoresRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]usecase.ScoreEntryInput, 0, len(req.Scores))
	for _, entry := range req.Scores {
		entries = append(entries, usecase.ScoreEntryInput{
			PlayerID: entry.PlayerID,
			Points:   entry.Points,
		})
	}

	result, err := h.scoringService.EnterScores(ctx, number, entries)
	if err != nil {
		h.logger.WarnContext(ctx, "enter scores failed", "round", number, "entries", len(entries), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, enterScoresResultDTO{
		RoundNumber:  result.Round,
		Updated:      result.Updated,
		TeamsUpdated: result.TeamsUpdated,
		UsersUpdated: result.UsersUpdated,
	})
}

func (h *Handler) RecomputeRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeRound")
	defer span.End()

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.RecomputeRound(ctx, number)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute round failed", "round", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recomputeResultToDTO(result))
}

package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/usecase"
)

type createRoundRequest struct {
	RoundNumber     int       `json:"round_number" validate:"required,min=1,max=1000"`
	Deadline        time.Time `json:"deadline" validate:"required"`
	TeamSize        int       `json:"team_size" validate:"required,min=1,max=50"`
	Budget          *int64    `json:"budget" validate:"omitempty,min=1"`
	FreeTransfers   *int      `json:"free_transfers" validate:"omitempty,min=0"`
	TransferPenalty *int      `json:"transfer_penalty" validate:"omitempty,min=0"`
}

type updateRoundRequest struct {
	Deadline        *time.Time `json:"deadline"`
	TeamSize        *int       `json:"team_size" validate:"omitempty,min=1,max=50"`
	Budget          *int64     `json:"budget" validate:"omitempty,min=1"`
	FreeTransfers   *int       `json:"free_transfers" validate:"omitempty,min=0"`
	TransferPenalty *int       `json:"transfer_penalty" validate:"omitempty,min=0"`
}

type roundDTO struct {
	RoundNumber     int       `json:"round_number"`
	Deadline        time.Time `json:"deadline"`
	TeamSize        int       `json:"team_size"`
	Budget          *int64    `json:"budget,omitempty"`
	IsClosed        bool      `json:"is_closed"`
	FreeTransfers   int       `json:"free_transfers"`
	TransferPenalty int       `json:"transfer_penalty"`
}

type roundEditableDTO struct {
	RoundNumber int  `json:"round_number"`
	Editable    bool `json:"editable"`
}

type recomputeResultDTO struct {
	RoundNumber  int `json:"round_number"`
	TeamsUpdated int `json:"teams_updated"`
	UsersUpdated int `json:"users_updated"`
}

func roundToDTO(item round.Round) roundDTO {
	return roundDTO{
		RoundNumber:     item.Number,
		Deadline:        item.Deadline,
		TeamSize:        item.TeamSize,
		Budget:          item.Budget,
		IsClosed:        item.IsClosed,
		FreeTransfers:   item.FreeTransfers,
		TransferPenalty: item.TransferPenalty,
	}
}

func recomputeResultToDTO(result usecase.RecomputeResult) recomputeResultDTO {
	return recomputeResultDTO{
		RoundNumber:  result.Round,
		TeamsUpdated: result.TeamsUpdated,
		UsersUpdated: result.UsersUpdated,
	}
}

func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRounds")
	defer span.End()

	rounds, err := h.roundService.ListRounds(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list rounds failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]roundDTO, 0, len(rounds))
	for _, item := range rounds {
		items = append(items, roundToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCurrentRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentRound")
	defer span.End()

	item, exists, err := h.roundService.GetActiveRound(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current round failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, exists, err := h.roundService.GetRound(ctx, number)
	if err != nil {
		h.logger.WarnContext(ctx, "get round failed", "round", number, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: round %d", usecase.ErrNotFound, number))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) GetRoundEditable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundEditable")
	defer span.End()

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	editable, err := h.roundService.IsRoundEditable(ctx, number)
	if err != nil {
		h.logger.WarnContext(ctx, "round editable check failed", "round", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundEditableDTO{RoundNumber: number, Editable: editable})
}

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRound")
	defer span.End()

	var req createRoundRequest
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

	item, err := h.roundService.CreateRound(ctx, usecase.CreateRoundInput{
		Number:          req.RoundNumber,
		Deadline:        req.Deadline,
		TeamSize:        req.TeamSize,
		Budget:          req.Budget,
		FreeTransfers:   req.FreeTransfers,
		TransferPenalty: req.TransferPenalty,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create round failed", "round", req.RoundNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(item))
}

func (h *Handler) UpdateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRound")
	defer span.End()

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateRoundRequest
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

	item, err := h.roundService.UpdateRound(ctx, usecase.UpdateRoundInput{
		Number:          number,
		Deadline:        req.Deadline,
		TeamSize:        req.TeamSize,
		Budget:          req.Budget,
		FreeTransfers:   req.FreeTransfers,
		TransferPenalty: req.TransferPenalty,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update round failed", "round", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRound")
	defer span.End()

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.roundService.DeleteRound(ctx, number); err != nil {
		h.logger.WarnContext(ctx, "delete round failed", "round", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"round_number": number})
}

func (h *Handler) CloseRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseRound")
	defer span.End()

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.roundService.CloseRoundManually(ctx, number)
	if err != nil {
		h.logger.WarnContext(ctx, "close round failed", "round", number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recomputeResultToDTO(result))
}

package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rounds/internal/usecase"
)

type saveTeamRequest struct {
	PlayerIDs []int64 `json:"player_ids" validate:"required,min=1,dive,min=1"`
	CaptainID *int64  `json:"captain_id" validate:"omitempty,min=1"`
}

type applyTransferRequest struct {
	PlayerID int64  `json:"player_id" validate:"required,min=1"`
	Action   string `json:"action" validate:"required,oneof=add remove"`
}

type teamDTO struct {
	UserID        string    `json:"user_id"`
	RoundNumber   int       `json:"round_number"`
	PlayerIDs     []int64   `json:"player_ids"`
	CaptainID     *int64    `json:"captain_id,omitempty"`
	TransfersUsed int       `json:"transfers_used"`
	TotalPoints   int       `json:"total_points"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type teamViewDTO struct {
	teamDTO
	CarriedOver bool `json:"carried_over"`
}

type saveTeamResultDTO struct {
	Team           teamDTO `json:"team"`
	TransfersMade  int     `json:"transfers_made"`
	PenaltyPoints  int     `json:"penalty_points"`
	TotalCost      int64   `json:"total_cost"`
	QualifiedCount int     `json:"qualified_count"`
}

type transferProjectionDTO struct {
	TransfersMade    int `json:"transfers_made"`
	TotalTransfers   int `json:"total_transfers"`
	PenaltyTransfers int `json:"penalty_transfers"`
	PenaltyPoints    int `json:"penalty_points"`
}

type applyTransferResultDTO struct {
	PenaltyApplied bool `json:"penalty_applied"`
	PenaltyPoints  int  `json:"penalty_points"`
	TransfersUsed  int  `json:"transfers_used"`
	TotalPoints    int  `json:"total_points"`
}

type transferDTO struct {
	PlayerID       int64     `json:"player_id"`
	Action         string    `json:"action"`
	PenaltyApplied bool      `json:"penalty_applied"`
	PointsDeducted int       `json:"points_deducted"`
	AppliedAt      time.Time `json:"applied_at"`
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{
		UserID:        item.UserID,
		RoundNumber:   item.Round,
		PlayerIDs:     item.PlayerIDs,
		CaptainID:     item.CaptainID,
		TransfersUsed: item.TransfersUsed,
		TotalPoints:   item.TotalPoints,
		UpdatedAt:     item.UpdatedAt,
	}
}

func transferToDTO(item transfer.Transfer) transferDTO {
	return transferDTO{
		PlayerID:       item.PlayerID,
		Action:         string(item.Action),
		PenaltyApplied: item.PenaltyApplied,
		PointsDeducted: item.PointsDeducted,
		AppliedAt:      item.AppliedAt,
	}
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, exists, err := h.teamService.GetTeam(ctx, principal.UserID, number)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "round", number, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamViewDTO{
		teamDTO:     teamToDTO(view.Team),
		CarriedOver: view.CarriedOver,
	})
}

func (h *Handler) SaveMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveTeamRequest
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

	result, err := h.teamService.SaveTeam(ctx, usecase.SaveTeamInput{
		UserID:    principal.UserID,
		Round:     number,
		PlayerIDs: req.PlayerIDs,
		CaptainID: req.CaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save team failed", "round", number, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, saveTeamResultDTO{
		Team:           teamToDTO(result.Team),
		TransfersMade:  result.TransfersMade,
		PenaltyPoints:  result.PenaltyPoints,
		TotalCost:      result.TotalCost,
		QualifiedCount: result.QualifiedCount,
	})
}

func (h *Handler) PreviewMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveTeamRequest
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

	projection, err := h.teamService.PreviewSave(ctx, usecase.SaveTeamInput{
		UserID:    principal.UserID,
		Round:     number,
		PlayerIDs: req.PlayerIDs,
		CaptainID: req.CaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "preview team save failed", "round", number, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferProjectionDTO{
		TransfersMade:    projection.TransfersMade,
		TotalTransfers:   projection.TotalTransfers,
		PenaltyTransfers: projection.PenaltyTransfers,
		PenaltyPoints:    projection.PenaltyPoints,
	})
}

func (h *Handler) ApplyMyTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyMyTransfer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req applyTransferRequest
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

	result, err := h.teamService.ApplyTransfer(ctx, usecase.ApplyTransferInput{
		UserID:   principal.UserID,
		Round:    number,
		PlayerID: req.PlayerID,
		Action:   transfer.Action(req.Action),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply transfer failed", "round", number, "user_id", principal.UserID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, applyTransferResultDTO{
		PenaltyApplied: result.PenaltyApplied,
		PenaltyPoints:  result.PenaltyPoints,
		TransfersUsed:  result.TransfersUsed,
		TotalPoints:    result.TotalPoints,
	})
}

func (h *Handler) ListMyTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTransfers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	number, err := roundNumberFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	transfers, err := h.teamService.ListTransfers(ctx, principal.UserID, number)
	if err != nil {
		h.logger.WarnContext(ctx, "list transfers failed", "round", number, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]transferDTO, 0, len(transfers))
	for _, item := range transfers {
		items = append(items, transferToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

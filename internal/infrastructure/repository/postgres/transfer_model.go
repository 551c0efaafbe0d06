package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/transfer"
)

type transferTableModel struct {
	ID             int64     `db:"id"`
	UserID         string    `db:"user_id"`
	RoundNumber    int       `db:"round_number"`
	PlayerID       int64     `db:"player_id"`
	Action         string    `db:"action"`
	PenaltyApplied bool      `db:"penalty_applied"`
	PointsDeducted int       `db:"points_deducted"`
	AppliedAt      time.Time `db:"applied_at"`
	CreatedAt      time.Time `db:"created_at"`
}

type transferInsertModel struct {
	UserID         string    `db:"user_id"`
	RoundNumber    int       `db:"round_number"`
	PlayerID       int64     `db:"player_id"`
	Action         string    `db:"action"`
	PenaltyApplied bool      `db:"penalty_applied"`
	PointsDeducted int       `db:"points_deducted"`
	AppliedAt      time.Time `db:"applied_at"`
}

func transferFromRow(row transferTableModel) transfer.Transfer {
	return transfer.Transfer{
		UserID:         row.UserID,
		Round:          row.RoundNumber,
		PlayerID:       row.PlayerID,
		Action:         transfer.Action(row.Action),
		PenaltyApplied: row.PenaltyApplied,
		PointsDeducted: row.PointsDeducted,
		AppliedAt:      row.AppliedAt,
	}
}

package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
)

type teamTableModel struct {
	ID            int64         `db:"id"`
	UserID        string        `db:"user_id"`
	RoundNumber   int           `db:"round_number"`
	PlayerIDs     pq.Int64Array `db:"player_ids"`
	CaptainID     sql.NullInt64 `db:"captain_id"`
	TransfersUsed int           `db:"transfers_used"`
	TotalPoints   int           `db:"total_points"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type teamInsertModel struct {
	UserID        string        `db:"user_id"`
	RoundNumber   int           `db:"round_number"`
	PlayerIDs     pq.Int64Array `db:"player_ids"`
	CaptainID     sql.NullInt64 `db:"captain_id"`
	TransfersUsed int           `db:"transfers_used"`
	TotalPoints   int           `db:"total_points"`
}

func teamFromRow(row teamTableModel) team.Team {
	item := team.Team{
		UserID:        row.UserID,
		Round:         row.RoundNumber,
		PlayerIDs:     append([]int64(nil), row.PlayerIDs...),
		TransfersUsed: row.TransfersUsed,
		TotalPoints:   row.TotalPoints,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.CaptainID.Valid {
		captain := row.CaptainID.Int64
		item.CaptainID = &captain
	}
	return item
}

func nullableCaptain(captainID *int64) sql.NullInt64 {
	if captainID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *captainID, Valid: true}
}

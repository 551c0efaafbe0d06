package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/score"
)

type scoreTableModel struct {
	ID          int64      `db:"id"`
	PlayerID    int64      `db:"player_id"`
	RoundNumber int        `db:"round_number"`
	Points      int        `db:"points"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type scoreInsertModel struct {
	PlayerID    int64 `db:"player_id"`
	RoundNumber int   `db:"round_number"`
	Points      int   `db:"points"`
}

func scoreFromRow(row scoreTableModel) score.PlayerScore {
	return score.PlayerScore{
		PlayerID: row.PlayerID,
		Round:    row.RoundNumber,
		Points:   row.Points,
	}
}

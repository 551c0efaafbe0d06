package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
)

type roundTableModel struct {
	ID              int64      `db:"id"`
	RoundNumber     int        `db:"round_number"`
	Deadline        time.Time  `db:"deadline"`
	TeamSize        int        `db:"team_size"`
	Budget          *int64     `db:"budget"`
	IsClosed        bool       `db:"is_closed"`
	FreeTransfers   int        `db:"free_transfers"`
	TransferPenalty int        `db:"transfer_penalty"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type roundInsertModel struct {
	RoundNumber     int       `db:"round_number"`
	Deadline        time.Time `db:"deadline"`
	TeamSize        int       `db:"team_size"`
	Budget          *int64    `db:"budget"`
	IsClosed        bool      `db:"is_closed"`
	FreeTransfers   int       `db:"free_transfers"`
	TransferPenalty int       `db:"transfer_penalty"`
}

func roundFromRow(row roundTableModel) round.Round {
	return round.Round{
		Number:          row.RoundNumber,
		Deadline:        row.Deadline,
		TeamSize:        row.TeamSize,
		Budget:          row.Budget,
		IsClosed:        row.IsClosed,
		FreeTransfers:   row.FreeTransfers,
		TransferPenalty: row.TransferPenalty,
	}
}

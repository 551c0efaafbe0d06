package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
)

type playerTableModel struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Price     int64      `db:"price"`
	Qualified bool       `db:"qualified"`
	Points    int        `db:"points"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	Name      string `db:"name"`
	Price     int64  `db:"price"`
	Qualified bool   `db:"qualified"`
	Points    int    `db:"points"`
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:        row.ID,
		Name:      row.Name,
		Price:     row.Price,
		Qualified: row.Qualified,
		Points:    row.Points,
	}
}

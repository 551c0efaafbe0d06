package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/user"
)

type userTableModel struct {
	ID          int64      `db:"id"`
	UserID      string     `db:"user_id"`
	Name        string     `db:"name"`
	Email       string     `db:"email"`
	TotalPoints int        `db:"total_points"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type userInsertModel struct {
	UserID      string `db:"user_id"`
	Name        string `db:"name"`
	Email       string `db:"email"`
	TotalPoints int    `db:"total_points"`
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:          row.UserID,
		Name:        row.Name,
		Email:       row.Email,
		TotalPoints: row.TotalPoints,
	}
}

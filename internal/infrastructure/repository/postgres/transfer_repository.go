package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/transfer"
	qb "github.com/riskibarqy/fantasy-rounds/internal/platform/querybuilder"
)

// TransferRepository is the append-only transfer audit trail.
type TransferRepository struct {
	store *Store
}

func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

func (r *TransferRepository) Append(ctx context.Context, item transfer.Transfer) error {
	query, args, err := qb.InsertModel("transfers", transferInsertModel{
		UserID:         item.UserID,
		RoundNumber:    item.Round,
		PlayerID:       item.PlayerID,
		Action:         string(item.Action),
		PenaltyApplied: item.PenaltyApplied,
		PointsDeducted: item.PointsDeducted,
		AppliedAt:      item.AppliedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build append transfer query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append transfer: %w", err)
	}

	return nil
}

func (r *TransferRepository) ListByUserAndRound(ctx context.Context, userID string, round int) ([]transfer.Transfer, error) {
	query, args, err := qb.Select("*").
		From("transfers").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("round_number", round),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list transfers query: %w", err)
	}

	var rows []transferTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transfers by user and round: %w", err)
	}

	out := make([]transfer.Transfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, transferFromRow(row))
	}
	return out, nil
}

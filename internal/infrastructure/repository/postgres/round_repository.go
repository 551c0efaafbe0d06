package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	qb "github.com/riskibarqy/fantasy-rounds/internal/platform/querybuilder"
)

type RoundRepository struct {
	store *Store
}

func NewRoundRepository(store *Store) *RoundRepository {
	return &RoundRepository{store: store}
}

func (r *RoundRepository) GetByNumber(ctx context.Context, number int) (round.Round, bool, error) {
	query, args, err := roundBaseSelectBuilder().
		Where(
			qb.Eq("round_number", number),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build get round query: %w", err)
	}

	var row roundTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	return roundFromRow(row), true, nil
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	query, args, err := roundBaseSelectBuilder().
		Where(qb.IsNull("deleted_at")).
		OrderBy("round_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, roundFromRow(row))
	}
	return out, nil
}

func (r *RoundRepository) ListOpen(ctx context.Context) ([]round.Round, error) {
	query, args, err := roundBaseSelectBuilder().
		Where(
			qb.Eq("is_closed", false),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list open rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list open rounds: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, roundFromRow(row))
	}
	return out, nil
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	query, args, err := qb.InsertModel("rounds", roundInsertModel{
		RoundNumber:     item.Number,
		Deadline:        item.Deadline,
		TeamSize:        item.TeamSize,
		Budget:          item.Budget,
		IsClosed:        item.IsClosed,
		FreeTransfers:   item.FreeTransfers,
		TransferPenalty: item.TransferPenalty,
	}, "")
	if err != nil {
		return fmt.Errorf("build create round query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create round: %w", err)
	}

	return nil
}

func (r *RoundRepository) Update(ctx context.Context, item round.Round) error {
	query, args, err := qb.Update("rounds").
		Set("deadline", item.Deadline).
		Set("team_size", item.TeamSize).
		Set("budget", item.Budget).
		Set("is_closed", item.IsClosed).
		Set("free_transfers", item.FreeTransfers).
		Set("transfer_penalty", item.TransferPenalty).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("round_number", item.Number),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update round query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update round: %w", err)
	}

	return nil
}

func (r *RoundRepository) Delete(ctx context.Context, number int) error {
	query, args, err := qb.Update("rounds").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("round_number", number),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete round query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete round: %w", err)
	}

	return nil
}

// CloseIfOpen flips the closed flag with a guarded update so concurrent
// closers cannot both win.
func (r *RoundRepository) CloseIfOpen(ctx context.Context, number int) (bool, error) {
	query, args, err := qb.Update("rounds").
		Set("is_closed", true).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("round_number", number),
			qb.Eq("is_closed", false),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build close round query: %w", err)
	}

	result, err := r.store.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("close round: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("close round rows affected: %w", err)
	}

	return affected > 0, nil
}

func roundBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("rounds")
}

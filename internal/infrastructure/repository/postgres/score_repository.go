package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/score"
	qb "github.com/riskibarqy/fantasy-rounds/internal/platform/querybuilder"
)

type ScoreRepository struct {
	store *Store
}

func NewScoreRepository(store *Store) *ScoreRepository {
	return &ScoreRepository{store: store}
}

func (r *ScoreRepository) Get(ctx context.Context, playerID int64, round int) (score.PlayerScore, bool, error) {
	query, args, err := scoreBaseSelectBuilder().
		Where(
			qb.Eq("player_id", playerID),
			qb.Eq("round_number", round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return score.PlayerScore{}, false, fmt.Errorf("build get score query: %w", err)
	}

	var row scoreTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return score.PlayerScore{}, false, nil
		}
		return score.PlayerScore{}, false, fmt.Errorf("get score: %w", err)
	}

	return scoreFromRow(row), true, nil
}

func (r *ScoreRepository) ListByRound(ctx context.Context, round int) ([]score.PlayerScore, error) {
	query, args, err := scoreBaseSelectBuilder().
		Where(
			qb.Eq("round_number", round),
			qb.IsNull("deleted_at"),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores by round query: %w", err)
	}

	var rows []scoreTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scores by round: %w", err)
	}

	out := make([]score.PlayerScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoreFromRow(row))
	}
	return out, nil
}

func (r *ScoreRepository) Upsert(ctx context.Context, item score.PlayerScore) error {
	query, args, err := qb.InsertModel("player_scores", scoreInsertModel{
		PlayerID:    item.PlayerID,
		RoundNumber: item.Round,
		Points:      item.Points,
	}, `ON CONFLICT (player_id, round_number) WHERE deleted_at IS NULL
DO UPDATE SET
    points = EXCLUDED.points,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build score upsert query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}

	return nil
}

func scoreBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("player_scores")
}

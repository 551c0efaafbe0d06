package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	qb "github.com/riskibarqy/fantasy-rounds/internal/platform/querybuilder"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) GetByUserAndRound(ctx context.Context, userID string, round int) (team.Team, bool, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("round_number", round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) GetLatestBefore(ctx context.Context, userID string, round int) (team.Team, bool, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.Expr("round_number < ?", round),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round_number DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get latest team query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get latest team before round: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListByRound(ctx context.Context, round int) ([]team.Team, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("round_number", round),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams by round query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by round: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) ListByUser(ctx context.Context, userID string) ([]team.Team, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams by user query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		UserID:        item.UserID,
		RoundNumber:   item.Round,
		PlayerIDs:     pq.Int64Array(item.PlayerIDs),
		CaptainID:     nullableCaptain(item.CaptainID),
		TransfersUsed: item.TransfersUsed,
		TotalPoints:   item.TotalPoints,
	}, `ON CONFLICT (user_id, round_number) WHERE deleted_at IS NULL
DO UPDATE SET
    player_ids = EXCLUDED.player_ids,
    captain_id = EXCLUDED.captain_id,
    transfers_used = EXCLUDED.transfers_used,
    total_points = EXCLUDED.total_points,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build team upsert query: %w", err)
	}

	if _, err := r.store.ext(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}

	return nil
}

func (r *TeamRepository) CountByRound(ctx context.Context, round int) (int, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("teams").
		Where(
			qb.Eq("round_number", round),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count teams by round query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &count, query, args...); err != nil {
		return 0, fmt.Errorf("count teams by round: %w", err)
	}

	return count, nil
}

func (r *TeamRepository) CountSelectingPlayer(ctx context.Context, playerID int64) (int, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("teams").
		Where(
			qb.Expr("? = ANY(player_ids)", playerID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count teams selecting player query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.store.ext(ctx), &count, query, args...); err != nil {
		return 0, fmt.Errorf("count teams selecting player: %w", err)
	}

	return count, nil
}

func teamBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("teams")
}

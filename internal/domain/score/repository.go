package score

import "context"

type Repository interface {
	Get(ctx context.Context, playerID int64, round int) (PlayerScore, bool, error)
	ListByRound(ctx context.Context, round int) ([]PlayerScore, error)
	Upsert(ctx context.Context, item PlayerScore) error
}

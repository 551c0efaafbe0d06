package team

import "context"

type Repository interface {
	GetByUserAndRound(ctx context.Context, userID string, round int) (Team, bool, error)

	// GetLatestBefore returns the user's team with the highest round number
	// strictly below the given round, used for carry-over prefill.
	GetLatestBefore(ctx context.Context, userID string, round int) (Team, bool, error)

	ListByRound(ctx context.Context, round int) ([]Team, error)
	ListByUser(ctx context.Context, userID string) ([]Team, error)
	Upsert(ctx context.Context, item Team) error

	CountByRound(ctx context.Context, round int) (int, error)
	CountSelectingPlayer(ctx context.Context, playerID int64) (int, error)
}

package transfer

import "context"

type Repository interface {
	Append(ctx context.Context, item Transfer) error
	ListByUserAndRound(ctx context.Context, userID string, round int) ([]Transfer, error)
}

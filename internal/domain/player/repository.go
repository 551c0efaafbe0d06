package player

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	GetByName(ctx context.Context, name string) (Player, bool, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Player, error)
	List(ctx context.Context) ([]Player, error)
	ListQualified(ctx context.Context) ([]Player, error)
	Create(ctx context.Context, item Player) (int64, error)
	Update(ctx context.Context, item Player) error
	Delete(ctx context.Context, id int64) error
}

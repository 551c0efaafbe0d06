package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	Upsert(ctx context.Context, item User) error
	UpdateTotalPoints(ctx context.Context, id string, points int) error
	Delete(ctx context.Context, id string) error
}

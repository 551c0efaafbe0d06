package round

import "context"

type Repository interface {
	GetByNumber(ctx context.Context, number int) (Round, bool, error)
	List(ctx context.Context) ([]Round, error)
	ListOpen(ctx context.Context) ([]Round, error)
	Create(ctx context.Context, item Round) error
	Update(ctx context.Context, item Round) error
	Delete(ctx context.Context, number int) error

	// CloseIfOpen atomically flips the closed flag and reports whether this
	// call performed the transition. A false return means the round was
	// already closed (or absent).
	CloseIfOpen(ctx context.Context, number int) (bool, error)
}

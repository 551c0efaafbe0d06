package usecase

import "context"

// TxRunner executes fn atomically. Implementations must join an existing
// transaction when fn is called from inside another WithinTx, so services can
// compose without nesting real transactions.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxRunner runs fn directly with no transactional guarantees.
type NopTxRunner struct{}

func (NopTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

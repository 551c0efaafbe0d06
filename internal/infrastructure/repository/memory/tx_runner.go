package memory

import (
	"context"
	"sync"
)

// TxRunner approximates transactional execution by serializing all WithinTx
// bodies behind one mutex. Re-entrant calls on the same context join the
// outer critical section instead of deadlocking.
type TxRunner struct {
	mu sync.Mutex
}

func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

type txMarkerKey struct{}

func (t *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarkerKey{}) != nil {
		return fn(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return fn(context.WithValue(ctx, txMarkerKey{}, struct{}{}))
}

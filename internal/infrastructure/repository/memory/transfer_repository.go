package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/transfer"
)

type TransferRepository struct {
	mu    sync.RWMutex
	items map[string][]transfer.Transfer
}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{items: make(map[string][]transfer.Transfer)}
}

func (r *TransferRepository) Append(_ context.Context, item transfer.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := transferKey(item.UserID, item.Round)
	r.items[key] = append(r.items[key], item)
	return nil
}

func (r *TransferRepository) ListByUserAndRound(_ context.Context, userID string, round int) ([]transfer.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]transfer.Transfer(nil), r.items[transferKey(userID, round)]...), nil
}

func transferKey(userID string, round int) string {
	return userID + "::" + strconv.Itoa(round)
}

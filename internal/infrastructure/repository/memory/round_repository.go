package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
)

type RoundRepository struct {
	mu    sync.RWMutex
	items map[int]round.Round
}

func NewRoundRepository() *RoundRepository {
	return &RoundRepository{items: make(map[int]round.Round)}
}

func (r *RoundRepository) GetByNumber(_ context.Context, number int) (round.Round, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[number]
	if !ok {
		return round.Round{}, false, nil
	}

	return item, true, nil
}

func (r *RoundRepository) List(_ context.Context) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]round.Round, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })

	return items, nil
}

func (r *RoundRepository) ListOpen(_ context.Context) ([]round.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]round.Round, 0, len(r.items))
	for _, item := range r.items {
		if !item.IsClosed {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })

	return items, nil
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Number] = item
	return nil
}

func (r *RoundRepository) Update(_ context.Context, item round.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.Number] = item
	return nil
}

func (r *RoundRepository) Delete(_ context.Context, number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, number)
	return nil
}

func (r *RoundRepository) CloseIfOpen(_ context.Context, number int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[number]
	if !ok || item.IsClosed {
		return false, nil
	}

	item.IsClosed = true
	r.items[number] = item
	return true, nil
}

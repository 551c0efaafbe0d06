package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/score"
)

type ScoreRepository struct {
	mu    sync.RWMutex
	items map[string]score.PlayerScore
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{items: make(map[string]score.PlayerScore)}
}

func (r *ScoreRepository) Get(_ context.Context, playerID int64, round int) (score.PlayerScore, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[scoreKey(playerID, round)]
	if !ok {
		return score.PlayerScore{}, false, nil
	}

	return item, true, nil
}

func (r *ScoreRepository) ListByRound(_ context.Context, round int) ([]score.PlayerScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]score.PlayerScore, 0)
	for _, item := range r.items {
		if item.Round == round {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].PlayerID < items[j].PlayerID })

	return items, nil
}

func (r *ScoreRepository) Upsert(_ context.Context, item score.PlayerScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[scoreKey(item.PlayerID, item.Round)] = item
	return nil
}

func scoreKey(playerID int64, round int) string {
	return strconv.FormatInt(playerID, 10) + "::" + strconv.Itoa(round)
}

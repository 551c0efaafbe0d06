package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[string]team.Team)}
}

func (r *TeamRepository) GetByUserAndRound(_ context.Context, userID string, round int) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamKey(userID, round)]
	if !ok {
		return team.Team{}, false, nil
	}

	return cloneTeam(item), true, nil
}

func (r *TeamRepository) GetLatestBefore(_ context.Context, userID string, round int) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		latest team.Team
		found  bool
	)
	for _, item := range r.items {
		if item.UserID != userID || item.Round >= round {
			continue
		}
		if !found || item.Round > latest.Round {
			latest = item
			found = true
		}
	}
	if !found {
		return team.Team{}, false, nil
	}

	return cloneTeam(latest), true, nil
}

func (r *TeamRepository) ListByRound(_ context.Context, round int) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]team.Team, 0)
	for _, item := range r.items {
		if item.Round == round {
			items = append(items, cloneTeam(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UserID < items[j].UserID })

	return items, nil
}

func (r *TeamRepository) ListByUser(_ context.Context, userID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]team.Team, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			items = append(items, cloneTeam(item))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Round < items[j].Round })

	return items, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[teamKey(item.UserID, item.Round)] = cloneTeam(item)
	return nil
}

func (r *TeamRepository) CountByRound(_ context.Context, round int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.Round == round {
			count++
		}
	}

	return count, nil
}

func (r *TeamRepository) CountSelectingPlayer(_ context.Context, playerID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.HasPlayer(playerID) {
			count++
		}
	}

	return count, nil
}

func teamKey(userID string, round int) string {
	return userID + "::" + strconv.Itoa(round)
}

func cloneTeam(item team.Team) team.Team {
	copied := item
	copied.PlayerIDs = append([]int64(nil), item.PlayerIDs...)
	if item.CaptainID != nil {
		captain := *item.CaptainID
		copied.CaptainID = &captain
	}
	return copied
}

package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	basecache "github.com/riskibarqy/fantasy-rounds/internal/platform/cache"
)

// RoundRepository caches round reads and invalidates the whole round
// keyspace on any write. Rounds change rarely, so coarse invalidation
// keeps the decorator simple.
type RoundRepository struct {
	next  round.Repository
	cache *basecache.Store
}

func NewRoundRepository(next round.Repository, cache *basecache.Store) *RoundRepository {
	return &RoundRepository{next: next, cache: cache}
}

func (r *RoundRepository) GetByNumber(ctx context.Context, number int) (round.Round, bool, error) {
	key := "round:number:" + strconv.Itoa(number)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		return cachedRoundByNumber{value: item, exists: exists}, nil
	})
	if err != nil {
		return round.Round{}, false, err
	}

	cached, _ := v.(cachedRoundByNumber)
	return cached.value, cached.exists, nil
}

func (r *RoundRepository) List(ctx context.Context) ([]round.Round, error) {
	v, err := r.cache.GetOrLoad(ctx, "round:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]round.Round(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]round.Round)
	return append([]round.Round(nil), items...), nil
}

func (r *RoundRepository) ListOpen(ctx context.Context) ([]round.Round, error) {
	v, err := r.cache.GetOrLoad(ctx, "round:list:open", func(ctx context.Context) (any, error) {
		items, err := r.next.ListOpen(ctx)
		if err != nil {
			return nil, err
		}
		return append([]round.Round(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]round.Round)
	return append([]round.Round(nil), items...), nil
}

func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "round:")
	return nil
}

func (r *RoundRepository) Update(ctx context.Context, item round.Round) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "round:")
	return nil
}

func (r *RoundRepository) Delete(ctx context.Context, number int) error {
	if err := r.next.Delete(ctx, number); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "round:")
	return nil
}

func (r *RoundRepository) CloseIfOpen(ctx context.Context, number int) (bool, error) {
	closed, err := r.next.CloseIfOpen(ctx, number)
	if err != nil {
		return false, err
	}
	if closed {
		r.cache.DeletePrefix(ctx, "round:")
	}
	return closed, nil
}

type cachedRoundByNumber struct {
	value  round.Round
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	key := "player:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	key := "player:name:" + name
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, 0, len(sorted))
	for _, id := range sorted {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	key := "player:ids:" + strings.Join(parts, ",")

	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) ListQualified(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:list:qualified", func(ctx context.Context) (any, error) {
		items, err := r.next.ListQualified(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (int64, error) {
	id, err := r.next.Create(ctx, item)
	if err != nil {
		return 0, err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return id, nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

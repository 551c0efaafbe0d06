package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/fantasy-rounds/internal/platform/cache"
)

type countingPlayerRepo struct {
	next  player.Repository
	calls int
}

func (r *countingPlayerRepo) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	r.calls++
	return r.next.GetByID(ctx, id)
}

func (r *countingPlayerRepo) GetByName(ctx context.Context, name string) (player.Player, bool, error) {
	r.calls++
	return r.next.GetByName(ctx, name)
}

func (r *countingPlayerRepo) GetByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	r.calls++
	return r.next.GetByIDs(ctx, ids)
}

func (r *countingPlayerRepo) List(ctx context.Context) ([]player.Player, error) {
	r.calls++
	return r.next.List(ctx)
}

func (r *countingPlayerRepo) ListQualified(ctx context.Context) ([]player.Player, error) {
	r.calls++
	return r.next.ListQualified(ctx)
}

func (r *countingPlayerRepo) Create(ctx context.Context, item player.Player) (int64, error) {
	return r.next.Create(ctx, item)
}

func (r *countingPlayerRepo) Update(ctx context.Context, item player.Player) error {
	return r.next.Update(ctx, item)
}

func (r *countingPlayerRepo) Delete(ctx context.Context, id int64) error {
	return r.next.Delete(ctx, id)
}

func TestRoundRepository_ServesCachedReadUntilWrite(t *testing.T) {
	ctx := context.Background()
	next := memory.NewRoundRepository()
	repo := NewRoundRepository(next, basecache.NewStore(time.Minute))

	item := round.Round{Number: 1, Deadline: time.Now().Add(time.Hour), TeamSize: 5, FreeTransfers: 1, TransferPenalty: 30}
	require.NoError(t, repo.Create(ctx, item))

	got, exists, err := repo.GetByNumber(ctx, 1)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, 5, got.TeamSize)

	// A write that bypasses the decorator is invisible until invalidation.
	item.TeamSize = 7
	require.NoError(t, next.Update(ctx, item))

	got, _, err = repo.GetByNumber(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 5, got.TeamSize)

	require.NoError(t, repo.Update(ctx, item))

	got, _, err = repo.GetByNumber(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 7, got.TeamSize)
}

func TestRoundRepository_CloseIfOpenInvalidatesOnlyWhenClosed(t *testing.T) {
	ctx := context.Background()
	next := memory.NewRoundRepository()
	repo := NewRoundRepository(next, basecache.NewStore(time.Minute))

	require.NoError(t, repo.Create(ctx, round.Round{Number: 1, Deadline: time.Now(), TeamSize: 5}))

	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	closed, err := repo.CloseIfOpen(ctx, 1)
	require.NoError(t, err)
	require.True(t, closed)

	open, err = repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Empty(t, open)

	// Second close is a no-op and must not return true.
	closed, err = repo.CloseIfOpen(ctx, 1)
	require.NoError(t, err)
	require.False(t, closed)
}

func TestPlayerRepository_GetByIDsKeyIgnoresOrder(t *testing.T) {
	ctx := context.Background()
	counting := &countingPlayerRepo{next: memory.NewPlayerRepository()}
	repo := NewPlayerRepository(counting, basecache.NewStore(time.Minute))

	idA, err := repo.Create(ctx, player.Player{Name: "Alex Morgan", Price: 100, Qualified: true})
	require.NoError(t, err)
	idB, err := repo.Create(ctx, player.Player{Name: "Sam Carter", Price: 90, Qualified: true})
	require.NoError(t, err)

	first, err := repo.GetByIDs(ctx, []int64{idB, idA})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, 1, counting.calls)

	second, err := repo.GetByIDs(ctx, []int64{idA, idB})
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.Equal(t, 1, counting.calls, "reordered ids should hit the same cache key")
}

func TestPlayerRepository_WriteInvalidatesList(t *testing.T) {
	ctx := context.Background()
	counting := &countingPlayerRepo{next: memory.NewPlayerRepository()}
	repo := NewPlayerRepository(counting, basecache.NewStore(time.Minute))

	_, err := repo.Create(ctx, player.Player{Name: "Alex Morgan", Price: 100, Qualified: true})
	require.NoError(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counting.calls)

	_, err = repo.Create(ctx, player.Player{Name: "Sam Carter", Price: 90, Qualified: false})
	require.NoError(t, err)

	items, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 2, counting.calls)
}

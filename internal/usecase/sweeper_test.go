package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-rounds/internal/platform/logging"
)

type stubCloser struct {
	mu     sync.Mutex
	closed []int
	failOn map[int]error
}

func (s *stubCloser) CloseRoundByDeadline(_ context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failOn[number]; ok {
		return err
	}
	s.closed = append(s.closed, number)
	return nil
}

func (s *stubCloser) closedRounds() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]int(nil), s.closed...)
	sort.Ints(out)
	return out
}

func seedSweeperRounds(t *testing.T, repo *memory.RoundRepository, now time.Time) {
	t.Helper()

	for _, item := range []round.Round{
		{Number: 1, Deadline: now.Add(-2 * time.Hour), TeamSize: 2},
		{Number: 2, Deadline: now.Add(-time.Hour), TeamSize: 2},
		{Number: 3, Deadline: now.Add(time.Hour), TeamSize: 2},
	} {
		if err := repo.Create(context.Background(), item); err != nil {
			t.Fatalf("seed round: %v", err)
		}
	}
}

func TestDeadlineSweeper_Sweep_ClosesDueRoundsOnly(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rounds := memory.NewRoundRepository()
	seedSweeperRounds(t, rounds, now)

	closer := &stubCloser{}
	sweeper := NewDeadlineSweeper(rounds, closer, logging.NewNop(), time.Minute)
	sweeper.now = func() time.Time { return now }

	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep error: %v", err)
	}

	got := closer.closedRounds()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected closed rounds: %v", got)
	}
}

func TestDeadlineSweeper_Sweep_IsolatesFailures(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rounds := memory.NewRoundRepository()
	seedSweeperRounds(t, rounds, now)

	closer := &stubCloser{failOn: map[int]error{1: errors.New("boom")}}
	sweeper := NewDeadlineSweeper(rounds, closer, logging.NewNop(), time.Minute)
	sweeper.now = func() time.Time { return now }

	// One round failing must not prevent the other from closing.
	if err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep error: %v", err)
	}

	got := closer.closedRounds()
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("unexpected closed rounds: %v", got)
	}
}

func TestDeadlineSweeper_StartRunsImmediately(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rounds := memory.NewRoundRepository()
	seedSweeperRounds(t, rounds, now)

	closer := &stubCloser{}
	sweeper := NewDeadlineSweeper(rounds, closer, logging.NewNop(), time.Hour)
	sweeper.now = func() time.Time { return now }

	sweeper.Start(context.Background())
	defer sweeper.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(closer.closedRounds()) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("initial sweep did not run, closed=%v", closer.closedRounds())
}

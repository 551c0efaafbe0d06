package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/platform/logging"
)

const (
	defaultSweepInterval = time.Minute
	sweepWorkerCount     = 4
)

type deadlineCloser interface {
	CloseRoundByDeadline(ctx context.Context, number int) error
}

// DeadlineSweeper closes rounds whose deadlines have elapsed. It sweeps once
// immediately on start and then on every tick; a failure on one round never
// blocks the others.
type DeadlineSweeper struct {
	roundRepo round.Repository
	closer    deadlineCloser
	logger    *logging.Logger
	interval  time.Duration
	now       func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewDeadlineSweeper(
	roundRepo round.Repository,
	closer deadlineCloser,
	logger *logging.Logger,
	interval time.Duration,
) *DeadlineSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &DeadlineSweeper{
		roundRepo: roundRepo,
		closer:    closer,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine.
func (s *DeadlineSweeper) Start(ctx context.Context) {
	s.logger.InfoContext(ctx, "starting deadline sweeper", "interval", s.interval.String())

	go func() {
		defer close(s.done)

		if err := s.Sweep(ctx); err != nil {
			s.logger.ErrorContext(ctx, "deadline sweep failed", "error", err)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				if err := s.Sweep(ctx); err != nil {
					s.logger.ErrorContext(ctx, "deadline sweep failed", "error", err)
				}
			}
		}
	}()
}

// Stop ends the sweep loop and waits for the in-flight sweep to finish.
func (s *DeadlineSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

// Sweep closes every open round whose deadline has passed. Rounds are
// processed on a worker pool and each failure is logged and isolated.
func (s *DeadlineSweeper) Sweep(ctx context.Context) error {
	openRounds, err := s.roundRepo.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open rounds: %w", err)
	}

	now := s.now().UTC()
	due := make([]round.Round, 0, len(openRounds))
	for _, item := range openRounds {
		if item.DeadlinePassed(now) {
			due = append(due, item)
		}
	}
	if len(due) == 0 {
		return nil
	}

	pool, err := ants.NewPool(sweepWorkerCount)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range due {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			s.logger.InfoContext(ctx, "closing round past deadline", "round", item.Number, "deadline", item.Deadline)
			if err := s.closer.CloseRoundByDeadline(ctx, item.Number); err != nil {
				s.logger.ErrorContext(ctx, "close round past deadline", "round", item.Number, "error", err)
			}
		}); err != nil {
			workers.Done()
			return fmt.Errorf("submit round to worker pool: %w", err)
		}
	}
	workers.Wait()

	return nil
}

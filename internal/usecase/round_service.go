package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
)

const (
	roundNumberMin = 1
	roundNumberMax = 1000
	teamSizeMin    = 1
	teamSizeMax    = 50
	budgetMin      = 1_000_000

	defaultFreeTransfers   = 1
	defaultTransferPenalty = 30
)

type CreateRoundInput struct {
	Number          int
	Deadline        time.Time
	TeamSize        int
	Budget          *int64
	FreeTransfers   *int
	TransferPenalty *int
}

type UpdateRoundInput struct {
	Number          int
	Deadline        *time.Time
	TeamSize        *int
	Budget          *int64
	FreeTransfers   *int
	TransferPenalty *int
}

type RoundService struct {
	roundRepo round.Repository
	teamRepo  team.Repository
	scoring   *ScoringService
	tx        TxRunner
	now       func() time.Time
}

func NewRoundService(
	roundRepo round.Repository,
	teamRepo team.Repository,
	scoring *ScoringService,
	tx TxRunner,
) *RoundService {
	return &RoundService{
		roundRepo: roundRepo,
		teamRepo:  teamRepo,
		scoring:   scoring,
		tx:        tx,
		now:       time.Now,
	}
}

func (s *RoundService) CreateRound(ctx context.Context, input CreateRoundInput) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.CreateRound")
	defer span.End()

	if err := validateRoundNumber(input.Number); err != nil {
		return round.Round{}, err
	}
	if input.TeamSize < teamSizeMin || input.TeamSize > teamSizeMax {
		return round.Round{}, fmt.Errorf("%w: team size must be between %d and %d", ErrInvalidInput, teamSizeMin, teamSizeMax)
	}
	if input.Budget != nil && *input.Budget < budgetMin {
		return round.Round{}, fmt.Errorf("%w: budget must be at least %d when set", ErrInvalidInput, budgetMin)
	}
	if input.FreeTransfers != nil && *input.FreeTransfers < 0 {
		return round.Round{}, fmt.Errorf("%w: free transfers must be a non-negative integer", ErrInvalidInput)
	}
	if input.TransferPenalty != nil && *input.TransferPenalty < 0 {
		return round.Round{}, fmt.Errorf("%w: transfer penalty must be a non-negative integer", ErrInvalidInput)
	}
	if !input.Deadline.After(s.now().UTC()) {
		return round.Round{}, fmt.Errorf("%w: deadline must be in the future", ErrInvalidInput)
	}

	_, exists, err := s.roundRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round by number: %w", err)
	}
	if exists {
		return round.Round{}, fmt.Errorf("%w: round %d already exists", ErrInvalidInput, input.Number)
	}

	item := round.Round{
		Number:          input.Number,
		Deadline:        input.Deadline.UTC(),
		TeamSize:        input.TeamSize,
		Budget:          input.Budget,
		FreeTransfers:   defaultFreeTransfers,
		TransferPenalty: defaultTransferPenalty,
	}
	if input.FreeTransfers != nil {
		item.FreeTransfers = *input.FreeTransfers
	}
	if input.TransferPenalty != nil {
		item.TransferPenalty = *input.TransferPenalty
	}

	if err := s.roundRepo.Create(ctx, item); err != nil {
		return round.Round{}, fmt.Errorf("create round: %w", err)
	}

	return item, nil
}

func (s *RoundService) UpdateRound(ctx context.Context, input UpdateRoundInput) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.UpdateRound")
	defer span.End()

	if err := validateRoundNumber(input.Number); err != nil {
		return round.Round{}, err
	}

	item, exists, err := s.roundRepo.GetByNumber(ctx, input.Number)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round by number: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: round=%d", ErrNotFound, input.Number)
	}
	if item.IsClosed {
		return round.Round{}, fmt.Errorf("%w: round %d", ErrAlreadyClosed, input.Number)
	}

	if input.Deadline != nil {
		item.Deadline = input.Deadline.UTC()
	} else if item.DeadlinePassed(s.now().UTC()) {
		// A past round can only be reopened by moving its deadline forward.
		return round.Round{}, fmt.Errorf("%w: round %d can only be edited by updating its deadline", ErrDeadlinePassed, input.Number)
	}

	if input.TeamSize != nil {
		if *input.TeamSize < teamSizeMin || *input.TeamSize > teamSizeMax {
			return round.Round{}, fmt.Errorf("%w: team size must be between %d and %d", ErrInvalidInput, teamSizeMin, teamSizeMax)
		}
		item.TeamSize = *input.TeamSize
	}
	if input.Budget != nil {
		if *input.Budget < budgetMin {
			return round.Round{}, fmt.Errorf("%w: budget must be at least %d when set", ErrInvalidInput, budgetMin)
		}
		item.Budget = input.Budget
	}
	if input.FreeTransfers != nil {
		if *input.FreeTransfers < 0 {
			return round.Round{}, fmt.Errorf("%w: free transfers must be a non-negative integer", ErrInvalidInput)
		}
		item.FreeTransfers = *input.FreeTransfers
	}
	if input.TransferPenalty != nil {
		if *input.TransferPenalty < 0 {
			return round.Round{}, fmt.Errorf("%w: transfer penalty must be a non-negative integer", ErrInvalidInput)
		}
		item.TransferPenalty = *input.TransferPenalty
	}

	if err := s.roundRepo.Update(ctx, item); err != nil {
		return round.Round{}, fmt.Errorf("update round: %w", err)
	}

	return item, nil
}

func (s *RoundService) DeleteRound(ctx context.Context, number int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.DeleteRound")
	defer span.End()

	if err := validateRoundNumber(number); err != nil {
		return err
	}

	_, exists, err := s.roundRepo.GetByNumber(ctx, number)
	if err != nil {
		return fmt.Errorf("get round by number: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: round=%d", ErrNotFound, number)
	}

	teamsCount, err := s.teamRepo.CountByRound(ctx, number)
	if err != nil {
		return fmt.Errorf("count teams by round: %w", err)
	}
	if teamsCount > 0 {
		return fmt.Errorf("%w: round %d has %d submitted team(s)", ErrInvalidInput, number, teamsCount)
	}

	if err := s.roundRepo.Delete(ctx, number); err != nil {
		return fmt.Errorf("delete round: %w", err)
	}

	return nil
}

func (s *RoundService) GetRound(ctx context.Context, number int) (round.Round, bool, error) {
	if err := validateRoundNumber(number); err != nil {
		return round.Round{}, false, err
	}

	item, exists, err := s.roundRepo.GetByNumber(ctx, number)
	if err != nil {
		return round.Round{}, false, fmt.Errorf("get round by number: %w", err)
	}

	return item, exists, nil
}

func (s *RoundService) ListRounds(ctx context.Context) ([]round.Round, error) {
	items, err := s.roundRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	return items, nil
}

// GetActiveRound returns the lowest-numbered open round whose deadline is
// still in the future. When every round is past its deadline, the
// highest-numbered round is returned as a read-only view.
func (s *RoundService) GetActiveRound(ctx context.Context) (round.Round, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.GetActiveRound")
	defer span.End()

	items, err := s.roundRepo.List(ctx)
	if err != nil {
		return round.Round{}, false, fmt.Errorf("list rounds: %w", err)
	}

	now := s.now().UTC()
	for _, item := range items {
		if item.IsClosed {
			continue
		}
		if now.Before(item.Deadline) {
			return item, true, nil
		}
	}

	if len(items) > 0 {
		return items[len(items)-1], true, nil
	}

	return round.Round{}, false, nil
}

// IsRoundEditable reports whether the round still accepts team changes.
func (s *RoundService) IsRoundEditable(ctx context.Context, number int) (bool, error) {
	if err := validateRoundNumber(number); err != nil {
		return false, err
	}

	item, exists, err := s.roundRepo.GetByNumber(ctx, number)
	if err != nil {
		return false, fmt.Errorf("get round by number: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("%w: round=%d", ErrNotFound, number)
	}

	return item.Editable(s.now().UTC()), nil
}

// CloseRoundManually closes a round before its deadline and finalizes its
// scores in the same transaction. Rounds past their deadline are closed by
// the sweeper instead.
func (s *RoundService) CloseRoundManually(ctx context.Context, number int) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.CloseRoundManually")
	defer span.End()

	if err := validateRoundNumber(number); err != nil {
		return RecomputeResult{}, err
	}

	var result RecomputeResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, exists, err := s.roundRepo.GetByNumber(ctx, number)
		if err != nil {
			return fmt.Errorf("get round by number: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: round=%d", ErrNotFound, number)
		}
		if item.IsClosed {
			return fmt.Errorf("%w: round %d", ErrAlreadyClosed, number)
		}
		if item.DeadlinePassed(s.now().UTC()) {
			return fmt.Errorf("%w: round %d closes automatically", ErrDeadlinePassed, number)
		}

		closed, err := s.roundRepo.CloseIfOpen(ctx, number)
		if err != nil {
			return fmt.Errorf("close round: %w", err)
		}
		if !closed {
			return fmt.Errorf("%w: round %d", ErrAlreadyClosed, number)
		}

		result, err = s.scoring.recomputeRoundLocked(ctx, item)
		if err != nil {
			return fmt.Errorf("finalize round scores: %w", err)
		}

		return nil
	})
	if err != nil {
		return RecomputeResult{}, err
	}

	return result, nil
}

// CloseRoundByDeadline closes a round whose deadline has elapsed and
// finalizes its scores. It is idempotent: a round that is already closed,
// missing, or still before its deadline is left untouched without error.
func (s *RoundService) CloseRoundByDeadline(ctx context.Context, number int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.CloseRoundByDeadline")
	defer span.End()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		item, exists, err := s.roundRepo.GetByNumber(ctx, number)
		if err != nil {
			return fmt.Errorf("get round by number: %w", err)
		}
		if !exists || item.IsClosed {
			return nil
		}
		if !item.DeadlinePassed(s.now().UTC()) {
			return nil
		}

		closed, err := s.roundRepo.CloseIfOpen(ctx, number)
		if err != nil {
			return fmt.Errorf("close round: %w", err)
		}
		if !closed {
			return nil
		}

		if _, err := s.scoring.recomputeRoundLocked(ctx, item); err != nil {
			return fmt.Errorf("finalize round scores: %w", err)
		}

		return nil
	})
}

func validateRoundNumber(number int) error {
	if number < roundNumberMin || number > roundNumberMax {
		return fmt.Errorf("%w: round number must be between %d and %d", ErrInvalidInput, roundNumberMin, roundNumberMax)
	}
	return nil
}

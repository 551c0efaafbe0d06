package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/score"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/user"
	"github.com/riskibarqy/fantasy-rounds/internal/platform/resilience"
)

const (
	pointsMin = -10_000
	pointsMax = 10_000
)

type ScoreEntryInput struct {
	PlayerID int64
	Points   int
}

type RecomputeResult struct {
	Round        int
	TeamsUpdated int
	UsersUpdated int
}

type EnterScoresResult struct {
	Round        int
	Updated      int
	TeamsUpdated int
	UsersUpdated int
}

// ScoringService is the only writer of team and user point totals. Team
// totals are recomputed from scratch every time, so re-running a round is
// safe.
type ScoringService struct {
	roundRepo  round.Repository
	playerRepo player.Repository
	teamRepo   team.Repository
	scoreRepo  score.Repository
	userRepo   user.Repository
	tx         TxRunner
	sf         *resilience.SingleFlight
}

func NewScoringService(
	roundRepo round.Repository,
	playerRepo player.Repository,
	teamRepo team.Repository,
	scoreRepo score.Repository,
	userRepo user.Repository,
	tx TxRunner,
) *ScoringService {
	return &ScoringService{
		roundRepo:  roundRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		scoreRepo:  scoreRepo,
		userRepo:   userRepo,
		tx:         tx,
		sf:         &resilience.SingleFlight{},
	}
}

// EnterScores upserts per-player scores for a round and recomputes every
// affected team and user total in the same transaction.
func (s *ScoringService) EnterScores(ctx context.Context, roundNumber int, entries []ScoreEntryInput) (EnterScoresResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EnterScores")
	defer span.End()

	if err := validateRoundNumber(roundNumber); err != nil {
		return EnterScoresResult{}, err
	}
	if len(entries) == 0 {
		return EnterScoresResult{}, fmt.Errorf("%w: at least one score must be provided", ErrInvalidInput)
	}

	var result EnterScoresResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rnd, exists, err := s.roundRepo.GetByNumber(ctx, roundNumber)
		if err != nil {
			return fmt.Errorf("get round by number: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: round=%d", ErrNotFound, roundNumber)
		}

		for _, entry := range entries {
			if entry.PlayerID <= 0 {
				return fmt.Errorf("%w: invalid player id %d", ErrInvalidInput, entry.PlayerID)
			}
			if entry.Points < pointsMin || entry.Points > pointsMax {
				return fmt.Errorf("%w: points for player %d must be between %d and %d", ErrInvalidInput, entry.PlayerID, pointsMin, pointsMax)
			}

			_, found, err := s.playerRepo.GetByID(ctx, entry.PlayerID)
			if err != nil {
				return fmt.Errorf("get player by id: %w", err)
			}
			if !found {
				return fmt.Errorf("%w: player=%d", ErrNotFound, entry.PlayerID)
			}

			if err := s.scoreRepo.Upsert(ctx, score.PlayerScore{
				PlayerID: entry.PlayerID,
				Round:    roundNumber,
				Points:   entry.Points,
			}); err != nil {
				return fmt.Errorf("upsert player score: %w", err)
			}
		}

		recompute, err := s.recomputeRoundLocked(ctx, rnd)
		if err != nil {
			return err
		}

		result = EnterScoresResult{
			Round:        roundNumber,
			Updated:      len(entries),
			TeamsUpdated: recompute.TeamsUpdated,
			UsersUpdated: recompute.UsersUpdated,
		}

		return nil
	})
	if err != nil {
		return EnterScoresResult{}, err
	}

	return result, nil
}

// RecomputeRound recalculates all team totals for one round and refreshes
// user aggregates. Concurrent calls for the same round collapse into one.
func (s *ScoringService) RecomputeRound(ctx context.Context, roundNumber int) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecomputeRound")
	defer span.End()

	if err := validateRoundNumber(roundNumber); err != nil {
		return RecomputeResult{}, err
	}

	value, err, _ := s.sf.Do("recompute-round::"+strconv.Itoa(roundNumber), func() (any, error) {
		var result RecomputeResult
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			rnd, exists, err := s.roundRepo.GetByNumber(ctx, roundNumber)
			if err != nil {
				return fmt.Errorf("get round by number: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: round=%d", ErrNotFound, roundNumber)
			}

			result, err = s.recomputeRoundLocked(ctx, rnd)
			return err
		})
		return result, err
	})
	if err != nil {
		return RecomputeResult{}, err
	}

	return value.(RecomputeResult), nil
}

// recomputeRoundLocked does the actual recalculation and expects the caller
// to have already started a transaction.
func (s *ScoringService) recomputeRoundLocked(ctx context.Context, rnd round.Round) (RecomputeResult, error) {
	scores, err := s.scoreRepo.ListByRound(ctx, rnd.Number)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list scores by round: %w", err)
	}
	pointsByPlayer := make(map[int64]int, len(scores))
	for _, item := range scores {
		pointsByPlayer[item.PlayerID] = item.Points
	}

	teams, err := s.teamRepo.ListByRound(ctx, rnd.Number)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list teams by round: %w", err)
	}

	for i := range teams {
		teams[i].TotalPoints = teamRoundPoints(rnd, teams[i], pointsByPlayer)
		if err := s.teamRepo.Upsert(ctx, teams[i]); err != nil {
			return RecomputeResult{}, fmt.Errorf("update team points: %w", err)
		}
	}

	usersUpdated, err := s.recomputeAllUserTotals(ctx)
	if err != nil {
		return RecomputeResult{}, err
	}

	return RecomputeResult{
		Round:        rnd.Number,
		TeamsUpdated: len(teams),
		UsersUpdated: usersUpdated,
	}, nil
}

// teamRoundPoints computes one team's round total: the sum of rostered
// players' scores with the captain doubled and missing scores counting as
// zero, minus the penalty for transfers beyond the round's free allowance.
func teamRoundPoints(rnd round.Round, t team.Team, pointsByPlayer map[int64]int) int {
	raw := 0
	for _, playerID := range t.PlayerIDs {
		points := pointsByPlayer[playerID]
		if t.IsCaptain(playerID) {
			points *= 2
		}
		raw += points
	}

	penaltyTransfers := t.TransfersUsed - rnd.FreeTransfers
	if penaltyTransfers < 0 {
		penaltyTransfers = 0
	}

	return raw - penaltyTransfers*rnd.TransferPenalty
}

func (s *ScoringService) recomputeAllUserTotals(ctx context.Context) (int, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		if err := s.recomputeUserTotal(ctx, u.ID); err != nil {
			return 0, err
		}
	}

	return len(users), nil
}

// RecomputeUserTotals refreshes one user's lifetime total from their team
// totals across all rounds.
func (s *ScoringService) RecomputeUserTotals(ctx context.Context, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecomputeUserTotals")
	defer span.End()

	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	return s.recomputeUserTotal(ctx, userID)
}

func (s *ScoringService) recomputeUserTotal(ctx context.Context, userID string) error {
	teams, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list teams by user: %w", err)
	}

	total := 0
	for _, t := range teams {
		total += t.TotalPoints
	}

	if err := s.userRepo.UpdateTotalPoints(ctx, userID, total); err != nil {
		return fmt.Errorf("update user total points: %w", err)
	}

	return nil
}

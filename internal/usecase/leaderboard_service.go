package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/score"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/user"
)

const standingsAssemblyWorkers = 8

type LeaderboardEntry struct {
	Rank   int
	UserID string
	Name   string
	Points int
}

type StandingPlayer struct {
	ID        int64
	Name      string
	Points    int
	IsCaptain bool
}

type RoundStanding struct {
	Round         int
	Points        int
	TransfersUsed int
	Players       []StandingPlayer
	HasTeam       bool
}

type UserStanding struct {
	Rank        int
	UserID      string
	Name        string
	Email       string
	TotalPoints int
	Rounds      []RoundStanding
}

type DetailedStandings struct {
	Standings  []UserStanding
	TotalUsers int
	Rounds     []round.Round
}

type LeaderboardService struct {
	userRepo   user.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	scoreRepo  score.Repository
	roundRepo  round.Repository
}

func NewLeaderboardService(
	userRepo user.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	scoreRepo score.Repository,
	roundRepo round.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		userRepo:   userRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		scoreRepo:  scoreRepo,
		roundRepo:  roundRepo,
	}
}

// Leaderboard ranks all users by lifetime total points.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	sort.SliceStable(users, func(i, j int) bool { return users[i].TotalPoints > users[j].TotalPoints })

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Points: u.TotalPoints,
		})
	}

	return entries, nil
}

// DetailedStandings builds the round-by-round breakdown for every user:
// each rostered player's counted points with the captain doubled, the
// transfers spent, and the resulting round total after penalties.
func (s *LeaderboardService) DetailedStandings(ctx context.Context) (DetailedStandings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.DetailedStandings")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return DetailedStandings{}, fmt.Errorf("list users: %w", err)
	}
	rounds, err := s.roundRepo.List(ctx)
	if err != nil {
		return DetailedStandings{}, fmt.Errorf("list rounds: %w", err)
	}
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return DetailedStandings{}, fmt.Errorf("list players: %w", err)
	}
	playersByID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	scoresByRound := make(map[int]map[int64]int, len(rounds))
	for _, rnd := range rounds {
		scores, err := s.scoreRepo.ListByRound(ctx, rnd.Number)
		if err != nil {
			return DetailedStandings{}, fmt.Errorf("list scores by round: %w", err)
		}
		pointsByPlayer := make(map[int64]int, len(scores))
		for _, item := range scores {
			pointsByPlayer[item.PlayerID] = item.Points
		}
		scoresByRound[rnd.Number] = pointsByPlayer
	}

	standings := make([]UserStanding, len(users))

	assembly := pool.New().WithErrors().WithMaxGoroutines(standingsAssemblyWorkers)
	for i, u := range users {
		assembly.Go(func() error {
			teams, err := s.teamRepo.ListByUser(ctx, u.ID)
			if err != nil {
				return fmt.Errorf("list teams by user: %w", err)
			}
			teamsByRound := make(map[int]team.Team, len(teams))
			for _, t := range teams {
				teamsByRound[t.Round] = t
			}

			standing := UserStanding{
				UserID:      u.ID,
				Name:        u.Name,
				Email:       u.Email,
				TotalPoints: u.TotalPoints,
				Rounds:      make([]RoundStanding, 0, len(rounds)),
			}

			for _, rnd := range rounds {
				t, hasTeam := teamsByRound[rnd.Number]
				if !hasTeam {
					standing.Rounds = append(standing.Rounds, RoundStanding{Round: rnd.Number, Players: []StandingPlayer{}})
					continue
				}

				pointsByPlayer := scoresByRound[rnd.Number]
				rows := make([]StandingPlayer, 0, len(t.PlayerIDs))
				for _, playerID := range t.PlayerIDs {
					p, known := playersByID[playerID]
					if !known {
						continue
					}

					counted := pointsByPlayer[playerID]
					isCaptain := t.IsCaptain(playerID)
					if isCaptain {
						counted *= 2
					}

					rows = append(rows, StandingPlayer{
						ID:        p.ID,
						Name:      p.Name,
						Points:    counted,
						IsCaptain: isCaptain,
					})
				}

				standing.Rounds = append(standing.Rounds, RoundStanding{
					Round:         rnd.Number,
					Points:        teamRoundPoints(rnd, t, pointsByPlayer),
					TransfersUsed: t.TransfersUsed,
					Players:       rows,
					HasTeam:       true,
				})
			}

			standings[i] = standing
			return nil
		})
	}
	if err := assembly.Wait(); err != nil {
		return DetailedStandings{}, err
	}

	sort.SliceStable(standings, func(i, j int) bool { return standings[i].TotalPoints > standings[j].TotalPoints })
	for i := range standings {
		standings[i].Rank = i + 1
	}

	return DetailedStandings{
		Standings:  standings,
		TotalUsers: len(standings),
		Rounds:     rounds,
	}, nil
}

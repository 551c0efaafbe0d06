package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/user"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/memory"
)

type scoringFixture struct {
	rounds  *memory.RoundRepository
	teams   *memory.TeamRepository
	players *memory.PlayerRepository
	scores  *memory.ScoreRepository
	users   *memory.UserRepository
	service *ScoringService
}

func newScoringFixture(t *testing.T) *scoringFixture {
	t.Helper()

	f := &scoringFixture{
		rounds:  memory.NewRoundRepository(),
		teams:   memory.NewTeamRepository(),
		players: memory.NewPlayerRepository(),
		scores:  memory.NewScoreRepository(),
		users:   memory.NewUserRepository(),
	}
	f.service = NewScoringService(f.rounds, f.players, f.teams, f.scores, f.users, memory.NewTxRunner())

	return f
}

func (f *scoringFixture) seedRound(t *testing.T, number, freeTransfers, transferPenalty int) {
	t.Helper()

	err := f.rounds.Create(context.Background(), round.Round{
		Number:          number,
		Deadline:        time.Now().Add(time.Hour),
		TeamSize:        2,
		FreeTransfers:   freeTransfers,
		TransferPenalty: transferPenalty,
	})
	if err != nil {
		t.Fatalf("seed round: %v", err)
	}
}

func (f *scoringFixture) seedPlayers(t *testing.T, names ...string) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := f.players.Create(context.Background(), player.Player{Name: name, Price: 2_000_000, Qualified: true})
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func (f *scoringFixture) seedUser(t *testing.T, id string) {
	t.Helper()

	if err := f.users.Upsert(context.Background(), user.User{ID: id, Name: id, Email: id + "@fantasy.com"}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestScoringService_EnterScores_CaptainDoubleAndFreeTransfer(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(t)
	f.seedRound(t, 2, 1, 30)
	ids := f.seedPlayers(t, "Player A", "Player C")
	f.seedUser(t, "user-1")

	// One transfer used this round, within the free allowance.
	captain := ids[1]
	err := f.teams.Upsert(context.Background(), team.Team{
		UserID:        "user-1",
		Round:         2,
		PlayerIDs:     []int64{ids[0], ids[1]},
		CaptainID:     &captain,
		TransfersUsed: 1,
	})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	result, err := f.service.EnterScores(context.Background(), 2, []ScoreEntryInput{
		{PlayerID: ids[0], Points: 3},
		{PlayerID: ids[1], Points: 6},
	})
	if err != nil {
		t.Fatalf("EnterScores error: %v", err)
	}
	if result.TeamsUpdated != 1 || result.UsersUpdated != 1 {
		t.Fatalf("unexpected recompute counts: teams=%d users=%d", result.TeamsUpdated, result.UsersUpdated)
	}

	// 3 + 6x2 for the captain, no penalty within the free allowance.
	saved, _, err := f.teams.GetByUserAndRound(context.Background(), "user-1", 2)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if saved.TotalPoints != 15 {
		t.Fatalf("unexpected team total: got=%d want=15", saved.TotalPoints)
	}

	u, _, err := f.users.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.TotalPoints != 15 {
		t.Fatalf("unexpected user total: got=%d want=15", u.TotalPoints)
	}
}

func TestScoringService_RecomputeRound_TransferPenalty(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(t)
	f.seedRound(t, 2, 1, 30)
	ids := f.seedPlayers(t, "Player D", "Player C")
	f.seedUser(t, "user-1")

	// Two transfers against one free: a 30 point penalty applies.
	captain := ids[1]
	err := f.teams.Upsert(context.Background(), team.Team{
		UserID:        "user-1",
		Round:         2,
		PlayerIDs:     []int64{ids[0], ids[1]},
		CaptainID:     &captain,
		TransfersUsed: 2,
	})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	if _, err := f.service.EnterScores(context.Background(), 2, []ScoreEntryInput{
		{PlayerID: ids[0], Points: 4},
		{PlayerID: ids[1], Points: 6},
	}); err != nil {
		t.Fatalf("EnterScores error: %v", err)
	}

	// 4 + 6x2 = 16 raw, minus the 30 point penalty.
	saved, _, err := f.teams.GetByUserAndRound(context.Background(), "user-1", 2)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if saved.TotalPoints != -14 {
		t.Fatalf("unexpected team total: got=%d want=-14", saved.TotalPoints)
	}
}

func TestScoringService_RecomputeRound_Idempotent(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(t)
	f.seedRound(t, 1, 1, 30)
	ids := f.seedPlayers(t, "Player A", "Player B")
	f.seedUser(t, "user-1")

	err := f.teams.Upsert(context.Background(), team.Team{
		UserID:        "user-1",
		Round:         1,
		PlayerIDs:     ids,
		TransfersUsed: 3,
	})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	if _, err := f.service.EnterScores(context.Background(), 1, []ScoreEntryInput{
		{PlayerID: ids[0], Points: 10},
		{PlayerID: ids[1], Points: 5},
	}); err != nil {
		t.Fatalf("EnterScores error: %v", err)
	}

	first, _, _ := f.teams.GetByUserAndRound(context.Background(), "user-1", 1)

	// Recomputing overwrites the total instead of stacking penalties.
	for i := 0; i < 3; i++ {
		if _, err := f.service.RecomputeRound(context.Background(), 1); err != nil {
			t.Fatalf("RecomputeRound error: %v", err)
		}
	}

	again, _, _ := f.teams.GetByUserAndRound(context.Background(), "user-1", 1)
	if again.TotalPoints != first.TotalPoints {
		t.Fatalf("recompute not idempotent: got=%d want=%d", again.TotalPoints, first.TotalPoints)
	}
	if again.TotalPoints != 15-60 {
		t.Fatalf("unexpected total: got=%d want=%d", again.TotalPoints, 15-60)
	}
}

func TestScoringService_MissingScoresCountZero(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(t)
	f.seedRound(t, 1, 1, 30)
	ids := f.seedPlayers(t, "Player A", "Player B")
	f.seedUser(t, "user-1")

	captain := ids[1]
	err := f.teams.Upsert(context.Background(), team.Team{
		UserID:    "user-1",
		Round:     1,
		PlayerIDs: ids,
		CaptainID: &captain,
	})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}

	// Only one of the two players has a recorded score.
	if _, err := f.service.EnterScores(context.Background(), 1, []ScoreEntryInput{
		{PlayerID: ids[0], Points: 7},
	}); err != nil {
		t.Fatalf("EnterScores error: %v", err)
	}

	saved, _, _ := f.teams.GetByUserAndRound(context.Background(), "user-1", 1)
	if saved.TotalPoints != 7 {
		t.Fatalf("unexpected total: got=%d want=7", saved.TotalPoints)
	}
}

func TestScoringService_UserTotalSpansRounds(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(t)
	f.seedRound(t, 1, 1, 30)
	f.seedRound(t, 2, 1, 30)
	ids := f.seedPlayers(t, "Player A", "Player B")
	f.seedUser(t, "user-1")

	for _, item := range []team.Team{
		{UserID: "user-1", Round: 1, PlayerIDs: ids},
		{UserID: "user-1", Round: 2, PlayerIDs: ids},
	} {
		if err := f.teams.Upsert(context.Background(), item); err != nil {
			t.Fatalf("seed team: %v", err)
		}
	}

	if _, err := f.service.EnterScores(context.Background(), 1, []ScoreEntryInput{{PlayerID: ids[0], Points: 10}}); err != nil {
		t.Fatalf("EnterScores round 1 error: %v", err)
	}
	if _, err := f.service.EnterScores(context.Background(), 2, []ScoreEntryInput{{PlayerID: ids[1], Points: 4}}); err != nil {
		t.Fatalf("EnterScores round 2 error: %v", err)
	}

	u, _, err := f.users.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.TotalPoints != 14 {
		t.Fatalf("unexpected user total: got=%d want=14", u.TotalPoints)
	}
}

func TestScoringService_EnterScores_Validation(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(t)
	f.seedRound(t, 1, 1, 30)
	ids := f.seedPlayers(t, "Player A")

	if _, err := f.service.EnterScores(context.Background(), 1, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty batch, got %v", err)
	}
	if _, err := f.service.EnterScores(context.Background(), 9, []ScoreEntryInput{{PlayerID: ids[0], Points: 1}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing round, got %v", err)
	}
	if _, err := f.service.EnterScores(context.Background(), 1, []ScoreEntryInput{{PlayerID: 999, Points: 1}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing player, got %v", err)
	}
	if _, err := f.service.EnterScores(context.Background(), 1, []ScoreEntryInput{{PlayerID: ids[0], Points: 10_001}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out of range points, got %v", err)
	}
}

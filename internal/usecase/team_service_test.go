package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/memory"
)

type teamFixture struct {
	rounds    *memory.RoundRepository
	teams     *memory.TeamRepository
	players   *memory.PlayerRepository
	transfers *memory.TransferRepository
	users     *memory.UserRepository
	service   *TeamService
	now       time.Time
}

func newTeamFixture(t *testing.T) *teamFixture {
	t.Helper()

	f := &teamFixture{
		rounds:    memory.NewRoundRepository(),
		teams:     memory.NewTeamRepository(),
		players:   memory.NewPlayerRepository(),
		transfers: memory.NewTransferRepository(),
		users:     memory.NewUserRepository(),
		now:       time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewTeamService(f.rounds, f.players, f.teams, f.transfers, f.users, memory.NewTxRunner())
	f.service.now = func() time.Time { return f.now }

	return f
}

func (f *teamFixture) seedRound(t *testing.T, number, teamSize int, budget *int64) {
	t.Helper()

	err := f.rounds.Create(context.Background(), round.Round{
		Number:          number,
		Deadline:        f.now.Add(24 * time.Hour),
		TeamSize:        teamSize,
		Budget:          budget,
		FreeTransfers:   1,
		TransferPenalty: 30,
	})
	if err != nil {
		t.Fatalf("seed round: %v", err)
	}
}

func (f *teamFixture) seedPlayers(t *testing.T, count int) []int64 {
	t.Helper()

	names := []string{"Alex Morgan", "Sam Carter", "Jordan Lee", "Riley Brooks", "Casey Nguyen", "Dana Silva"}
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		id, err := f.players.Create(context.Background(), player.Player{Name: names[i%len(names)], Price: 2_000_000, Qualified: true})
		if err != nil {
			t.Fatalf("seed player: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestTeamService_SaveTeam_CreatesUser(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 1, 2, nil)
	ids := f.seedPlayers(t, 2)

	result, err := f.service.SaveTeam(context.Background(), SaveTeamInput{
		UserID:    "user-1",
		Round:     1,
		PlayerIDs: ids,
	})
	if err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}
	if result.TransfersMade != 0 {
		t.Fatalf("initial pick must cost no transfers, got %d", result.TransfersMade)
	}
	if result.TotalCost != 4_000_000 {
		t.Fatalf("unexpected total cost: got=%d", result.TotalCost)
	}

	u, exists, err := f.users.GetByID(context.Background(), "user-1")
	if err != nil || !exists {
		t.Fatalf("user must be auto-created, exists=%v err=%v", exists, err)
	}
	if u.Name != "user-1" || u.Email != "user-1@fantasy.com" {
		t.Fatalf("unexpected user record: %+v", u)
	}
}

func TestTeamService_SaveTeam_RoundOneLocks(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 1, 2, nil)
	ids := f.seedPlayers(t, 3)

	if _, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 1, PlayerIDs: ids[:2]}); err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}

	_, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 1, PlayerIDs: []int64{ids[0], ids[2]}})
	if !errors.Is(err, ErrRoundLocked) {
		t.Fatalf("expected ErrRoundLocked, got %v", err)
	}
}

func TestTeamService_SaveTeam_TransferLedger(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 2, 2, nil)
	ids := f.seedPlayers(t, 4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	// First save of the round starts the ledger at zero.
	if _, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: []int64{a, b}}); err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}

	// Swapping B for C is one transfer, covered by the free allowance.
	captain := c
	result, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: []int64{a, c}, CaptainID: &captain})
	if err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}
	if result.TransfersMade != 1 || result.Team.TransfersUsed != 1 {
		t.Fatalf("unexpected transfers: made=%d used=%d", result.TransfersMade, result.Team.TransfersUsed)
	}
	if result.PenaltyPoints != 0 {
		t.Fatalf("free transfer must not incur a penalty, got %d", result.PenaltyPoints)
	}

	// Swapping A for D goes beyond the allowance.
	result, err = f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: []int64{d, c}, CaptainID: &captain})
	if err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}
	if result.Team.TransfersUsed != 2 {
		t.Fatalf("unexpected transfers used: got=%d want=2", result.Team.TransfersUsed)
	}
	if result.PenaltyPoints != 30 {
		t.Fatalf("unexpected penalty: got=%d want=30", result.PenaltyPoints)
	}

	// The ledger never touches the stored point total.
	saved, _, _ := f.teams.GetByUserAndRound(context.Background(), "user-1", 2)
	if saved.TotalPoints != 0 {
		t.Fatalf("saving must not change points, got %d", saved.TotalPoints)
	}

	// Audit trail: one add within the allowance, one penalized add, two removes.
	entries, err := f.transfers.ListByUserAndRound(context.Background(), "user-1", 2)
	if err != nil {
		t.Fatalf("list transfers: %v", err)
	}
	adds, removes, penalized := 0, 0, 0
	for _, entry := range entries {
		switch entry.Action {
		case transfer.ActionAdd:
			adds++
			if entry.PenaltyApplied {
				penalized++
				if entry.PointsDeducted != 30 {
					t.Fatalf("unexpected deduction: got=%d want=30", entry.PointsDeducted)
				}
			}
		case transfer.ActionRemove:
			removes++
		}
	}
	if adds != 2 || removes != 2 || penalized != 1 {
		t.Fatalf("unexpected audit trail: adds=%d removes=%d penalized=%d", adds, removes, penalized)
	}
}

func TestTeamService_SaveTeam_NoChanges(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 2, 2, nil)
	ids := f.seedPlayers(t, 2)

	captain := ids[0]
	input := SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids, CaptainID: &captain}
	if _, err := f.service.SaveTeam(context.Background(), input); err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}

	if _, err := f.service.SaveTeam(context.Background(), input); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}

	// Changing only the captain is a change.
	otherCaptain := ids[1]
	input.CaptainID = &otherCaptain
	if _, err := f.service.SaveTeam(context.Background(), input); err != nil {
		t.Fatalf("SaveTeam captain change error: %v", err)
	}
}

func TestTeamService_SaveTeam_Validation(t *testing.T) {
	t.Parallel()

	budget := int64(3_000_000)
	f := newTeamFixture(t)
	f.seedRound(t, 2, 2, &budget)
	ids := f.seedPlayers(t, 3)
	unknown := int64(999)

	cases := []struct {
		name  string
		input SaveTeamInput
	}{
		{"missing user", SaveTeamInput{Round: 2, PlayerIDs: ids[:2]}},
		{"wrong team size", SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids[:1]}},
		{"duplicate players", SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: []int64{ids[0], ids[0]}}},
		{"unknown player", SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: []int64{ids[0], unknown}}},
		{"captain outside roster", SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids[:2], CaptainID: &ids[2]}},
		{"budget exceeded", SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids[:2]}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.service.SaveTeam(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 7, PlayerIDs: ids[:2]}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing round, got %v", err)
	}
}

func TestTeamService_SaveTeam_RoundNotEditable(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 2, 2, nil)
	ids := f.seedPlayers(t, 2)

	// Past the deadline.
	f.now = f.now.Add(48 * time.Hour)
	_, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids})
	if !errors.Is(err, ErrRoundNotEditable) {
		t.Fatalf("expected ErrRoundNotEditable after deadline, got %v", err)
	}

	// Closed by the admin before the deadline.
	f.now = f.now.Add(-48 * time.Hour)
	if _, err := f.rounds.CloseIfOpen(context.Background(), 2); err != nil {
		t.Fatalf("close round: %v", err)
	}
	_, err = f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids})
	if !errors.Is(err, ErrRoundNotEditable) {
		t.Fatalf("expected ErrRoundNotEditable for closed round, got %v", err)
	}
}

func TestTeamService_GetTeam_CarryOver(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 1, 2, nil)
	f.seedRound(t, 3, 2, nil)
	ids := f.seedPlayers(t, 2)

	captain := ids[0]
	if _, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 1, PlayerIDs: ids, CaptainID: &captain}); err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}

	view, found, err := f.service.GetTeam(context.Background(), "user-1", 3)
	if err != nil {
		t.Fatalf("GetTeam error: %v", err)
	}
	if !found || !view.CarriedOver {
		t.Fatalf("expected carried-over view, found=%v carried=%v", found, view.CarriedOver)
	}
	if view.Team.Round != 3 {
		t.Fatalf("carried view must use the requested round, got %d", view.Team.Round)
	}
	if view.Team.TransfersUsed != 0 || view.Team.TotalPoints != 0 {
		t.Fatalf("carried view must reset counters: transfers=%d points=%d", view.Team.TransfersUsed, view.Team.TotalPoints)
	}

	// A user with no history has nothing to carry.
	_, found, err = f.service.GetTeam(context.Background(), "user-2", 3)
	if err != nil {
		t.Fatalf("GetTeam error: %v", err)
	}
	if found {
		t.Fatal("expected no team for user without history")
	}
}

func TestTeamService_PreviewSave(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 2, 2, nil)
	ids := f.seedPlayers(t, 4)

	if _, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids[:2]}); err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}

	projection, err := f.service.PreviewSave(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: []int64{ids[2], ids[3]}})
	if err != nil {
		t.Fatalf("PreviewSave error: %v", err)
	}
	if projection.TransfersMade != 2 || projection.TotalTransfers != 2 {
		t.Fatalf("unexpected projection: %+v", projection)
	}
	if projection.PenaltyTransfers != 1 || projection.PenaltyPoints != 30 {
		t.Fatalf("unexpected penalty projection: %+v", projection)
	}

	// Preview must not persist anything.
	saved, _, _ := f.teams.GetByUserAndRound(context.Background(), "user-1", 2)
	if saved.TransfersUsed != 0 {
		t.Fatalf("preview must not mutate the team, transfers=%d", saved.TransfersUsed)
	}
	entries, _ := f.transfers.ListByUserAndRound(context.Background(), "user-1", 2)
	if len(entries) != 0 {
		t.Fatalf("preview must not write audit entries, got %d", len(entries))
	}
}

func TestTeamService_ApplyTransfer(t *testing.T) {
	t.Parallel()

	f := newTeamFixture(t)
	f.seedRound(t, 2, 2, nil)
	ids := f.seedPlayers(t, 3)

	if _, err := f.service.SaveTeam(context.Background(), SaveTeamInput{UserID: "user-1", Round: 2, PlayerIDs: ids[:2]}); err != nil {
		t.Fatalf("SaveTeam error: %v", err)
	}

	// First transfer is within the free allowance.
	result, err := f.service.ApplyTransfer(context.Background(), ApplyTransferInput{
		UserID: "user-1", Round: 2, PlayerID: ids[1], Action: transfer.ActionRemove,
	})
	if err != nil {
		t.Fatalf("ApplyTransfer error: %v", err)
	}
	if result.PenaltyApplied || result.TransfersUsed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// The next one will be penalized at score finalization.
	result, err = f.service.ApplyTransfer(context.Background(), ApplyTransferInput{
		UserID: "user-1", Round: 2, PlayerID: ids[2], Action: transfer.ActionAdd,
	})
	if err != nil {
		t.Fatalf("ApplyTransfer error: %v", err)
	}
	if !result.PenaltyApplied || result.PenaltyPoints != 30 || result.TransfersUsed != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	saved, _, _ := f.teams.GetByUserAndRound(context.Background(), "user-1", 2)
	if !saved.HasPlayer(ids[2]) || saved.HasPlayer(ids[1]) {
		t.Fatalf("unexpected roster: %v", saved.PlayerIDs)
	}

	entries, _ := f.transfers.ListByUserAndRound(context.Background(), "user-1", 2)
	if len(entries) != 2 {
		t.Fatalf("unexpected audit length: got=%d want=2", len(entries))
	}

	if _, err := f.service.ApplyTransfer(context.Background(), ApplyTransferInput{
		UserID: "user-2", Round: 2, PlayerID: ids[0], Action: transfer.ActionAdd,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing team, got %v", err)
	}
}

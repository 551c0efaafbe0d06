package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/memory"
)

func newPlayerFixture(t *testing.T) (*PlayerService, *memory.PlayerRepository, *memory.TeamRepository) {
	t.Helper()

	players := memory.NewPlayerRepository()
	teams := memory.NewTeamRepository()
	return NewPlayerService(players, teams), players, teams
}

func TestPlayerService_CreatePlayer(t *testing.T) {
	t.Parallel()

	service, _, _ := newPlayerFixture(t)

	item, err := service.CreatePlayer(context.Background(), CreatePlayerInput{
		Name:      "  Alex Morgan  ",
		Price:     5_000_000,
		Qualified: true,
	})
	if err != nil {
		t.Fatalf("CreatePlayer error: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if item.Name != "Alex Morgan" {
		t.Fatalf("name must be trimmed, got %q", item.Name)
	}

	// Names are unique.
	if _, err := service.CreatePlayer(context.Background(), CreatePlayerInput{Name: "Alex Morgan", Price: 5_000_000}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate name, got %v", err)
	}
}

func TestPlayerService_CreatePlayer_Validation(t *testing.T) {
	t.Parallel()

	service, _, _ := newPlayerFixture(t)

	cases := []struct {
		name  string
		input CreatePlayerInput
	}{
		{"name too short", CreatePlayerInput{Name: "A", Price: 5_000_000}},
		{"name too long", CreatePlayerInput{Name: strings.Repeat("a", 101), Price: 5_000_000}},
		{"price too low", CreatePlayerInput{Name: "Sam Carter", Price: 999_999}},
		{"price too high", CreatePlayerInput{Name: "Sam Carter", Price: 10_000_001}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.CreatePlayer(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestPlayerService_UpdatePlayer(t *testing.T) {
	t.Parallel()

	service, _, _ := newPlayerFixture(t)

	created, err := service.CreatePlayer(context.Background(), CreatePlayerInput{Name: "Sam Carter", Price: 5_000_000})
	if err != nil {
		t.Fatalf("CreatePlayer error: %v", err)
	}
	other, err := service.CreatePlayer(context.Background(), CreatePlayerInput{Name: "Jordan Lee", Price: 5_000_000})
	if err != nil {
		t.Fatalf("CreatePlayer error: %v", err)
	}

	newPrice := int64(6_500_000)
	qualified := true
	updated, err := service.UpdatePlayer(context.Background(), UpdatePlayerInput{ID: created.ID, Price: &newPrice, Qualified: &qualified})
	if err != nil {
		t.Fatalf("UpdatePlayer error: %v", err)
	}
	if updated.Price != newPrice || !updated.Qualified {
		t.Fatalf("unexpected player: %+v", updated)
	}

	// Renaming onto an existing player is rejected.
	conflict := "Jordan Lee"
	if _, err := service.UpdatePlayer(context.Background(), UpdatePlayerInput{ID: created.ID, Name: &conflict}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for name conflict, got %v", err)
	}

	// Renaming to its own current name is fine.
	same := "Jordan Lee"
	if _, err := service.UpdatePlayer(context.Background(), UpdatePlayerInput{ID: other.ID, Name: &same}); err != nil {
		t.Fatalf("UpdatePlayer self-rename error: %v", err)
	}

	if _, err := service.UpdatePlayer(context.Background(), UpdatePlayerInput{ID: 999}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerService_DeletePlayer_SelectedInTeam(t *testing.T) {
	t.Parallel()

	service, _, teams := newPlayerFixture(t)

	created, err := service.CreatePlayer(context.Background(), CreatePlayerInput{Name: "Riley Brooks", Price: 5_000_000})
	if err != nil {
		t.Fatalf("CreatePlayer error: %v", err)
	}

	if err := teams.Upsert(context.Background(), team.Team{UserID: "user-1", Round: 1, PlayerIDs: []int64{created.ID}}); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	if err := service.DeletePlayer(context.Background(), created.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput while selected, got %v", err)
	}

	// Free of teams, the delete goes through.
	if err := teams.Upsert(context.Background(), team.Team{UserID: "user-1", Round: 1, PlayerIDs: []int64{}}); err != nil {
		t.Fatalf("clear team: %v", err)
	}
	if err := service.DeletePlayer(context.Background(), created.ID); err != nil {
		t.Fatalf("DeletePlayer error: %v", err)
	}

	if err := service.DeletePlayer(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

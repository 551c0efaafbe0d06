package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
)

// SeedDemoData loads a small fixture set for local development without a
// database. Round 1 opens with a deadline one week out.
func SeedDemoData(ctx context.Context, rounds *RoundRepository, players *PlayerRepository) error {
	now := time.Now().UTC()

	if err := rounds.Create(ctx, round.Round{
		Number:          1,
		Deadline:        now.Add(7 * 24 * time.Hour),
		TeamSize:        5,
		IsClosed:        false,
		FreeTransfers:   1,
		TransferPenalty: 30,
	}); err != nil {
		return err
	}

	seedPlayers := []player.Player{
		{Name: "Alex Morgan", Price: 8_500_000, Qualified: true},
		{Name: "Sam Carter", Price: 6_000_000, Qualified: true},
		{Name: "Jordan Lee", Price: 7_250_000, Qualified: true},
		{Name: "Riley Brooks", Price: 5_500_000, Qualified: true},
		{Name: "Casey Nguyen", Price: 4_750_000, Qualified: false},
		{Name: "Dana Silva", Price: 9_000_000, Qualified: true},
	}
	for _, item := range seedPlayers {
		if _, err := players.Create(ctx, item); err != nil {
			return err
		}
	}

	return nil
}

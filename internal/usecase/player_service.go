package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
)

const (
	playerNameMinLen = 2
	playerNameMaxLen = 100
	playerPriceMin   = 1_000_000
	playerPriceMax   = 10_000_000
)

type CreatePlayerInput struct {
	Name      string
	Price     int64
	Qualified bool
}

type UpdatePlayerInput struct {
	ID        int64
	Name      *string
	Price     *int64
	Qualified *bool
	Points    *int
}

type PlayerService struct {
	playerRepo player.Repository
	teamRepo   team.Repository
}

func NewPlayerService(playerRepo player.Repository, teamRepo team.Repository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo, teamRepo: teamRepo}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.CreatePlayer")
	defer span.End()

	name, err := validatePlayerName(input.Name)
	if err != nil {
		return player.Player{}, err
	}
	if err := validatePlayerPrice(input.Price); err != nil {
		return player.Player{}, err
	}

	_, exists, err := s.playerRepo.GetByName(ctx, name)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by name: %w", err)
	}
	if exists {
		return player.Player{}, fmt.Errorf("%w: a player named %q already exists", ErrInvalidInput, name)
	}

	item := player.Player{
		Name:      name,
		Price:     input.Price,
		Qualified: input.Qualified,
	}

	id, err := s.playerRepo.Create(ctx, item)
	if err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	item.ID = id

	return item, nil
}

func (s *PlayerService) UpdatePlayer(ctx context.Context, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UpdatePlayer")
	defer span.End()

	if input.ID <= 0 {
		return player.Player{}, fmt.Errorf("%w: invalid player id %d", ErrInvalidInput, input.ID)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, input.ID)
	}

	if input.Name != nil {
		name, err := validatePlayerName(*input.Name)
		if err != nil {
			return player.Player{}, err
		}

		other, taken, err := s.playerRepo.GetByName(ctx, name)
		if err != nil {
			return player.Player{}, fmt.Errorf("get player by name: %w", err)
		}
		if taken && other.ID != item.ID {
			return player.Player{}, fmt.Errorf("%w: a player named %q already exists", ErrInvalidInput, name)
		}

		item.Name = name
	}
	if input.Price != nil {
		if err := validatePlayerPrice(*input.Price); err != nil {
			return player.Player{}, err
		}
		item.Price = *input.Price
	}
	if input.Qualified != nil {
		item.Qualified = *input.Qualified
	}
	if input.Points != nil {
		if *input.Points < pointsMin || *input.Points > pointsMax {
			return player.Player{}, fmt.Errorf("%w: points must be between %d and %d", ErrInvalidInput, pointsMin, pointsMax)
		}
		item.Points = *input.Points
	}

	if err := s.playerRepo.Update(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	return item, nil
}

func (s *PlayerService) DeletePlayer(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.DeletePlayer")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: invalid player id %d", ErrInvalidInput, id)
	}

	_, exists, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%d", ErrNotFound, id)
	}

	selections, err := s.teamRepo.CountSelectingPlayer(ctx, id)
	if err != nil {
		return fmt.Errorf("count teams selecting player: %w", err)
	}
	if selections > 0 {
		return fmt.Errorf("%w: player %d is selected in %d team(s)", ErrInvalidInput, id, selections)
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	return nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id int64) (player.Player, bool, error) {
	if id <= 0 {
		return player.Player{}, false, fmt.Errorf("%w: invalid player id %d", ErrInvalidInput, id)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return item, exists, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return items, nil
}

func (s *PlayerService) ListQualifiedPlayers(ctx context.Context) ([]player.Player, error) {
	items, err := s.playerRepo.ListQualified(ctx)
	if err != nil {
		return nil, fmt.Errorf("list qualified players: %w", err)
	}

	return items, nil
}

func validatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < playerNameMinLen || len(name) > playerNameMaxLen {
		return "", fmt.Errorf("%w: player name must be between %d and %d characters", ErrInvalidInput, playerNameMinLen, playerNameMaxLen)
	}
	return name, nil
}

func validatePlayerPrice(price int64) error {
	if price < playerPriceMin || price > playerPriceMax {
		return fmt.Errorf("%w: player price must be between %d and %d", ErrInvalidInput, playerPriceMin, playerPriceMax)
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/user"
)

type SaveTeamInput struct {
	UserID    string
	Round     int
	PlayerIDs []int64
	CaptainID *int64
}

type SaveTeamResult struct {
	Team           team.Team
	TransfersMade  int
	PenaltyPoints  int
	TotalCost      int64
	QualifiedCount int
}

// TransferProjection is a read-only preview of what a save would cost in
// transfers and penalty points. Nothing is persisted.
type TransferProjection struct {
	TransfersMade    int
	TotalTransfers   int
	PenaltyTransfers int
	PenaltyPoints    int
}

// TeamView is a team read result. CarriedOver marks a projection built from
// an earlier round's roster because the user has not saved one for the
// requested round yet.
type TeamView struct {
	Team        team.Team
	CarriedOver bool
}

type ApplyTransferInput struct {
	UserID   string
	Round    int
	PlayerID int64
	Action   transfer.Action
}

type ApplyTransferResult struct {
	PenaltyApplied bool
	PenaltyPoints  int
	TransfersUsed  int
	TotalPoints    int
}

// TeamService owns roster submissions and the transfer ledger. It updates
// TransfersUsed and the audit trail but never touches point totals; those
// belong to ScoringService.
type TeamService struct {
	roundRepo    round.Repository
	playerRepo   player.Repository
	teamRepo     team.Repository
	transferRepo transfer.Repository
	userRepo     user.Repository
	tx           TxRunner
	now          func() time.Time
}

func NewTeamService(
	roundRepo round.Repository,
	playerRepo player.Repository,
	teamRepo team.Repository,
	transferRepo transfer.Repository,
	userRepo user.Repository,
	tx TxRunner,
) *TeamService {
	return &TeamService{
		roundRepo:    roundRepo,
		playerRepo:   playerRepo,
		teamRepo:     teamRepo,
		transferRepo: transferRepo,
		userRepo:     userRepo,
		tx:           tx,
		now:          time.Now,
	}
}

func (s *TeamService) SaveTeam(ctx context.Context, input SaveTeamInput) (SaveTeamResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SaveTeam")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return SaveTeamResult{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := validateRoundNumber(input.Round); err != nil {
		return SaveTeamResult{}, err
	}
	if err := validateUniquePlayerIDs(input.PlayerIDs); err != nil {
		return SaveTeamResult{}, err
	}
	if input.CaptainID != nil {
		if *input.CaptainID <= 0 {
			return SaveTeamResult{}, fmt.Errorf("%w: invalid captain id", ErrInvalidInput)
		}
		if !containsID(input.PlayerIDs, *input.CaptainID) {
			return SaveTeamResult{}, fmt.Errorf("%w: captain must be one of the selected players", ErrInvalidInput)
		}
	}

	var result SaveTeamResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUser(ctx, input.UserID); err != nil {
			return err
		}

		rnd, err := s.editableRound(ctx, input.Round)
		if err != nil {
			return err
		}

		if len(input.PlayerIDs) != rnd.TeamSize {
			return fmt.Errorf("%w: you must select exactly %d player(s), but %d were selected", ErrInvalidInput, rnd.TeamSize, len(input.PlayerIDs))
		}

		totalCost, qualifiedCount, err := s.validateRoster(ctx, rnd, input.PlayerIDs)
		if err != nil {
			return err
		}

		existing, exists, err := s.teamRepo.GetByUserAndRound(ctx, input.UserID, input.Round)
		if err != nil {
			return fmt.Errorf("get team by user and round: %w", err)
		}

		// Round 1 is the initial pick and locks after the first save.
		if input.Round == 1 && exists {
			return fmt.Errorf("%w: round 1 team cannot be changed after first submission", ErrRoundLocked)
		}

		saved := team.Team{
			UserID:    input.UserID,
			Round:     input.Round,
			PlayerIDs: input.PlayerIDs,
			CaptainID: input.CaptainID,
			UpdatedAt: s.now().UTC(),
		}

		transfersMade := 0
		penaltyPoints := 0
		if exists {
			added, removed := rosterDiff(existing.PlayerIDs, input.PlayerIDs)
			transfersMade = len(added)

			if transfersMade == 0 && equalCaptain(existing.CaptainID, input.CaptainID) {
				return fmt.Errorf("%w: team is already saved with these players", ErrNoChanges)
			}

			saved.TransfersUsed = existing.TransfersUsed + transfersMade
			saved.TotalPoints = existing.TotalPoints

			penaltyTransfers := saved.TransfersUsed - rnd.FreeTransfers
			if penaltyTransfers < 0 {
				penaltyTransfers = 0
			}
			penaltyPoints = penaltyTransfers * rnd.TransferPenalty

			if err := s.appendAudit(ctx, rnd, existing.TransfersUsed, input.UserID, added, removed); err != nil {
				return err
			}
		}

		if err := s.teamRepo.Upsert(ctx, saved); err != nil {
			return fmt.Errorf("save team: %w", err)
		}

		result = SaveTeamResult{
			Team:           saved,
			TransfersMade:  transfersMade,
			PenaltyPoints:  penaltyPoints,
			TotalCost:      totalCost,
			QualifiedCount: qualifiedCount,
		}

		return nil
	})
	if err != nil {
		return SaveTeamResult{}, err
	}

	return result, nil
}

// PreviewSave projects the transfer cost of a save without persisting
// anything.
func (s *TeamService) PreviewSave(ctx context.Context, input SaveTeamInput) (TransferProjection, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.PreviewSave")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return TransferProjection{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := validateRoundNumber(input.Round); err != nil {
		return TransferProjection{}, err
	}
	if err := validateUniquePlayerIDs(input.PlayerIDs); err != nil {
		return TransferProjection{}, err
	}

	rnd, exists, err := s.roundRepo.GetByNumber(ctx, input.Round)
	if err != nil {
		return TransferProjection{}, fmt.Errorf("get round by number: %w", err)
	}
	if !exists {
		return TransferProjection{}, fmt.Errorf("%w: round=%d", ErrNotFound, input.Round)
	}

	existing, hasTeam, err := s.teamRepo.GetByUserAndRound(ctx, input.UserID, input.Round)
	if err != nil {
		return TransferProjection{}, fmt.Errorf("get team by user and round: %w", err)
	}
	if !hasTeam {
		return TransferProjection{}, nil
	}

	added, _ := rosterDiff(existing.PlayerIDs, input.PlayerIDs)

	projection := TransferProjection{
		TransfersMade:  len(added),
		TotalTransfers: existing.TransfersUsed + len(added),
	}
	projection.PenaltyTransfers = projection.TotalTransfers - rnd.FreeTransfers
	if projection.PenaltyTransfers < 0 {
		projection.PenaltyTransfers = 0
	}
	projection.PenaltyPoints = projection.PenaltyTransfers * rnd.TransferPenalty

	return projection, nil
}

// GetTeam returns the user's team for a round. When none has been saved yet,
// the most recent earlier round's roster is returned as a carried-over view
// with transfers reset for the new round.
func (s *TeamService) GetTeam(ctx context.Context, userID string, roundNumber int) (TeamView, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return TeamView{}, false, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := validateRoundNumber(roundNumber); err != nil {
		return TeamView{}, false, err
	}

	item, exists, err := s.teamRepo.GetByUserAndRound(ctx, userID, roundNumber)
	if err != nil {
		return TeamView{}, false, fmt.Errorf("get team by user and round: %w", err)
	}
	if exists {
		return TeamView{Team: item}, true, nil
	}

	previous, found, err := s.teamRepo.GetLatestBefore(ctx, userID, roundNumber)
	if err != nil {
		return TeamView{}, false, fmt.Errorf("get latest team before round: %w", err)
	}
	if !found {
		return TeamView{}, false, nil
	}

	previous.Round = roundNumber
	previous.TransfersUsed = 0
	previous.TotalPoints = 0

	return TeamView{Team: previous, CarriedOver: true}, true, nil
}

// ApplyTransfer adds or removes a single player on an existing team and
// records the change in the audit trail. The counter increments on every
// call; penalties are charged later when round scores are finalized.
func (s *TeamService) ApplyTransfer(ctx context.Context, input ApplyTransferInput) (ApplyTransferResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ApplyTransfer")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return ApplyTransferResult{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := validateRoundNumber(input.Round); err != nil {
		return ApplyTransferResult{}, err
	}
	if input.PlayerID <= 0 {
		return ApplyTransferResult{}, fmt.Errorf("%w: invalid player id %d", ErrInvalidInput, input.PlayerID)
	}
	if input.Action != transfer.ActionAdd && input.Action != transfer.ActionRemove {
		return ApplyTransferResult{}, fmt.Errorf("%w: action must be %q or %q", ErrInvalidInput, transfer.ActionAdd, transfer.ActionRemove)
	}

	var result ApplyTransferResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rnd, err := s.editableRound(ctx, input.Round)
		if err != nil {
			return err
		}

		item, exists, err := s.teamRepo.GetByUserAndRound(ctx, input.UserID, input.Round)
		if err != nil {
			return fmt.Errorf("get team by user and round: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: team for user=%s round=%d", ErrNotFound, input.UserID, input.Round)
		}

		penaltyApplied := item.TransfersUsed >= rnd.FreeTransfers
		pointsDeducted := 0
		if penaltyApplied {
			pointsDeducted = rnd.TransferPenalty
		}

		switch input.Action {
		case transfer.ActionAdd:
			_, found, err := s.playerRepo.GetByID(ctx, input.PlayerID)
			if err != nil {
				return fmt.Errorf("get player by id: %w", err)
			}
			if !found {
				return fmt.Errorf("%w: player=%d", ErrNotFound, input.PlayerID)
			}
			if !item.HasPlayer(input.PlayerID) {
				item.PlayerIDs = append(item.PlayerIDs, input.PlayerID)
			}
		case transfer.ActionRemove:
			item.PlayerIDs = removeID(item.PlayerIDs, input.PlayerID)
			if item.CaptainID != nil && *item.CaptainID == input.PlayerID {
				item.CaptainID = nil
			}
		}

		item.TransfersUsed++
		item.UpdatedAt = s.now().UTC()

		if err := s.teamRepo.Upsert(ctx, item); err != nil {
			return fmt.Errorf("save team: %w", err)
		}

		if err := s.transferRepo.Append(ctx, transfer.Transfer{
			UserID:         input.UserID,
			Round:          input.Round,
			PlayerID:       input.PlayerID,
			Action:         input.Action,
			PenaltyApplied: penaltyApplied,
			PointsDeducted: pointsDeducted,
			AppliedAt:      s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("append transfer: %w", err)
		}

		result = ApplyTransferResult{
			PenaltyApplied: penaltyApplied,
			PenaltyPoints:  pointsDeducted,
			TransfersUsed:  item.TransfersUsed,
			TotalPoints:    item.TotalPoints,
		}

		return nil
	})
	if err != nil {
		return ApplyTransferResult{}, err
	}

	return result, nil
}

func (s *TeamService) ListTransfers(ctx context.Context, userID string, roundNumber int) ([]transfer.Transfer, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if err := validateRoundNumber(roundNumber); err != nil {
		return nil, err
	}

	items, err := s.transferRepo.ListByUserAndRound(ctx, userID, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("list transfers by user and round: %w", err)
	}

	return items, nil
}

// editableRound loads the round and rejects submissions once it is closed or
// past its deadline.
func (s *TeamService) editableRound(ctx context.Context, number int) (round.Round, error) {
	rnd, exists, err := s.roundRepo.GetByNumber(ctx, number)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round by number: %w", err)
	}
	if !exists {
		return round.Round{}, fmt.Errorf("%w: round=%d", ErrNotFound, number)
	}
	if rnd.IsClosed {
		return round.Round{}, fmt.Errorf("%w: round %d has been closed", ErrRoundNotEditable, number)
	}
	if rnd.DeadlinePassed(s.now().UTC()) {
		return round.Round{}, fmt.Errorf("%w: round %d deadline has passed", ErrRoundNotEditable, number)
	}

	return rnd, nil
}

func (s *TeamService) validateRoster(ctx context.Context, rnd round.Round, playerIDs []int64) (int64, int, error) {
	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return 0, 0, fmt.Errorf("get players by ids: %w", err)
	}

	byID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	var totalCost int64
	qualifiedCount := 0
	for _, id := range playerIDs {
		p, ok := byID[id]
		if !ok {
			return 0, 0, fmt.Errorf("%w: player with id %d not found", ErrInvalidInput, id)
		}
		if p.Qualified {
			qualifiedCount++
		}
		totalCost += p.Price
	}

	if rnd.Budget != nil && totalCost > *rnd.Budget {
		return 0, 0, fmt.Errorf("%w: team costs %d but the budget limit is %d", ErrInvalidInput, totalCost, *rnd.Budget)
	}

	return totalCost, qualifiedCount, nil
}

// ensureUser creates the user record on first contact so a team save never
// fails for lack of registration.
func (s *TeamService) ensureUser(ctx context.Context, userID string) error {
	_, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user by id: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.userRepo.Upsert(ctx, user.User{
		ID:    userID,
		Name:  userID,
		Email: userID + "@fantasy.com",
	}); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// appendAudit records one ledger entry per roster change. Incoming players
// beyond the free allowance are flagged with the penalty they will incur at
// score finalization.
func (s *TeamService) appendAudit(ctx context.Context, rnd round.Round, transfersBefore int, userID string, added, removed []int64) error {
	appliedAt := s.now().UTC()

	for i, playerID := range added {
		penaltyApplied := transfersBefore+i >= rnd.FreeTransfers
		pointsDeducted := 0
		if penaltyApplied {
			pointsDeducted = rnd.TransferPenalty
		}
		if err := s.transferRepo.Append(ctx, transfer.Transfer{
			UserID:         userID,
			Round:          rnd.Number,
			PlayerID:       playerID,
			Action:         transfer.ActionAdd,
			PenaltyApplied: penaltyApplied,
			PointsDeducted: pointsDeducted,
			AppliedAt:      appliedAt,
		}); err != nil {
			return fmt.Errorf("append transfer: %w", err)
		}
	}

	for _, playerID := range removed {
		if err := s.transferRepo.Append(ctx, transfer.Transfer{
			UserID:    userID,
			Round:     rnd.Number,
			PlayerID:  playerID,
			Action:    transfer.ActionRemove,
			AppliedAt: appliedAt,
		}); err != nil {
			return fmt.Errorf("append transfer: %w", err)
		}
	}

	return nil
}

// rosterDiff returns the incoming and outgoing players between two rosters.
// Only incoming players count as transfers.
func rosterDiff(oldIDs, newIDs []int64) (added, removed []int64) {
	oldSet := make(map[int64]struct{}, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = struct{}{}
	}
	newSet := make(map[int64]struct{}, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = struct{}{}
	}

	for _, id := range newIDs {
		if _, ok := oldSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range oldIDs {
		if _, ok := newSet[id]; !ok {
			removed = append(removed, id)
		}
	}

	return added, removed
}

func validateUniquePlayerIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: selected players are required", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: invalid player id %d", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: cannot select the same player multiple times", ErrInvalidInput)
		}
		seen[id] = struct{}{}
	}

	return nil
}

func equalCaptain(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

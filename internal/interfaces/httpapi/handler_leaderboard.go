package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-rounds/internal/usecase"
)

type leaderboardEntryDTO struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type standingPlayerDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	IsCaptain bool   `json:"is_captain"`
}

type roundStandingDTO struct {
	RoundNumber   int                 `json:"round_number"`
	Points        int                 `json:"points"`
	TransfersUsed int                 `json:"transfers_used"`
	Players       []standingPlayerDTO `json:"players"`
	HasTeam       bool                `json:"has_team"`
}

type userStandingDTO struct {
	Rank        int                `json:"rank"`
	UserID      string             `json:"user_id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	TotalPoints int                `json:"total_points"`
	Rounds      []roundStandingDTO `json:"rounds"`
}

type detailedStandingsDTO struct {
	Standings  []userStandingDTO `json:"standings"`
	TotalUsers int               `json:"total_users"`
	Rounds     []roundDTO        `json:"rounds"`
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	entries, err := h.leaderboardService.Leaderboard(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryDTO{
			Rank:   entry.Rank,
			UserID: entry.UserID,
			Name:   entry.Name,
			Points: entry.Points,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDetailedStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDetailedStandings")
	defer span.End()

	standings, err := h.leaderboardService.DetailedStandings(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "detailed standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detailedStandingsToDTO(standings))
}

func detailedStandingsToDTO(standings usecase.DetailedStandings) detailedStandingsDTO {
	users := make([]userStandingDTO, 0, len(standings.Standings))
	for _, standing := range standings.Standings {
		rounds := make([]roundStandingDTO, 0, len(standing.Rounds))
		for _, roundStanding := range standing.Rounds {
			players := make([]standingPlayerDTO, 0, len(roundStanding.Players))
			for _, row := range roundStanding.Players {
				players = append(players, standingPlayerDTO{
					ID:        row.ID,
					Name:      row.Name,
					Points:    row.Points,
					IsCaptain: row.IsCaptain,
				})
			}
			rounds = append(rounds, roundStandingDTO{
				RoundNumber:   roundStanding.Round,
				Points:        roundStanding.Points,
				TransfersUsed: roundStanding.TransfersUsed,
				Players:       players,
				HasTeam:       roundStanding.HasTeam,
			})
		}
		users = append(users, userStandingDTO{
			Rank:        standing.Rank,
			UserID:      standing.UserID,
			Name:        standing.Name,
			Email:       standing.Email,
			TotalPoints: standing.TotalPoints,
			Rounds:      rounds,
		})
	}

	items := make([]roundDTO, 0, len(standings.Rounds))
	for _, item := range standings.Rounds {
		items = append(items, roundToDTO(item))
	}

	return detailedStandingsDTO{
		Standings:  users,
		TotalUsers: standings.TotalUsers,
		Rounds:     items,
	}
}

package team

import "time"

// Team is a user's roster for one round, keyed by (user id, round number).
// TotalPoints is written only by the scoring recomputation; the transfer
// ledger updates TransfersUsed but never touches points.
type Team struct {
	UserID        string
	Round         int
	PlayerIDs     []int64
	CaptainID     *int64
	TransfersUsed int
	TotalPoints   int
	UpdatedAt     time.Time
}

// HasPlayer reports whether the roster contains the given player.
func (t Team) HasPlayer(playerID int64) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// IsCaptain reports whether the given player is this team's captain.
func (t Team) IsCaptain(playerID int64) bool {
	return t.CaptainID != nil && *t.CaptainID == playerID
}

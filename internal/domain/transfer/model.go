package transfer

import "time"

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Transfer is an append-only audit entry for one roster change. It records
// the penalty projection at the time the change was applied; authoritative
// totals are always recomputed from Team.TransfersUsed.
type Transfer struct {
	UserID         string
	Round          int
	PlayerID       int64
	Action         Action
	PenaltyApplied bool
	PointsDeducted int
	AppliedAt      time.Time
}

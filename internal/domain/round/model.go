package round

import "time"

// Round is one scoring period. The round number is its identity and is
// immutable once created.
type Round struct {
	Number          int
	Deadline        time.Time
	TeamSize        int
	Budget          *int64
	IsClosed        bool
	FreeTransfers   int
	TransferPenalty int
}

// Editable reports whether the round still accepts team edits at the given
// instant: not closed and deadline not yet reached.
func (r Round) Editable(now time.Time) bool {
	return !r.IsClosed && now.Before(r.Deadline)
}

// DeadlinePassed reports whether the round's deadline has elapsed.
func (r Round) DeadlinePassed(now time.Time) bool {
	return now.After(r.Deadline)
}

package score

// PlayerScore holds the points one player earned in one round, unique per
// (player id, round number) pair.
type PlayerScore struct {
	PlayerID int64
	Round    int
	Points   int
}

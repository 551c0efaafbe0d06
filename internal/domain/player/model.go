package player

// Player is a selectable real-world player. Points is the admin-settable
// headline value shown in listings; per-round performance lives in
// score.PlayerScore.
type Player struct {
	ID        int64
	Name      string
	Price     int64
	Qualified bool
	Points    int
}

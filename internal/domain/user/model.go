package user

// User is a competition participant. TotalPoints is owned exclusively by the
// scoring aggregation step.
type User struct {
	ID          string
	Name        string
	Email       string
	TotalPoints int
}

// Principal is the authenticated identity resolved from an access token.
type Principal struct {
	UserID string
	Email  string
}

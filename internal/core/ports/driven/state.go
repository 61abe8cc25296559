package driven

// StateIssuer issues and checks the anti-forgery state of a login attempt.
type StateIssuer interface {
	// Generate returns a fresh state token.
	Generate() (string, error)

	// Validate reports whether token was issued here and has not expired.
	Validate(token string) error
}

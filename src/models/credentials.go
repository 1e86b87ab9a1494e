package models

// MCredentials holds the broker secrets, loaded once from the environment
// and immutable for the process lifetime.
type MCredentials struct {
	APIKey   string
	UserID   string
	PIN      string
	TOTPSeed string
}

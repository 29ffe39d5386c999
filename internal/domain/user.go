package domain

import "time"

// User represents a registered account of the system. PasswordHash holds the
// bcrypt digest, never the plaintext.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the slice of a User carried in an authenticated session.
type Identity struct {
	UserID int64
	Name   string
}

package user

import "time"

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// Credentials carries the stored password hash and reset-token state for a
// user. Kept separate from User so the hash never leaves the auth layer.
type Credentials struct {
	UserID           string
	PasswordHash     string
	ResetToken       string
	ResetTokenExpiry time.Time
}

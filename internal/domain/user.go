package domain

import "time"

// User is an authenticated account on the admin side of the site.
// There is no role system: any authenticated user may manage content.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Name         string    `json:"name"`
	LastLoginAt  time.Time `json:"last_login_at,omitzero"`
	Timestamps
}

// Public returns a copy safe to serialize in API responses.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

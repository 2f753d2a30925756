package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"` // Never expose this to the client
	Birthday       *time.Time `json:"birthday,omitempty"`
	FavoriteMovies []string   `json:"favoriteMovies"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Sanitize returns a copy of the user safe to serialize to a client.
func (u User) Sanitize() User {
	u.PasswordHash = ""
	return u
}

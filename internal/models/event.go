package models

import "time"

// Event represents an entry in the account activity trail.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "user.login", "user.register"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	Username  *string   `json:"username,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}

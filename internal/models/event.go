package models

import "time"

// Event represents a mutation attempted through the web client.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "user.create", "interest.remove"
	Level     string    `json:"level"` // "info" or "error"
	Message   string    `json:"message"`
	UserID    *int64    `json:"userId,omitempty"` // Nil for roster-wide events
	CreatedAt time.Time `json:"createdAt"`
}

package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/myflix/myflix-be/internal/models"
)

// EventServiceProvider defines the interface for the activity trail.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string, username *string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService persists account activity events.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string, username *string) error {
	event := models.Event{
		ID:       uuid.New().String(),
		Type:     eventType,
		Level:    level,
		Message:  message,
		Username: username,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, type, level, message, username) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.Username)
	return err
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, level, message, username, created_at FROM events ORDER BY created_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.Username, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

package domain

import "time"

// CareerEvent is a scheduled career fair, workshop or talk users can register for.
type CareerEvent struct {
	EventID     string    `json:"id" dynamodbav:"event_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Location    string    `json:"location" dynamodbav:"location"`
	EventDate   time.Time `json:"event_date" dynamodbav:"event_date"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// CreateEventRequest is the admin-side event creation input.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	EventDate   string `json:"event_date" validate:"required"` // RFC 3339
}

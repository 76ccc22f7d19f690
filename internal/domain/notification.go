package domain

import "time"

// Notification types.
const (
	NotificationJob       = "JOB"
	NotificationCareer    = "CAREER"
	NotificationInterview = "INTERVIEW"
	NotificationDeadline  = "DEADLINE"
)

// Notification is a durable delivery record addressed to a subject (a user id
// or a company id, used interchangeably). It is immutable except for IsRead,
// which only transitions false -> true.
type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Title          string    `json:"title" dynamodbav:"title"`
	Message        string    `json:"message" dynamodbav:"message"`
	Type           string    `json:"type" dynamodbav:"type"`
	IsRead         bool      `json:"is_read" dynamodbav:"is_read"`
	Link           string    `json:"link" dynamodbav:"link"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
}

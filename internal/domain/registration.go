package domain

import "time"

// EventRegistration statuses.
const (
	RegistrationPending   = "pending"
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// EventRegistration is one user's registration attempt for one CareerEvent.
// At most one row exists per (user_id, event_id); the pair is the table's
// composite primary key. An unverified row is replaced on resubmission, a
// confirmed row blocks further attempts.
//
// Invariant: IsEmailVerified=true implies Status=confirmed and both token
// fields nil (single-use erasure). IsEmailVerified=false implies
// Status=pending with both token fields set.
type EventRegistration struct {
	RegistrationID          string     `json:"id" dynamodbav:"registration_id"`
	UserID                  string     `json:"user_id" dynamodbav:"user_id"`
	EventID                 string     `json:"event_id" dynamodbav:"event_id"`
	FullName                string     `json:"full_name" dynamodbav:"full_name"`
	MobileNumber            string     `json:"mobile_number" dynamodbav:"mobile_number"`
	Institution             string     `json:"institution" dynamodbav:"institution"`
	Email                   string     `json:"email" dynamodbav:"email"`
	IsEmailVerified         bool       `json:"is_email_verified" dynamodbav:"is_email_verified"`
	VerificationToken       *string    `json:"-" dynamodbav:"verification_token"`
	VerificationTokenExpiry *int64     `json:"-" dynamodbav:"verification_token_expiry"`
	Status                  string     `json:"status" dynamodbav:"status"`
	VerifiedAt              *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at"`
	CreatedAt               time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt               time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// SubmitRegistrationRequest carries the double opt-in submission fields.
// Email is a snapshot and may differ from the account's login email.
type SubmitRegistrationRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	FullName     string `json:"full_name" validate:"required"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	Institution  string `json:"institution" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
}

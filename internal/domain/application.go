package domain

import "time"

// Application statuses. The set is flat and re-assignable: a company may move
// an application between any two values, including out of hired or rejected.
const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationHired       = "hired"
	ApplicationRejected    = "rejected"
)

// ValidApplicationStatus reports whether s is one of the known statuses.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationPending, ApplicationShortlisted, ApplicationHired, ApplicationRejected:
		return true
	}
	return false
}

// Application is one applicant's submission to one job. At most one exists
// per (user_id, job_id); the pair is the table's composite primary key.
// CompanyName and JobTitle are denormalized snapshots taken at submission time.
type Application struct {
	ApplicationID            string    `json:"id" dynamodbav:"application_id"`
	UserID                   string    `json:"user_id" dynamodbav:"user_id"`
	JobID                    string    `json:"job_id" dynamodbav:"job_id"`
	CompanyID                string    `json:"company_id" dynamodbav:"company_id"`
	CompanyName              string    `json:"company_name" dynamodbav:"company_name"`
	JobTitle                 string    `json:"job_title" dynamodbav:"job_title"`
	CVURL                    string    `json:"cv_url" dynamodbav:"cv_url"`
	RecommendationLetterURLs []string  `json:"recommendation_letter_urls" dynamodbav:"recommendation_letter_urls"`
	CareerSummaryURLs        []string  `json:"career_summary_urls" dynamodbav:"career_summary_urls"`
	Status                   string    `json:"status" dynamodbav:"status"`
	CreatedAt                time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt                time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Artifact is a user-supplied binary file carried inside a submission request.
type Artifact struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data" validate:"required"`
}

// SubmitApplicationRequest carries everything needed to create an Application.
// CV is required and validated before any upload happens.
type SubmitApplicationRequest struct {
	JobID                 string     `json:"job_id" validate:"required"`
	CompanyID             string     `json:"company_id" validate:"required"`
	JobTitle              string     `json:"job_title" validate:"required"`
	CompanyName           string     `json:"company_name" validate:"required"`
	CV                    *Artifact  `json:"cv" validate:"required"`
	RecommendationLetters []Artifact `json:"recommendation_letters"`
	CareerSummaries       []Artifact `json:"career_summaries"`
	InterviewSlot         *time.Time `json:"interview_slot"`
}

// UpdateApplicationStatusRequest is the company-side status transition input.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

package http

import (
	"context"
	"time"

	"github.com/careerhub-api/internal/infrastructure/calendar"
	"github.com/careerhub-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/careerhub-api/internal/infrastructure/jwt"
	s3infra "github.com/careerhub-api/internal/infrastructure/s3"
	"github.com/careerhub-api/internal/infrastructure/smtp"
	"github.com/careerhub-api/internal/infrastructure/sns"
	"go.uber.org/zap"
)

// CalendarGateway is the minimal interface the router requires from a
// calendar backend.
type CalendarGateway interface {
	CreateEvent(ctx context.Context, summary, description string, start, end time.Time, reminderMinutes []int64) error
}

// calendarOrNil converts the concrete gateway pointer into the interface the
// workflow consumes. An unconfigured (nil) gateway must stay a nil interface;
// wrapping a nil pointer would defeat the workflow's nil check and turn
// "skip scheduling" into a failed side effect.
func calendarOrNil(g *calendar.Gateway) CalendarGateway {
	if g == nil {
		return nil
	}
	return g
}

// Deps holds all infrastructure dependencies for the router. Optional
// collaborators (Calendar, Publisher, JWTProvider) may be nil; the
// workflows degrade per their best-effort classification.
type Deps struct {
	ApplicationRepo  *dynamo.ApplicationRepo
	RegistrationRepo *dynamo.RegistrationRepo
	NotificationRepo *dynamo.NotificationRepo
	EventRepo        *dynamo.EventRepo
	ArtifactStore    *s3infra.Store
	Mailer           smtp.Mailer
	Publisher        sns.Publisher
	Calendar         *calendar.Gateway
	JWTProvider      *jwtinfra.Provider
	Logger           *zap.Logger
}

package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/careerhub-api/internal/config"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Gateway creates events on a Google Calendar. The workflows treat it as
// fire-and-forget: a failed insert is logged by the caller and never rolls
// back the record that triggered it.
type Gateway struct {
	svc        *gcal.Service
	calendarID string
	timeZone   string
}

// NewGateway builds a Gateway from a service-account credentials file.
func NewGateway(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	if cfg.GoogleCredentialsPath == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_PATH not set")
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(cfg.GoogleCredentialsPath),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &Gateway{svc: svc, calendarID: cfg.GoogleCalendarID, timeZone: cfg.CalendarTimeZone}, nil
}

// CreateEvent inserts a calendar event with popup reminder overrides at the
// given offsets before the start time.
func (g *Gateway) CreateEvent(ctx context.Context, summary, description string, start, end time.Time, reminderMinutes []int64) error {
	overrides := make([]*gcal.EventReminder, 0, len(reminderMinutes))
	for _, m := range reminderMinutes {
		overrides = append(overrides, &gcal.EventReminder{Method: "popup", Minutes: m})
	}
	ev := &gcal.Event{
		Summary:     summary,
		Description: description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: g.timeZone},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: g.timeZone},
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		},
	}
	if _, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do(); err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}

package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/careerhub-api/internal/domain"
	"github.com/careerhub-api/internal/pkg/effort"
	"github.com/careerhub-api/internal/pkg/id"
	"github.com/careerhub-api/internal/pkg/token"
	"github.com/careerhub-api/internal/pkg/validate"
	"go.uber.org/zap"
)

type Service interface {
	// Submit starts the double opt-in: it creates a pending registration
	// with a fresh single-use token and dispatches the verification email.
	// The email is the one critical-path side effect — its failure
	// propagates, because without it verification can never complete.
	Submit(ctx context.Context, userID string, req domain.SubmitRegistrationRequest) (string, error)
	// VerifyEmail promotes a pending registration to confirmed exactly once
	// and erases the token. Expired and unknown tokens are deliberately
	// indistinguishable.
	VerifyEmail(ctx context.Context, verificationToken string) (*domain.EventRegistration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error)
	Cancel(ctx context.Context, registrationID, userID string) error
}

type registrationStore interface {
	Create(ctx context.Context, reg *domain.EventRegistration) error
	GetByUserEvent(ctx context.Context, userID, eventID string) (*domain.EventRegistration, error)
	GetByID(ctx context.Context, registrationID string) (*domain.EventRegistration, error)
	GetByToken(ctx context.Context, token string) (*domain.EventRegistration, error)
	MarkVerified(ctx context.Context, userID, eventID string, verifiedAt time.Time) error
	Delete(ctx context.Context, userID, eventID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error)
}

type eventStore interface {
	Get(ctx context.Context, eventID string) (*domain.CareerEvent, error)
}

type mailer interface {
	SendEmail(to []string, subject, htmlBody string) error
}

type service struct {
	repo            registrationStore
	events          eventStore
	mailer          mailer
	frontendBaseURL string
	tokenTTL        time.Duration
	log             *zap.Logger
}

type ServiceDeps struct {
	RegistrationRepo registrationStore
	EventRepo        eventStore
	Mailer           mailer
	FrontendBaseURL  string
	TokenTTL         time.Duration
	Logger           *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:            deps.RegistrationRepo,
		events:          deps.EventRepo,
		mailer:          deps.Mailer,
		frontendBaseURL: deps.FrontendBaseURL,
		tokenTTL:        deps.TokenTTL,
		log:             deps.Logger,
	}
}

func (s *service) Submit(ctx context.Context, userID string, req domain.SubmitRegistrationRequest) (string, error) {
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	event, err := s.events.Get(ctx, req.EventID)
	if err != nil {
		return "", err
	}

	// A confirmed registration blocks resubmission; an unverified one is
	// superseded — deleted and recreated with a fresh token — so the
	// composite primary key stays unique without blocking retries.
	existing, err := s.repo.GetByUserEvent(ctx, userID, req.EventID)
	if err == nil {
		if existing.IsEmailVerified || existing.Status == domain.RegistrationConfirmed {
			return "", fmt.Errorf("already registered for this event: %w", domain.ErrConflict)
		}
		if err := s.repo.Delete(ctx, userID, req.EventID); err != nil {
			return "", err
		}
	}

	verificationToken, err := token.NewVerificationToken()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	expiry := now.Add(s.tokenTTL).Unix()
	reg := &domain.EventRegistration{
		RegistrationID:          id.New(),
		UserID:                  userID,
		EventID:                 req.EventID,
		FullName:                req.FullName,
		MobileNumber:            req.MobileNumber,
		Institution:             req.Institution,
		Email:                   req.Email,
		IsEmailVerified:         false,
		VerificationToken:       &verificationToken,
		VerificationTokenExpiry: &expiry,
		Status:                  domain.RegistrationPending,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		return "", err
	}

	if err := s.sendVerificationEmail(reg, event, verificationToken); err != nil {
		return "", err
	}
	return reg.RegistrationID, nil
}

func (s *service) sendVerificationEmail(reg *domain.EventRegistration, event *domain.CareerEvent, verificationToken string) error {
	link := fmt.Sprintf("%s/verify-event-registration?token=%s", s.frontendBaseURL, verificationToken)
	body := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Please confirm your registration for <strong>%s</strong> by clicking the link below. "+
			"The link is valid for %d hours.</p>"+
			"<p><a href=%q>Verify my registration</a></p>",
		reg.FullName, event.Title, int(s.tokenTTL.Hours()), link)
	return s.mailer.SendEmail([]string{reg.Email}, "Verify your event registration", body)
}

func (s *service) VerifyEmail(ctx context.Context, verificationToken string) (*domain.EventRegistration, error) {
	if verificationToken == "" {
		return nil, fmt.Errorf("token is required: %w", domain.ErrBadRequest)
	}
	reg, err := s.repo.GetByToken(ctx, verificationToken)
	if err != nil {
		// Only a genuine miss gets the uniform message; a store failure is
		// not a 404 and propagates as-is.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("registration not found or token expired: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if reg.IsEmailVerified {
		return nil, fmt.Errorf("registration already confirmed: %w", domain.ErrAlreadyVerified)
	}
	now := time.Now().UTC()
	if reg.VerificationTokenExpiry == nil || *reg.VerificationTokenExpiry <= now.Unix() {
		// Same message as an unknown token: expiry must not be leakable.
		return nil, fmt.Errorf("registration not found or token expired: %w", domain.ErrNotFound)
	}

	// One atomic conditional update settles concurrent verifications: the
	// second caller gets ErrAlreadyVerified and no confirmation re-send.
	if err := s.repo.MarkVerified(ctx, reg.UserID, reg.EventID, now); err != nil {
		return nil, err
	}
	reg.IsEmailVerified = true
	reg.Status = domain.RegistrationConfirmed
	reg.VerifiedAt = &now
	reg.VerificationToken = nil
	reg.VerificationTokenExpiry = nil
	reg.UpdatedAt = now

	// The confirmed record is the source of truth; the confirmation email
	// is a courtesy.
	effort.Try(s.log, "confirmation email", func() error {
		event, err := s.events.Get(ctx, reg.EventID)
		if err != nil {
			return err
		}
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Your registration for <strong>%s</strong> on %s is confirmed. See you there!</p>",
			reg.FullName, event.Title, event.EventDate.Format("January 2, 2006"))
		return s.mailer.SendEmail([]string{reg.Email}, "Registration confirmed: "+event.Title, body)
	})
	return reg, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Cancel hard-deletes the caller's registration in any status.
func (s *service) Cancel(ctx context.Context, registrationID, userID string) error {
	reg, err := s.repo.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.UserID != userID {
		return fmt.Errorf("registration not found: %w", domain.ErrNotFound)
	}
	return s.repo.Delete(ctx, reg.UserID, reg.EventID)
}

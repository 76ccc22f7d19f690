package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/careerhub-api/internal/domain"
	"github.com/careerhub-api/internal/pkg/effort"
	"github.com/careerhub-api/internal/pkg/id"
	"github.com/careerhub-api/internal/pkg/validate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Interview events are 30 minutes with reminders 1 day and 1 hour before.
const interviewDuration = 30 * time.Minute

var interviewReminderMinutes = []int64{24 * 60, 60}

type Service interface {
	// Submit orchestrates one application: fail-fast validation, dedupe,
	// parallel artifact uploads, persistence, then best-effort side effects.
	// The returned bool is the partial-success flag: false means the
	// application committed but at least one side effect failed.
	Submit(ctx context.Context, userID string, req domain.SubmitApplicationRequest) (*domain.Application, bool, error)
	UpdateStatus(ctx context.Context, applicationID, companyID, status string) (*domain.Application, error)
	DeleteByApplicant(ctx context.Context, applicationID, userID string) error
	DeleteByCompany(ctx context.Context, applicationID, companyID string) error
	ListByApplicant(ctx context.Context, userID string) ([]domain.Application, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Application, error)
}

type applicationStore interface {
	Create(ctx context.Context, a *domain.Application) error
	GetByUserJob(ctx context.Context, userID, jobID string) (*domain.Application, error)
	GetByID(ctx context.Context, applicationID string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, userID, jobID, status string) error
	Delete(ctx context.Context, userID, jobID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Application, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Application, error)
}

type artifactStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

type calendarGateway interface {
	CreateEvent(ctx context.Context, summary, description string, start, end time.Time, reminderMinutes []int64) error
}

type notifierService interface {
	Notify(ctx context.Context, subjectID, title, message, ntype, link string) (*domain.Notification, error)
}

type service struct {
	repo      applicationStore
	artifacts artifactStore
	calendar  calendarGateway // nil when no calendar is configured
	notifier  notifierService
	log       *zap.Logger
}

type ServiceDeps struct {
	ApplicationRepo applicationStore
	ArtifactStore   artifactStore
	Calendar        calendarGateway
	Notifier        notifierService
	Logger          *zap.Logger
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:      deps.ApplicationRepo,
		artifacts: deps.ArtifactStore,
		calendar:  deps.Calendar,
		notifier:  deps.Notifier,
		log:       deps.Logger,
	}
}

func (s *service) Submit(ctx context.Context, userID string, req domain.SubmitApplicationRequest) (*domain.Application, bool, error) {
	// Fail fast before any upload: a submission without a CV never reaches
	// the artifact store.
	if err := validate.Struct(req); err != nil {
		return nil, false, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if req.CV == nil || len(req.CV.Data) == 0 {
		return nil, false, fmt.Errorf("cv artifact is required: %w", domain.ErrBadRequest)
	}

	if _, err := s.repo.GetByUserJob(ctx, userID, req.JobID); err == nil {
		return nil, false, fmt.Errorf("already applied to this job: %w", domain.ErrConflict)
	}

	applicationID := id.New()
	cvURL, letterURLs, summaryURLs, err := s.uploadArtifacts(ctx, userID, applicationID, &req)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ApplicationID:            applicationID,
		UserID:                   userID,
		JobID:                    req.JobID,
		CompanyID:                req.CompanyID,
		CompanyName:              req.CompanyName,
		JobTitle:                 req.JobTitle,
		CVURL:                    cvURL,
		RecommendationLetterURLs: letterURLs,
		CareerSummaryURLs:        summaryURLs,
		Status:                   domain.ApplicationPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	// The conditional write settles the duplicate race: the losing
	// concurrent submission fails here with ErrConflict.
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, false, err
	}

	// Everything below is best-effort: the application is committed and no
	// side-effect failure rolls it back.
	ok := true
	if req.InterviewSlot != nil && s.calendar != nil {
		slot := *req.InterviewSlot
		out := effort.Try(s.log, "schedule interview", func() error {
			return s.calendar.CreateEvent(ctx,
				fmt.Sprintf("Interview: %s at %s", req.JobTitle, req.CompanyName),
				fmt.Sprintf("Interview for the %s position.", req.JobTitle),
				slot, slot.Add(interviewDuration),
				interviewReminderMinutes,
			)
		})
		ok = ok && out.OK()
	}
	out := effort.Try(s.log, "notify company", func() error {
		_, err := s.notifier.Notify(ctx, req.CompanyID,
			"New Application Received",
			fmt.Sprintf("A new application was submitted for %s.", req.JobTitle),
			domain.NotificationJob,
			"/company/applications",
		)
		return err
	})
	ok = ok && out.OK()

	return app, ok, nil
}

// uploadArtifacts runs all uploads for one submission concurrently. Results
// join in input order; the first failure cancels the remaining uploads and
// aborts the submission.
func (s *service) uploadArtifacts(ctx context.Context, userID, applicationID string, req *domain.SubmitApplicationRequest) (cvURL string, letterURLs, summaryURLs []string, err error) {
	base := fmt.Sprintf("applications/%s/%s", userID, applicationID)
	letterURLs = make([]string, len(req.RecommendationLetters))
	summaryURLs = make([]string, len(req.CareerSummaries))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.upload(gctx, base+"/cv", req.CV)
		if err != nil {
			return err
		}
		cvURL = url
		return nil
	})
	for i := range req.RecommendationLetters {
		g.Go(func() error {
			url, err := s.upload(gctx, fmt.Sprintf("%s/letters/%02d", base, i), &req.RecommendationLetters[i])
			if err != nil {
				return err
			}
			letterURLs[i] = url
			return nil
		})
	}
	for i := range req.CareerSummaries {
		g.Go(func() error {
			url, err := s.upload(gctx, fmt.Sprintf("%s/summaries/%02d", base, i), &req.CareerSummaries[i])
			if err != nil {
				return err
			}
			summaryURLs[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, nil, err
	}
	return cvURL, letterURLs, summaryURLs, nil
}

func (s *service) upload(ctx context.Context, prefix string, a *domain.Artifact) (string, error) {
	name := sanitizeFilename(a.Filename)
	contentType := a.ContentType
	if contentType == "" {
		contentType = contentTypeFromName(name)
	}
	return s.artifacts.Upload(ctx, prefix+"/"+name, bytes.NewReader(a.Data), contentType)
}

func (s *service) UpdateStatus(ctx context.Context, applicationID, companyID, status string) (*domain.Application, error) {
	if !domain.ValidApplicationStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, domain.ErrBadRequest)
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	// Scoped: another company's application is indistinguishable from a
	// missing one.
	if app.CompanyID != companyID {
		return nil, fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	if err := s.repo.UpdateStatus(ctx, app.UserID, app.JobID, status); err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()

	if title, message, ok := statusNotification(status, app.JobTitle, app.CompanyName); ok {
		effort.Try(s.log, "notify applicant", func() error {
			_, err := s.notifier.Notify(ctx, app.UserID, title, message,
				domain.NotificationInterview, "/applications")
			return err
		})
	}
	return app, nil
}

// statusNotification returns the applicant-facing template for a status
// transition. Pending has no template.
func statusNotification(status, jobTitle, companyName string) (title, message string, ok bool) {
	switch status {
	case domain.ApplicationShortlisted:
		return "Application Shortlisted",
			fmt.Sprintf("Your application for %s at %s has been shortlisted.", jobTitle, companyName), true
	case domain.ApplicationHired:
		return "Congratulations, You're Hired!",
			fmt.Sprintf("Your application for %s at %s was accepted.", jobTitle, companyName), true
	case domain.ApplicationRejected:
		return "Application Update",
			fmt.Sprintf("Your application for %s at %s was not selected.", jobTitle, companyName), true
	}
	return "", "", false
}

func (s *service) DeleteByApplicant(ctx context.Context, applicationID, userID string) error {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	// The applicant path distinguishes missing from not-owned.
	if app.UserID != userID {
		return fmt.Errorf("not the owner of this application: %w", domain.ErrForbidden)
	}
	return s.deleteWithArtifacts(ctx, app)
}

func (s *service) DeleteByCompany(ctx context.Context, applicationID, companyID string) error {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.CompanyID != companyID {
		return fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	return s.deleteWithArtifacts(ctx, app)
}

// deleteWithArtifacts hard-deletes the record, then cleans up stored
// artifacts best-effort: an orphaned object is preferable to a failed delete.
func (s *service) deleteWithArtifacts(ctx context.Context, app *domain.Application) error {
	if err := s.repo.Delete(ctx, app.UserID, app.JobID); err != nil {
		return err
	}
	urls := append([]string{app.CVURL}, app.RecommendationLetterURLs...)
	urls = append(urls, app.CareerSummaryURLs...)
	effort.Try(s.log, "delete artifacts", func() error {
		for _, u := range urls {
			key := s.artifacts.KeyFromURL(u)
			if key == "" {
				continue
			}
			if err := s.artifacts.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
	return nil
}

func (s *service) ListByApplicant(ctx context.Context, userID string) ([]domain.Application, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListByCompany(ctx context.Context, companyID string) ([]domain.Application, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}

func contentTypeFromName(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".doc") || strings.HasSuffix(lower, ".docx"):
		return "application/msword"
	default:
		return "application/octet-stream"
	}
}

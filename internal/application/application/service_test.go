package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/careerhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- mocks ---

type mockApplicationStore struct{ mock.Mock }

func (m *mockApplicationStore) Create(ctx context.Context, a *domain.Application) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockApplicationStore) GetByUserJob(ctx context.Context, userID, jobID string) (*domain.Application, error) {
	args := m.Called(ctx, userID, jobID)
	if a, _ := args.Get(0).(*domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockApplicationStore) GetByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	if a, _ := args.Get(0).(*domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockApplicationStore) UpdateStatus(ctx context.Context, userID, jobID, status string) error {
	return m.Called(ctx, userID, jobID, status).Error(0)
}
func (m *mockApplicationStore) Delete(ctx context.Context, userID, jobID string) error {
	return m.Called(ctx, userID, jobID).Error(0)
}
func (m *mockApplicationStore) ListByUser(ctx context.Context, userID string) ([]domain.Application, error) {
	args := m.Called(ctx, userID)
	if a, _ := args.Get(0).([]domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockApplicationStore) ListByCompany(ctx context.Context, companyID string) ([]domain.Application, error) {
	args := m.Called(ctx, companyID)
	if a, _ := args.Get(0).([]domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockArtifactStore struct{ mock.Mock }

func (m *mockArtifactStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockArtifactStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *mockArtifactStore) KeyFromURL(url string) string {
	return m.Called(url).String(0)
}

type mockCalendar struct{ mock.Mock }

func (m *mockCalendar) CreateEvent(ctx context.Context, summary, description string, start, end time.Time, reminderMinutes []int64) error {
	return m.Called(ctx, summary, description, start, end, reminderMinutes).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, subjectID, title, message, ntype, link string) (*domain.Notification, error) {
	args := m.Called(ctx, subjectID, title, message, ntype, link)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- builder ---

func newTestService(repo *mockApplicationStore, artifacts *mockArtifactStore, cal *mockCalendar, notif *mockNotifier) Service {
	deps := ServiceDeps{
		ApplicationRepo: repo,
		ArtifactStore:   artifacts,
		Notifier:        notif,
		Logger:          zap.NewNop(),
	}
	if cal != nil {
		deps.Calendar = cal
	}
	return NewService(deps)
}

func validRequest() domain.SubmitApplicationRequest {
	return domain.SubmitApplicationRequest{
		JobID:       "job-1",
		CompanyID:   "co-1",
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
		CV:          &domain.Artifact{Filename: "cv.pdf", Data: []byte("pdf-bytes")},
	}
}

func keySuffix(suffix string) interface{} {
	return mock.MatchedBy(func(key string) bool { return strings.HasSuffix(key, suffix) })
}

func keyContains(sub string) interface{} {
	return mock.MatchedBy(func(key string) bool { return strings.Contains(key, sub) })
}

// --- Submit ---

func TestSubmit_MissingCV_FailsBeforeAnyUpload(t *testing.T) {
	repo := &mockApplicationStore{}
	artifacts := &mockArtifactStore{}
	svc := newTestService(repo, artifacts, nil, &mockNotifier{})

	req := validRequest()
	req.CV = nil
	_, _, err := svc.Submit(context.Background(), "u1", req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "GetByUserJob", mock.Anything, mock.Anything, mock.Anything)
	artifacts.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_EmptyCVData_FailsBeforeAnyUpload(t *testing.T) {
	artifacts := &mockArtifactStore{}
	svc := newTestService(&mockApplicationStore{}, artifacts, nil, &mockNotifier{})

	req := validRequest()
	req.CV = &domain.Artifact{Filename: "cv.pdf"}
	_, _, err := svc.Submit(context.Background(), "u1", req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	artifacts.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_Duplicate_ReturnsConflict(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").
		Return(&domain.Application{ApplicationID: "existing"}, nil)
	artifacts := &mockArtifactStore{}
	svc := newTestService(repo, artifacts, nil, &mockNotifier{})

	_, _, err := svc.Submit(context.Background(), "u1", validRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	artifacts.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_UploadFailure_AbortsBeforePersist(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").Return(nil, domain.ErrNotFound)
	artifacts := &mockArtifactStore{}
	artifacts.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable"))
	svc := newTestService(repo, artifacts, nil, &mockNotifier{})

	_, _, err := svc.Submit(context.Background(), "u1", validRequest())

	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_Success_PreservesAttachmentOrder(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	artifacts := &mockArtifactStore{}
	artifacts.On("Upload", mock.Anything, keyContains("/cv/"), mock.Anything).Return("url-cv", nil)
	artifacts.On("Upload", mock.Anything, keyContains("/letters/00/"), mock.Anything).Return("url-letter-0", nil)
	artifacts.On("Upload", mock.Anything, keyContains("/letters/01/"), mock.Anything).Return("url-letter-1", nil)

	notif := &mockNotifier{}
	notif.On("Notify", mock.Anything, "co-1", mock.Anything, mock.Anything, domain.NotificationJob, mock.Anything).
		Return(&domain.Notification{}, nil)

	svc := newTestService(repo, artifacts, nil, notif)

	req := validRequest()
	req.RecommendationLetters = []domain.Artifact{
		{Filename: "first.pdf", Data: []byte("a")},
		{Filename: "second.pdf", Data: []byte("b")},
	}
	app, ok, err := svc.Submit(context.Background(), "u1", req)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.ApplicationPending, app.Status)
	assert.Equal(t, "url-cv", app.CVURL)
	assert.Equal(t, []string{"url-letter-0", "url-letter-1"}, app.RecommendationLetterURLs)
	notif.AssertExpectations(t)
}

func TestSubmit_SanitizesHostileFilename(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	artifacts := &mockArtifactStore{}
	artifacts.On("Upload", mock.Anything, keySuffix("/cv/passwd"), mock.Anything).Return("url-cv", nil)

	notif := &mockNotifier{}
	notif.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Notification{}, nil)

	svc := newTestService(repo, artifacts, nil, notif)

	req := validRequest()
	req.CV = &domain.Artifact{Filename: "../../etc/passwd", Data: []byte("x")}
	_, _, err := svc.Submit(context.Background(), "u1", req)

	require.NoError(t, err)
	artifacts.AssertExpectations(t)
}

func TestSubmit_CreateConflict_SurfacesToCaller(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	artifacts := &mockArtifactStore{}
	artifacts.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("url", nil)

	svc := newTestService(repo, artifacts, nil, &mockNotifier{})

	_, _, err := svc.Submit(context.Background(), "u1", validRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestSubmit_NotifyFailure_ReturnsPartialSuccess(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	artifacts := &mockArtifactStore{}
	artifacts.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("url", nil)

	notif := &mockNotifier{}
	notif.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("notification store down"))

	svc := newTestService(repo, artifacts, nil, notif)

	app, ok, err := svc.Submit(context.Background(), "u1", validRequest())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.False(t, ok)
}

func TestSubmit_CalendarFailure_DoesNotRollBack(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	artifacts := &mockArtifactStore{}
	artifacts.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("url", nil)

	cal := &mockCalendar{}
	cal.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("calendar API quota exceeded"))

	notif := &mockNotifier{}
	notif.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Notification{}, nil)

	svc := newTestService(repo, artifacts, cal, notif)

	slot := time.Now().Add(48 * time.Hour).UTC()
	req := validRequest()
	req.InterviewSlot = &slot
	app, ok, err := svc.Submit(context.Background(), "u1", req)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.False(t, ok)
	cal.AssertExpectations(t)
}

func TestSubmit_InterviewSlotWithoutCalendar_Skipped(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByUserJob", mock.Anything, "u1", "job-1").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	artifacts := &mockArtifactStore{}
	artifacts.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("url", nil)

	notif := &mockNotifier{}
	notif.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Notification{}, nil)

	svc := newTestService(repo, artifacts, nil, notif)

	slot := time.Now().Add(48 * time.Hour).UTC()
	req := validRequest()
	req.InterviewSlot = &slot
	_, ok, err := svc.Submit(context.Background(), "u1", req)

	require.NoError(t, err)
	assert.True(t, ok)
}

// --- UpdateStatus ---

func TestUpdateStatus_InvalidStatus_BadRequest(t *testing.T) {
	repo := &mockApplicationStore{}
	svc := newTestService(repo, &mockArtifactStore{}, nil, &mockNotifier{})

	_, err := svc.UpdateStatus(context.Background(), "app-1", "co-1", "archived")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateStatus_OtherCompany_NotFound(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").
		Return(&domain.Application{ApplicationID: "app-1", CompanyID: "someone-else"}, nil)
	svc := newTestService(repo, &mockArtifactStore{}, nil, &mockNotifier{})

	_, err := svc.UpdateStatus(context.Background(), "app-1", "co-1", domain.ApplicationHired)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_Hired_NotifiesApplicant(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{
		ApplicationID: "app-1",
		UserID:        "u1",
		JobID:         "job-1",
		CompanyID:     "co-1",
		JobTitle:      "Backend Engineer",
		CompanyName:   "Acme",
		Status:        domain.ApplicationShortlisted,
	}, nil)
	repo.On("UpdateStatus", mock.Anything, "u1", "job-1", domain.ApplicationHired).Return(nil)

	notif := &mockNotifier{}
	notif.On("Notify", mock.Anything, "u1", mock.Anything, mock.Anything, domain.NotificationInterview, "/applications").
		Return(&domain.Notification{}, nil)

	svc := newTestService(repo, &mockArtifactStore{}, nil, notif)

	app, err := svc.UpdateStatus(context.Background(), "app-1", "co-1", domain.ApplicationHired)

	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationHired, app.Status)
	notif.AssertExpectations(t)
}

func TestUpdateStatus_NotifyFailure_DoesNotFailTransition(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{
		ApplicationID: "app-1",
		UserID:        "u1",
		JobID:         "job-1",
		CompanyID:     "co-1",
		JobTitle:      "Backend Engineer",
		CompanyName:   "Acme",
	}, nil)
	repo.On("UpdateStatus", mock.Anything, "u1", "job-1", domain.ApplicationRejected).Return(nil)

	notif := &mockNotifier{}
	notif.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("unavailable"))

	svc := newTestService(repo, &mockArtifactStore{}, nil, notif)

	app, err := svc.UpdateStatus(context.Background(), "app-1", "co-1", domain.ApplicationRejected)

	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationRejected, app.Status)
}

func TestUpdateStatus_Pending_NoNotification(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{
		ApplicationID: "app-1",
		UserID:        "u1",
		JobID:         "job-1",
		CompanyID:     "co-1",
	}, nil)
	repo.On("UpdateStatus", mock.Anything, "u1", "job-1", domain.ApplicationPending).Return(nil)

	notif := &mockNotifier{}
	svc := newTestService(repo, &mockArtifactStore{}, nil, notif)

	_, err := svc.UpdateStatus(context.Background(), "app-1", "co-1", domain.ApplicationPending)

	require.NoError(t, err)
	notif.AssertNotCalled(t, "Notify",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Delete ---

func TestDeleteByApplicant_NotOwner_Forbidden(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").
		Return(&domain.Application{ApplicationID: "app-1", UserID: "someone-else"}, nil)
	svc := newTestService(repo, &mockArtifactStore{}, nil, &mockNotifier{})

	err := svc.DeleteByApplicant(context.Background(), "app-1", "u1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteByApplicant_CleansUpArtifacts(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{
		ApplicationID:            "app-1",
		UserID:                   "u1",
		JobID:                    "job-1",
		CVURL:                    "https://s3/cv",
		RecommendationLetterURLs: []string{"https://s3/letter"},
	}, nil)
	repo.On("Delete", mock.Anything, "u1", "job-1").Return(nil)

	artifacts := &mockArtifactStore{}
	artifacts.On("KeyFromURL", "https://s3/cv").Return("cv")
	artifacts.On("KeyFromURL", "https://s3/letter").Return("letter")
	artifacts.On("Delete", mock.Anything, "cv").Return(nil)
	artifacts.On("Delete", mock.Anything, "letter").Return(nil)

	svc := newTestService(repo, artifacts, nil, &mockNotifier{})

	err := svc.DeleteByApplicant(context.Background(), "app-1", "u1")

	require.NoError(t, err)
	artifacts.AssertExpectations(t)
}

func TestDeleteByApplicant_ArtifactCleanupFailure_Tolerated(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").Return(&domain.Application{
		ApplicationID: "app-1",
		UserID:        "u1",
		JobID:         "job-1",
		CVURL:         "https://s3/cv",
	}, nil)
	repo.On("Delete", mock.Anything, "u1", "job-1").Return(nil)

	artifacts := &mockArtifactStore{}
	artifacts.On("KeyFromURL", "https://s3/cv").Return("cv")
	artifacts.On("Delete", mock.Anything, "cv").Return(errors.New("access denied"))

	svc := newTestService(repo, artifacts, nil, &mockNotifier{})

	err := svc.DeleteByApplicant(context.Background(), "app-1", "u1")

	require.NoError(t, err)
}

func TestDeleteByCompany_OtherCompany_NotFound(t *testing.T) {
	repo := &mockApplicationStore{}
	repo.On("GetByID", mock.Anything, "app-1").
		Return(&domain.Application{ApplicationID: "app-1", CompanyID: "someone-else"}, nil)
	svc := newTestService(repo, &mockArtifactStore{}, nil, &mockNotifier{})

	err := svc.DeleteByCompany(context.Background(), "app-1", "co-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

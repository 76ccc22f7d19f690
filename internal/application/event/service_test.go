package event

import (
	"context"
	"errors"
	"testing"

	"github.com/careerhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventStore struct{ mock.Mock }

func (m *mockEventStore) Put(ctx context.Context, e *domain.CareerEvent) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockEventStore) Get(ctx context.Context, eventID string) (*domain.CareerEvent, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.CareerEvent); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockEventStore) Scan(ctx context.Context) ([]domain.CareerEvent, error) {
	args := m.Called(ctx)
	if e, _ := args.Get(0).([]domain.CareerEvent); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateEvent_MissingTitle_BadRequest(t *testing.T) {
	repo := &mockEventStore{}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), domain.CreateEventRequest{
		EventDate: "2026-10-15T09:00:00Z",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreateEvent_BadDate_BadRequest(t *testing.T) {
	repo := &mockEventStore{}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), domain.CreateEventRequest{
		Title:     "Tech Career Fair",
		EventDate: "next tuesday",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreateEvent_Success(t *testing.T) {
	repo := &mockEventStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo)

	e, err := svc.Create(context.Background(), domain.CreateEventRequest{
		Title:     "Tech Career Fair",
		Location:  "Hall B",
		EventDate: "2026-10-15T09:00:00Z",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, "Tech Career Fair", e.Title)
	assert.Equal(t, 2026, e.EventDate.Year())
	repo.AssertExpectations(t)
}

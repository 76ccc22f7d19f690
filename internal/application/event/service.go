package event

import (
	"context"
	"fmt"
	"time"

	"github.com/careerhub-api/internal/domain"
	"github.com/careerhub-api/internal/pkg/id"
	"github.com/careerhub-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateEventRequest) (*domain.CareerEvent, error)
	Get(ctx context.Context, eventID string) (*domain.CareerEvent, error)
	List(ctx context.Context) ([]domain.CareerEvent, error)
}

type eventStore interface {
	Put(ctx context.Context, e *domain.CareerEvent) error
	Get(ctx context.Context, eventID string) (*domain.CareerEvent, error)
	Scan(ctx context.Context) ([]domain.CareerEvent, error)
}

type service struct {
	repo eventStore
}

func NewService(repo eventStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateEventRequest) (*domain.CareerEvent, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	date, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("event_date must be RFC 3339: %w", domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	e := &domain.CareerEvent{
		EventID:     id.New(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		EventDate:   date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.CareerEvent, error) {
	return s.repo.Get(ctx, eventID)
}

func (s *service) List(ctx context.Context) ([]domain.CareerEvent, error) {
	return s.repo.Scan(ctx)
}

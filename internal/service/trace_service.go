// Package service contains the business rules sitting between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"tracemap/internal/geo"
	"tracemap/internal/middleware"
	"tracemap/internal/models"
	"tracemap/internal/repository"
)

type TraceService struct {
	traceRepo repository.TraceRepository
	policy    models.ExpiryPolicy
}

type CreateTraceInput struct {
	UserID    string
	Title     string
	Content   string
	ImageURL  string
	Latitude  float64
	Longitude float64
	ExpiresAt *time.Time
}

type ListOwnedInput struct {
	OwnerID        string
	IncludeDeleted bool
}

func NewTraceService(traceRepo repository.TraceRepository, policy models.ExpiryPolicy) *TraceService {
	return &TraceService{traceRepo: traceRepo, policy: policy}
}

func (s *TraceService) CreateTrace(ctx context.Context, in CreateTraceInput) (*models.Trace, error) {
	const maxTitleLen = 100
	const maxContentLen = 2000

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 100 characters)")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 2000 characters)")
	}
	if err := geo.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}

	trace := &models.Trace{
		UserID:    in.UserID,
		Title:     title,
		Content:   content,
		ImageURL:  in.ImageURL,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		ExpiresAt: in.ExpiresAt,
	}
	if err := s.traceRepo.Create(ctx, trace); err != nil {
		return nil, err
	}

	middleware.TracesCreated.Inc()
	return trace, nil
}

// GetTrace returns a single trace. Owners see their traces in every state;
// everyone else sees only what discovery would show, so hidden traces read as
// not found rather than confirming their existence.
func (s *TraceService) GetTrace(ctx context.Context, id, requesterID string) (*models.Trace, error) {
	trace, err := s.traceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trace == nil {
		return nil, models.NewNotFoundError("Trace", id)
	}
	if trace.UserID != requesterID && !trace.Visible(time.Now(), s.policy) {
		return nil, models.NewNotFoundError("Trace", id)
	}
	return trace, nil
}

// DeleteTrace soft-deletes the trace. Only the owner may do this; deleting an
// already-deleted trace succeeds without changing anything.
func (s *TraceService) DeleteTrace(ctx context.Context, traceID, requesterID string) error {
	return s.transition(ctx, traceID, requesterID, models.TraceActionDelete)
}

// RestoreTrace reverses a soft delete, making the trace discoverable again.
func (s *TraceService) RestoreTrace(ctx context.Context, traceID, requesterID string) (*models.Trace, error) {
	if err := s.transition(ctx, traceID, requesterID, models.TraceActionRestore); err != nil {
		return nil, err
	}
	return s.GetTrace(ctx, traceID, requesterID)
}

func (s *TraceService) transition(ctx context.Context, traceID, requesterID string, action models.TraceAction) error {
	trace, err := s.traceRepo.GetByID(ctx, traceID)
	if err != nil {
		return err
	}
	if trace == nil {
		return models.NewNotFoundError("Trace", traceID)
	}

	next, err := trace.State().Transition(action, requesterID, trace.UserID)
	if err != nil {
		return err
	}
	if next == trace.State() {
		return nil
	}

	if err := s.traceRepo.SetDeleted(ctx, traceID, next == models.TraceDeleted); err != nil {
		return err
	}
	middleware.TraceLifecycleTransitions.WithLabelValues(string(action)).Inc()
	return nil
}

// ListOwned returns the requester's own traces, newest first. Deleted traces
// are included only when asked for, so the owner can restore them.
func (s *TraceService) ListOwned(ctx context.Context, in ListOwnedInput) ([]*models.Trace, error) {
	return s.traceRepo.ListByOwner(ctx, in.OwnerID, in.IncludeDeleted)
}

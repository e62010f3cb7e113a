// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tracemap/internal/middleware"
	"tracemap/internal/models"

	"gorm.io/gorm"
)

// TraceRepository defines the interface for trace data operations.
//
// Reads return (nil, nil) when the row does not exist: whether a missing
// trace is an error is business meaning the service layer supplies. All
// other failures are wrapped as store-unavailable errors.
type TraceRepository interface {
	Create(ctx context.Context, trace *models.Trace) error
	GetByID(ctx context.Context, id string) (*models.Trace, error)
	ListVisible(ctx context.Context) ([]*models.Trace, error)
	ListByOwner(ctx context.Context, ownerID string, includeDeleted bool) ([]*models.Trace, error)
	SetDeleted(ctx context.Context, id string, deleted bool) error
}

// traceRepository implements TraceRepository
type traceRepository struct {
	db     *gorm.DB
	policy models.ExpiryPolicy
}

// NewTraceRepository creates a new trace repository applying the given
// expiry policy to visibility queries.
func NewTraceRepository(db *gorm.DB, policy models.ExpiryPolicy) TraceRepository {
	return &traceRepository{db: db, policy: policy}
}

func (r *traceRepository) Create(ctx context.Context, trace *models.Trace) error {
	if err := r.db.WithContext(ctx).Create(trace).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *traceRepository) GetByID(ctx context.Context, id string) (*models.Trace, error) {
	var trace models.Trace
	err := r.db.WithContext(ctx).First(&trace, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return &trace, nil
}

// ownerSummary restricts preloaded owner rows to the public profile columns.
func ownerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "image")
}

func (r *traceRepository) ListVisible(ctx context.Context) ([]*models.Trace, error) {
	var traces []*models.Trace

	query := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Where("is_deleted = ?", false)

	if r.policy == models.ExpiryHideAfter {
		query = query.Where("expires_at IS NULL OR expires_at > ?", time.Now())
	} else {
		query = query.Where("expires_at IS NULL")
	}

	if err := query.Find(&traces).Error; err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}

	// A trace whose owner row is gone is a data integrity violation (the FK
	// cascade should have removed it). Drop it from the result rather than
	// failing the whole query.
	kept := traces[:0]
	for _, t := range traces {
		if t.User.ID == "" {
			middleware.Logger.WarnContext(ctx, "dropping trace with missing owner",
				slog.String("trace_id", t.ID),
				slog.String("owner_id", t.UserID),
			)
			continue
		}
		kept = append(kept, t)
	}

	return kept, nil
}

func (r *traceRepository) ListByOwner(ctx context.Context, ownerID string, includeDeleted bool) ([]*models.Trace, error) {
	var traces []*models.Trace

	query := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC")
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	if err := query.Find(&traces).Error; err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return traces, nil
}

// SetDeleted flips the soft-delete flag and bumps updated_at. Setting the
// flag to its current value is a no-op success.
func (r *traceRepository) SetDeleted(ctx context.Context, id string, deleted bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Trace{}).
		Where("id = ?", id).
		Update("is_deleted", deleted).Error
	if err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

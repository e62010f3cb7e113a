package repository

import (
	"context"
	"errors"
	"log/slog"

	"tracemap/internal/middleware"
	"tracemap/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
// As with traces, reads return (nil, nil) for missing rows.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByTrace(ctx context.Context, traceID string) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return &comment, nil
}

// ListByTrace returns the non-deleted comments of a trace in creation order,
// each joined with the commenter's public profile.
func (r *commentRepository) ListByTrace(ctx context.Context, traceID string) ([]*models.Comment, error) {
	var comments []*models.Comment

	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Where("trace_id = ? AND is_deleted = ?", traceID, false).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}

	kept := comments[:0]
	for _, c := range comments {
		if c.User.ID == "" {
			middleware.Logger.WarnContext(ctx, "dropping comment with missing author",
				slog.String("comment_id", c.ID),
				slog.String("author_id", c.UserID),
			)
			continue
		}
		kept = append(kept, c)
	}

	return kept, nil
}

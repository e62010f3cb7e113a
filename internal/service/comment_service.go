package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"tracemap/internal/models"
	"tracemap/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	traceRepo   repository.TraceRepository
}

type CreateCommentInput struct {
	UserID   string
	TraceID  string
	Content  string
	ParentID *string
}

func NewCommentService(commentRepo repository.CommentRepository, traceRepo repository.TraceRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, traceRepo: traceRepo}
}

// CreateComment posts a comment on a trace. Replies are one level deep: the
// parent must be a root comment on the same trace.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const maxContentLen = 1000

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 1000 characters)")
	}

	trace, err := s.traceRepo.GetByID(ctx, in.TraceID)
	if err != nil {
		return nil, err
	}
	if trace == nil || trace.IsDeleted {
		return nil, models.NewNotFoundError("Trace", in.TraceID)
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.IsDeleted {
			return nil, models.NewValidationError("Parent comment not found")
		}
		if parent.TraceID != in.TraceID {
			return nil, models.NewValidationError("Parent comment belongs to a different trace")
		}
		if !parent.IsRoot() {
			return nil, models.NewValidationError("Cannot reply to a reply")
		}
	}

	comment := &models.Comment{
		TraceID:  in.TraceID,
		UserID:   in.UserID,
		ParentID: in.ParentID,
		Content:  content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListThreads returns the comments of a trace grouped into threads: root
// comments in creation order, each carrying its replies in creation order.
func (s *CommentService) ListThreads(ctx context.Context, traceID string) ([]*models.CommentThread, error) {
	trace, err := s.traceRepo.GetByID(ctx, traceID)
	if err != nil {
		return nil, err
	}
	if trace == nil {
		return nil, models.NewNotFoundError("Trace", traceID)
	}

	comments, err := s.commentRepo.ListByTrace(ctx, traceID)
	if err != nil {
		return nil, err
	}
	return BuildThreads(comments), nil
}

// BuildThreads groups a flat, creation-ordered comment list into root threads.
// A reply whose parent is absent from the list is dropped.
func BuildThreads(comments []*models.Comment) []*models.CommentThread {
	threads := make([]*models.CommentThread, 0, len(comments))
	byID := make(map[string]*models.CommentThread, len(comments))

	for _, c := range lo.Filter(comments, func(c *models.Comment, _ int) bool { return c.IsRoot() }) {
		thread := &models.CommentThread{Comment: *c, Replies: []*models.Comment{}}
		byID[c.ID] = thread
		threads = append(threads, thread)
	}

	for _, c := range comments {
		if c.IsRoot() {
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	return threads
}

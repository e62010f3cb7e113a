package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"tracemap/internal/models"
)

// stubTraceRepo is an in-memory TraceRepository for service tests.
type stubTraceRepo struct {
	traces          map[string]*models.Trace
	policy          models.ExpiryPolicy
	failErr         error
	setDeletedCalls int
}

func newStubTraceRepo() *stubTraceRepo {
	return &stubTraceRepo{traces: make(map[string]*models.Trace), policy: models.ExpiryHideAny}
}

func (r *stubTraceRepo) Create(_ context.Context, trace *models.Trace) error {
	if r.failErr != nil {
		return r.failErr
	}
	if trace.ID == "" {
		trace.ID = uuid.NewString()
	}
	copied := *trace
	r.traces[trace.ID] = &copied
	return nil
}

func (r *stubTraceRepo) GetByID(_ context.Context, id string) (*models.Trace, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	trace, ok := r.traces[id]
	if !ok {
		return nil, nil
	}
	copied := *trace
	return &copied, nil
}

func (r *stubTraceRepo) ListVisible(_ context.Context) ([]*models.Trace, error) {
	if r.failErr != nil {
		return nil, r.failErr
	}
	var out []*models.Trace
	for _, t := range r.traces {
		if t.IsDeleted {
			continue
		}
		if r.policy == models.ExpiryHideAny && t.ExpiresAt != nil {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTraceRepo) ListByOwner(_ context.Context, ownerID string, includeDeleted bool) ([]*models.Trace, error) {
	var out []*models.Trace
	for _, t := range r.traces {
		if t.UserID != ownerID {
			continue
		}
		if t.IsDeleted && !includeDeleted {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubTraceRepo) SetDeleted(_ context.Context, id string, deleted bool) error {
	r.setDeletedCalls++
	if t, ok := r.traces[id]; ok {
		t.IsDeleted = deleted
	}
	return nil
}

type stubCommentRepo struct {
	comments []*models.Comment
}

func (r *stubCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	copied := *comment
	r.comments = append(r.comments, &copied)
	return nil
}

func (r *stubCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *stubCommentRepo) ListByTrace(_ context.Context, traceID string) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range r.comments {
		if c.TraceID == traceID && !c.IsDeleted {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	users map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

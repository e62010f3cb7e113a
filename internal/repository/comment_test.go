package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracemap/internal/models"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{Content: "Nice trace!", TraceID: "t1", UserID: "u1"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "comments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
			WithArgs("c1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "trace_id", "user_id", "content"}).
				AddRow("c1", "t1", "u1", "A root comment"))

		comment, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		require.NotNil(t, comment)
		assert.True(t, comment.IsRoot())
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM "comments"`).
			WithArgs("nope", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		comment, err := repo.GetByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, comment)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByTrace(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM "comments" WHERE trace_id = (.+) AND is_deleted = (.+) ORDER BY created_at ASC`).
		WithArgs("t1", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trace_id", "user_id", "parent_id", "content"}).
			AddRow("c1", "t1", "u1", nil, "Root").
			AddRow("c2", "t1", "u2", "c1", "Reply"))

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image"}).
			AddRow("u1", "Author", "").
			AddRow("u2", "Replier", ""))

	comments, err := repo.ListByTrace(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.True(t, comments[0].IsRoot())
	assert.False(t, comments[1].IsRoot())
	assert.Equal(t, "Replier", comments[1].User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

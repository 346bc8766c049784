package service

import (
	"context"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	deleteFn      func(context.Context, uint) error
	countByPostFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		deleteFn:      func(context.Context, uint) error { return nil },
		countByPostFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

func TestCommentService_AddComment(t *testing.T) {
	t.Parallel()

	t.Run("empty content is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo())
		_, err := svc.AddComment(context.Background(), 1, 2, "")
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("missing post is rejected", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewCommentService(noopCommentRepo(), posts)
		_, err := svc.AddComment(context.Background(), 1, 2, "hello")
		assertAppErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("success attaches author and post", func(t *testing.T) {
		t.Parallel()
		comments := noopCommentRepo()
		var saved *models.Comment
		comments.createFn = func(_ context.Context, c *models.Comment) error {
			saved = c
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo())

		comment, err := svc.AddComment(context.Background(), 7, 3, "delicious")
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, uint(7), comment.UserID)
		assert.Equal(t, uint(3), comment.PostID)
		assert.Equal(t, "delicious", comment.Content)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	t.Run("only the author may delete", func(t *testing.T) {
		t.Parallel()
		comments := noopCommentRepo()
		comments.getByIDFn = func(context.Context, uint) (*models.Comment, error) {
			return &models.Comment{ID: 8, UserID: 2, PostID: 5}, nil
		}
		deleted := false
		comments.deleteFn = func(context.Context, uint) error {
			deleted = true
			return nil
		}
		svc := NewCommentService(comments, noopPostRepo())

		_, err := svc.DeleteComment(context.Background(), 99, 8)
		assertAppErrorCode(t, err, "FORBIDDEN")
		assert.False(t, deleted)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "/api/posts/5", appErr.Redirect)
	})

	t.Run("author delete returns the parent post", func(t *testing.T) {
		t.Parallel()
		comments := noopCommentRepo()
		comments.getByIDFn = func(context.Context, uint) (*models.Comment, error) {
			return &models.Comment{ID: 8, UserID: 2, PostID: 5}, nil
		}
		svc := NewCommentService(comments, noopPostRepo())

		postID, err := svc.DeleteComment(context.Background(), 2, 8)
		require.NoError(t, err)
		assert.Equal(t, uint(5), postID)
	})
}

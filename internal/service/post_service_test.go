package service

import (
	"context"
	"errors"
	"testing"

	"recipebox/internal/models"
	"recipebox/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	latestFn        func(context.Context, int) ([]*models.Post, int64, error)
	byUserFn        func(context.Context, uint, int) ([]*models.Post, int64, error)
	searchFn        func(context.Context, string, int) ([]*models.Post, int64, error)
	updateFn        func(context.Context, *models.Post) error
	deleteCascadeFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Latest(ctx context.Context, page int) ([]*models.Post, int64, error) {
	return s.latestFn(ctx, page)
}
func (s *postRepoStub) ByUser(ctx context.Context, userID uint, page int) ([]*models.Post, int64, error) {
	return s.byUserFn(ctx, userID, page)
}
func (s *postRepoStub) Search(ctx context.Context, query string, page int) ([]*models.Post, int64, error) {
	return s.searchFn(ctx, query, page)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) DeleteCascade(ctx context.Context, id uint) error {
	return s.deleteCascadeFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		latestFn: func(context.Context, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		byUserFn: func(context.Context, uint, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		searchFn: func(context.Context, string, int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:        func(context.Context, *models.Post) error { return nil },
		deleteCascadeFn: func(context.Context, uint) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	t.Run("requires title and content", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), newTestImageService(t))

		_, err := svc.CreatePost(context.Background(), 1, PostFields{Content: "body"}, ImageUpload{})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")

		_, err = svc.CreatePost(context.Background(), 1, PostFields{Title: "t"}, ImageUpload{})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("creates without image", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		var saved *models.Post
		repo.createFn = func(_ context.Context, p *models.Post) error {
			saved = p
			return nil
		}
		svc := NewPostService(repo, newTestImageService(t))

		post, err := svc.CreatePost(context.Background(), 7, PostFields{
			Title: "Pasta", Content: "boil water", Cuisine: "Italian", CookingTime: 20,
		}, ImageUpload{})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, uint(7), post.UserID)
		assert.Empty(t, post.ImagePath)
		assert.Equal(t, 20, post.CookingTime)
	})

	t.Run("disallowed image extension creates the post without an image", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), newTestImageService(t))

		post, err := svc.CreatePost(context.Background(), 1, PostFields{
			Title: "Pasta", Content: "boil water",
		}, ImageUpload{Filename: "recipe.txt", Data: []byte("text")})
		require.NoError(t, err)
		assert.Empty(t, post.ImagePath)
	})

	t.Run("undecodable image aborts the create", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		created := false
		repo.createFn = func(context.Context, *models.Post) error {
			created = true
			return nil
		}
		svc := NewPostService(repo, newTestImageService(t))

		_, err := svc.CreatePost(context.Background(), 1, PostFields{
			Title: "Pasta", Content: "boil water",
		}, ImageUpload{Filename: "photo.png", Data: []byte("garbage")})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
		assert.False(t, created)
	})

	t.Run("valid image is stored and referenced", func(t *testing.T) {
		t.Parallel()
		images := newTestImageService(t)
		svc := NewPostService(noopPostRepo(), images)

		post, err := svc.CreatePost(context.Background(), 1, PostFields{
			Title: "Cake", Content: "bake it",
		}, ImageUpload{Filename: "cake.png", Data: pngBytes(t, 64, 64)})
		require.NoError(t, err)
		require.NotEmpty(t, post.ImagePath)
		assert.True(t, images.Exists(post.ImagePath))
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	existing := func() *models.Post {
		return &models.Post{
			ID: 5, Title: "Old", Content: "old body", Ingredients: "flour",
			Cuisine: "French", CookingTime: 45, UserID: 2,
		}
	}

	t.Run("only the owner may edit", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return existing(), nil }
		updated := false
		repo.updateFn = func(context.Context, *models.Post) error {
			updated = true
			return nil
		}
		svc := NewPostService(repo, newTestImageService(t))

		_, err := svc.UpdatePost(context.Background(), 99, 5, PostFields{
			Title: "New", Content: "new body",
		}, ImageUpload{})
		assertAppErrorCode(t, err, "FORBIDDEN")
		assert.False(t, updated)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "/api/posts/5", appErr.Redirect)
	})

	t.Run("omitted optional fields are cleared", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return existing(), nil }
		var saved *models.Post
		repo.updateFn = func(_ context.Context, p *models.Post) error {
			saved = p
			return nil
		}
		svc := NewPostService(repo, newTestImageService(t))

		_, err := svc.UpdatePost(context.Background(), 2, 5, PostFields{
			Title: "New", Content: "new body",
		}, ImageUpload{})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Empty(t, saved.Ingredients)
		assert.Empty(t, saved.Cuisine)
		assert.Zero(t, saved.CookingTime)
	})

	t.Run("replacement image removes the old file", func(t *testing.T) {
		t.Parallel()
		images := newTestImageService(t)
		oldRel, err := images.Save("old.png", pngBytes(t, 32, 32))
		require.NoError(t, err)

		post := existing()
		post.ImagePath = oldRel
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return post, nil }
		svc := NewPostService(repo, images)

		updated, err := svc.UpdatePost(context.Background(), 2, 5, PostFields{
			Title: "New", Content: "new body",
		}, ImageUpload{Filename: "new.png", Data: pngBytes(t, 32, 32)})
		require.NoError(t, err)
		assert.NotEqual(t, oldRel, updated.ImagePath)
		assert.False(t, images.Exists(oldRel))
		assert.True(t, images.Exists(updated.ImagePath))
	})

	t.Run("disallowed replacement keeps the stored reference", func(t *testing.T) {
		t.Parallel()
		images := newTestImageService(t)
		oldRel, err := images.Save("old.png", pngBytes(t, 32, 32))
		require.NoError(t, err)

		post := existing()
		post.ImagePath = oldRel
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return post, nil }
		svc := NewPostService(repo, images)

		updated, err := svc.UpdatePost(context.Background(), 2, 5, PostFields{
			Title: "New", Content: "new body",
		}, ImageUpload{Filename: "file.txt", Data: []byte("nope")})
		require.NoError(t, err)
		assert.Equal(t, oldRel, updated.ImagePath)
	})

	t.Run("undecodable replacement aborts the whole edit", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return existing(), nil }
		updated := false
		repo.updateFn = func(context.Context, *models.Post) error {
			updated = true
			return nil
		}
		svc := NewPostService(repo, newTestImageService(t))

		_, err := svc.UpdatePost(context.Background(), 2, 5, PostFields{
			Title: "New", Content: "new body",
		}, ImageUpload{Filename: "photo.png", Data: []byte("garbage")})
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
		assert.False(t, updated)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	t.Run("only the owner may delete", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) {
			return &models.Post{ID: 5, UserID: 2}, nil
		}
		deleted := false
		repo.deleteCascadeFn = func(context.Context, uint) error {
			deleted = true
			return nil
		}
		svc := NewPostService(repo, newTestImageService(t))

		err := svc.DeletePost(context.Background(), 99, 5)
		assertAppErrorCode(t, err, "FORBIDDEN")
		assert.False(t, deleted)
	})

	t.Run("delete removes the stored image", func(t *testing.T) {
		t.Parallel()
		images := newTestImageService(t)
		rel, err := images.Save("dish.png", pngBytes(t, 16, 16))
		require.NoError(t, err)

		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) {
			return &models.Post{ID: 5, UserID: 2, ImagePath: rel}, nil
		}
		svc := NewPostService(repo, images)

		require.NoError(t, svc.DeletePost(context.Background(), 2, 5))
		assert.False(t, images.Exists(rel))
	})

	t.Run("missing post propagates not found", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(repo, newTestImageService(t))

		err := svc.DeletePost(context.Background(), 2, 5)
		assertAppErrorCode(t, err, "NOT_FOUND")
	})
}

func TestPostService_Feed(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.latestFn = func(_ context.Context, page int) ([]*models.Post, int64, error) {
		return []*models.Post{{ID: 1}}, 11, nil
	}
	svc := NewPostService(repo, newTestImageService(t))

	page, err := svc.Feed(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, repository.FeedPageSize, page.PerPage)
	assert.Equal(t, int64(11), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestPostService_Search(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.searchFn = func(_ context.Context, query string, _ int) ([]*models.Post, int64, error) {
		if query == "boom" {
			return nil, 0, errors.New("db down")
		}
		return nil, 0, nil
	}
	svc := NewPostService(repo, newTestImageService(t))

	page, err := svc.Search(context.Background(), "anything", 1)
	require.NoError(t, err)
	assert.NotNil(t, page.Posts)
	assert.Zero(t, page.TotalPages)

	_, err = svc.Search(context.Background(), "boom", 1)
	require.Error(t, err)
}

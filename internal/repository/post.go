package repository

import (
	"context"
	"errors"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// FeedPageSize is the fixed number of posts per feed page.
const FeedPageSize = 10

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Latest(ctx context.Context, page int) ([]*models.Post, int64, error)
	ByUser(ctx context.Context, userID uint, page int) ([]*models.Post, int64, error)
	Search(ctx context.Context, query string, page int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	DeleteCascade(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// paginate runs the query twice: once for the total match count and once for
// the requested page. An out-of-range page yields an empty slice, not an error.
func (r *postRepository) paginate(query *gorm.DB, page int) ([]*models.Post, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	err := query.
		Preload("User").
		Order("created_at DESC").
		Limit(FeedPageSize).
		Offset((page - 1) * FeedPageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Latest(ctx context.Context, page int) ([]*models.Post, int64, error) {
	return r.paginate(r.db.WithContext(ctx), page)
}

func (r *postRepository) ByUser(ctx context.Context, userID uint, page int) ([]*models.Post, int64, error) {
	return r.paginate(r.db.WithContext(ctx).Where("user_id = ?", userID), page)
}

func (r *postRepository) Search(ctx context.Context, query string, page int) ([]*models.Post, int64, error) {
	if query == "" {
		return r.Latest(ctx, page)
	}
	like := "%" + query + "%"
	return r.paginate(
		r.db.WithContext(ctx).
			Where("title LIKE ? OR content LIKE ? OR cuisine LIKE ?", like, like, like),
		page,
	)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	// Save writes every column so an edit that clears an optional field sticks.
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteCascade removes the post's comments and the post row in one
// transaction. Image file cleanup is the caller's concern: the filesystem
// cannot participate in the transaction.
func (r *postRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

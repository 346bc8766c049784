package service

import (
	"context"
	"errors"
	"fmt"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

// PostPath is the safe, read-only view of a post. Ownership failures carry it
// so the client is sent somewhere harmless instead of an error page.
func PostPath(id uint) string {
	return fmt.Sprintf("/api/posts/%d", id)
}

// PostFields are the scalar form fields of a recipe post. On update every one
// of them overwrites the stored value, empty or not.
type PostFields struct {
	Title       string
	Content     string
	Ingredients string
	Cuisine     string
	CookingTime int
}

// ImageUpload is an optional uploaded file accompanying a create or edit.
type ImageUpload struct {
	Filename string
	Data     []byte
}

func (u ImageUpload) present() bool {
	return u.Filename != "" || len(u.Data) > 0
}

// PostService implements recipe post use cases.
type PostService struct {
	postRepo repository.PostRepository
	images   *ImageService
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, images *ImageService) *PostService {
	return &PostService{
		postRepo: postRepo,
		images:   images,
	}
}

// CreatePost validates required fields, runs the optional image through the
// intake pipeline, and persists the post. A disallowed image extension is not
// an error; the post is simply created without an image.
func (s *PostService) CreatePost(ctx context.Context, userID uint, fields PostFields, upload ImageUpload) (*models.Post, error) {
	if fields.Title == "" || fields.Content == "" {
		return nil, models.NewValidationError("Recipe title and description are required")
	}

	imagePath := ""
	if upload.present() {
		saved, err := s.images.Save(upload.Filename, upload.Data)
		switch {
		case err == nil:
			imagePath = saved
		case errors.Is(err, ErrNoImage):
			// Not an image we accept; proceed without one.
		default:
			return nil, err
		}
	}

	post := &models.Post{
		Title:       fields.Title,
		Content:     fields.Content,
		Ingredients: fields.Ingredients,
		Cuisine:     fields.Cuisine,
		CookingTime: fields.CookingTime,
		ImagePath:   imagePath,
		UserID:      userID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites every scalar field from the submitted values: omitted
// optional fields are cleared. This full-replace contract is deliberate. The
// image is the exception, replaced only when a new upload is present.
func (s *PostService) UpdatePost(ctx context.Context, actorID, postID uint, fields PostFields, upload ImageUpload) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != actorID {
		return nil, models.NewForbiddenError(
			"You do not have permission to edit this post", PostPath(postID))
	}
	if fields.Title == "" || fields.Content == "" {
		return nil, models.NewValidationError("Recipe title and description are required")
	}

	post.Title = fields.Title
	post.Content = fields.Content
	post.Ingredients = fields.Ingredients
	post.Cuisine = fields.Cuisine
	post.CookingTime = fields.CookingTime

	if upload.present() {
		// The old file is removed before the new save is attempted. If the
		// replacement turns out to carry a disallowed extension the stored
		// reference survives even though the file is already gone; that
		// narrow race is accepted rather than papered over.
		if post.ImagePath != "" && s.images.Exists(post.ImagePath) {
			s.images.Remove(post.ImagePath)
		}
		saved, saveErr := s.images.Save(upload.Filename, upload.Data)
		switch {
		case saveErr == nil:
			post.ImagePath = saved
		case errors.Is(saveErr, ErrNoImage):
			// Prior reference stays as-is.
		default:
			// Undecodable data aborts the edit; no fields are persisted.
			return nil, saveErr
		}
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post and its comments in one transaction, then
// best-effort deletes the stored image file. A crash between the two leaves an
// orphaned file, which is accepted.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != actorID {
		return models.NewForbiddenError(
			"You do not have permission to delete this post", PostPath(postID))
	}

	if err := s.postRepo.DeleteCascade(ctx, postID); err != nil {
		return err
	}
	if post.ImagePath != "" {
		s.images.Remove(post.ImagePath)
	}
	return nil
}

// GetPost returns the post with its owner and ordered comments.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// Feed returns one page of the chronological feed, newest first.
func (s *PostService) Feed(ctx context.Context, page int) (*models.PostPage, error) {
	posts, total, err := s.postRepo.Latest(ctx, page)
	if err != nil {
		return nil, err
	}
	return models.NewPostPage(posts, normalizePage(page), repository.FeedPageSize, total), nil
}

// Search matches the query against title, content, and cuisine. An empty
// query falls back to the unfiltered feed.
func (s *PostService) Search(ctx context.Context, query string, page int) (*models.PostPage, error) {
	posts, total, err := s.postRepo.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}
	return models.NewPostPage(posts, normalizePage(page), repository.FeedPageSize, total), nil
}

// UserFeed returns one page of a single user's posts.
func (s *PostService) UserFeed(ctx context.Context, userID uint, page int) (*models.PostPage, error) {
	posts, total, err := s.postRepo.ByUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return models.NewPostPage(posts, normalizePage(page), repository.FeedPageSize, total), nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

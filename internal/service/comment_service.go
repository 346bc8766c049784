package service

import (
	"context"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

// CommentService implements comment use cases.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// AddComment attaches a comment to the post. The post must exist when the
// request starts; a concurrent post deletion mid-request is an accepted race.
func (s *CommentService) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewValidationError("Comment cannot be empty")
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		UserID:  userID,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment its author owns. It returns the parent post
// ID so the caller can point the client back at the post. Deleting a comment
// never affects the post itself.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uint) (uint, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if comment.UserID != actorID {
		return 0, models.NewForbiddenError(
			"You do not have permission to delete this comment", PostPath(comment.PostID))
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return 0, err
	}
	return comment.PostID, nil
}

package server

import (
	"strings"

	"recipebox/internal/middleware"
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed returns one page of the chronological feed, newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := s.postService.Feed(c.Context(), parsePage(c))
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(page)
}

// SearchPosts filters the feed by a free-text query over title, description,
// and cuisine. An empty query behaves exactly like the feed.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	page, err := s.postService.Search(c.Context(), query, parsePage(c))
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"query":   query,
		"results": page,
	})
}

// GetPost returns a single post with its author and comments, oldest first.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost creates a recipe post from a multipart form. The image part is
// optional; a file with a disallowed extension is silently skipped and the
// post is created without one.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	upload, err := readImageUpload(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	post, err := s.postService.CreatePost(c.Context(), userID, postFormFields(c), upload)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created",
		"post_id", post.ID, "has_image", post.ImagePath != "")
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost replaces every field of a post the caller owns. Omitted optional
// fields are cleared, not preserved.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	upload, err := readImageUpload(c)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	post, err := s.postService.UpdatePost(c.Context(), userID, id, postFormFields(c), upload)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post the caller owns, together with its comments and
// stored image.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), userID, id); err != nil {
		return models.RespondAppError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted", "post_id", id)
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

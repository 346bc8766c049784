package server

import (
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns a user's public profile together with one page of their
// posts, newest first.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.Profile(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondAppError(c, err)
	}

	page, err := s.postService.UserFeed(c.Context(), user.ID, parsePage(c))
	if err != nil {
		return models.RespondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"posts": page,
	})
}

// ToggleDarkMode flips the caller's dark mode preference and returns the new
// value.
func (s *Server) ToggleDarkMode(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	enabled, err := s.userService.ToggleDarkMode(c.Context(), userID)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"dark_mode": enabled})
}

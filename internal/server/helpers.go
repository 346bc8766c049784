package server

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePage extracts the 1-based page query parameter.
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// parseID extracts a route parameter by name as a positive uint. On failure
// it writes a 400 JSON response and returns errResponseWritten; callers check
// err != nil and return nil.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+strings.ToUpper(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// sanitizeNext restricts a post-login destination to a relative path on this
// site. Anything absolute, protocol-relative, or empty falls back to the
// default feed.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return defaultNext
	}
	if strings.ContainsAny(next, "\\\r\n") {
		return defaultNext
	}
	return next
}

// postFormFields reads the recipe form fields from a multipart or urlencoded
// body. An unparsable cooking_time is treated as unset.
func postFormFields(c *fiber.Ctx) service.PostFields {
	cookingTime, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("cooking_time")))
	if cookingTime < 0 {
		cookingTime = 0
	}
	return service.PostFields{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Content:     strings.TrimSpace(c.FormValue("content")),
		Ingredients: c.FormValue("ingredients"),
		Cuisine:     strings.TrimSpace(c.FormValue("cuisine")),
		CookingTime: cookingTime,
	}
}

// readImageUpload pulls the optional "image" file part out of the request.
// A missing part is not an error; it yields a zero ImageUpload.
func readImageUpload(c *fiber.Ctx) (service.ImageUpload, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return service.ImageUpload{}, nil
	}

	f, err := header.Open()
	if err != nil {
		return service.ImageUpload{}, models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.ImageUpload{}, models.NewInternalError(err)
	}

	return service.ImageUpload{
		Filename: header.Filename,
		Data:     data,
	}, nil
}

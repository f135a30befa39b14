package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Page is the envelope every page handler responds with. Template names the
// view the body is meant for and Context carries its variables.
type Page struct {
	Template string `json:"template"`
	Year     int    `json:"year"`
	Context  any    `json:"context"`
}

func (s *Server) render(c *fiber.Ctx, template string, data any) error {
	return s.renderStatus(c, fiber.StatusOK, template, data)
}

func (s *Server) renderStatus(c *fiber.Ctx, status int, template string, data any) error {
	return c.Status(status).JSON(Page{
		Template: template,
		Year:     s.now().Year(),
		Context:  data,
	})
}

// respondError maps an application error onto its HTTP status.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err)
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case models.CodeUnauthorized:
		return fiber.StatusForbidden
	case models.CodeInvalidOperation:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fieldErrors returns the per-field messages of a validation error, or nil for anything else.
func fieldErrors(err error) map[string][]string {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		if appErr.Fields != nil {
			return appErr.Fields
		}
		return map[string][]string{nonFieldErrors: {appErr.Message}}
	}
	return nil
}

// parseID extracts a route parameter by name as a positive uint.
// An unparseable ID can never match a row, so it is answered with 404.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(humanizeParam(param), c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "postId" -> "post ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		return strings.ToLower(strings.Join(splitCamel(prefix), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10)
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username)
}

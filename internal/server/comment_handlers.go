package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment godoc
// @Summary Comment on a post
// @Description Blank comments re-render the post with the form errors.
// @Tags comments
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Post ID"
// @Param text formData string true "Comment text"
// @Success 302 "Redirect to the post"
// @Failure 400 {object} Page
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comment [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	text := c.FormValue("text")
	_, err = s.commentService.AddComment(c.UserContext(), service.CreateCommentInput{
		PostID:   id,
		AuthorID: middleware.CurrentUserID(c),
		Text:     text,
	})
	if err != nil {
		fields := fieldErrors(err)
		if fields == nil {
			return s.respondError(c, err)
		}
		data, derr := s.postDetailPage(c, id)
		if derr != nil {
			return s.respondError(c, derr)
		}
		data.Form = newCommentForm(text, fields["text"])
		return s.renderStatus(c, fiber.StatusBadRequest, tmplPostDetail, data)
	}

	return c.Redirect(postURL(id), fiber.StatusFound)
}

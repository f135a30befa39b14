package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const followFeedPath = "/follow"

// ProfileFollow godoc
// @Summary Follow an author
// @Description Subscribes the current user. Following twice or following yourself changes nothing.
// @Tags follows
// @Param username path string true "Author username"
// @Success 302 "Redirect to the followed feed"
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/follow [get]
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	err := s.followService.Follow(c.UserContext(), middleware.CurrentUserID(c), c.Params("username"))
	if err != nil && !models.HasCode(err, models.CodeInvalidOperation) {
		return s.respondError(c, err)
	}
	return c.Redirect(followFeedPath, fiber.StatusFound)
}

// ProfileUnfollow godoc
// @Summary Unfollow an author
// @Tags follows
// @Param username path string true "Author username"
// @Success 302 "Redirect to the followed feed"
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/unfollow [get]
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.UserContext(), middleware.CurrentUserID(c), c.Params("username")); err != nil {
		return s.respondError(c, err)
	}
	return c.Redirect(followFeedPath, fiber.StatusFound)
}

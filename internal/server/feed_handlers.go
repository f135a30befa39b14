package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Index godoc
// @Summary Global feed
// @Description Every post, newest first. Responses are served from the page cache when it is enabled.
// @Tags feeds
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} Page
// @Router / [get]
func (s *Server) Index(c *fiber.Ctx) error {
	data, err := s.feedService.ListGlobalFeed(c.UserContext(), service.ParsePageNumber(c.Query("page")))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, tmplIndex, data)
}

// GroupPosts godoc
// @Summary Group feed
// @Tags feeds
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number"
// @Success 200 {object} Page
// @Failure 404 {object} models.ErrorResponse
// @Router /group/{slug} [get]
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	data, err := s.feedService.ListGroupFeed(c.UserContext(), c.Params("slug"), service.ParsePageNumber(c.Query("page")))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, tmplGroupList, data)
}

// Profile godoc
// @Summary Author feed
// @Tags feeds
// @Produce json
// @Param username path string true "Author username"
// @Param page query int false "Page number"
// @Success 200 {object} Page
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username} [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	data, err := s.feedService.ListAuthorFeed(c.UserContext(), c.Params("username"),
		middleware.CurrentUserID(c), service.ParsePageNumber(c.Query("page")))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, tmplProfile, data)
}

// FollowIndex godoc
// @Summary Followed feed
// @Description Posts by the authors the current user follows.
// @Tags feeds
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} Page
// @Success 302 "Redirect to login for anonymous users"
// @Router /follow [get]
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	data, err := s.feedService.ListFollowedFeed(c.UserContext(), middleware.CurrentUserID(c),
		service.ParsePageNumber(c.Query("page")))
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, tmplFollow, data)
}

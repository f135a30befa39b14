package server

import (
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateGroup godoc
// @Summary Create a group
// @Tags admin
// @Accept json
// @Produce json
// @Param request body validation.GroupInput true "Group"
// @Success 201 {object} models.Group
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/groups [post]
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req validation.GroupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.Create(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// DeleteGroup godoc
// @Summary Delete a group
// @Description Posts filed under the group are kept without a group.
// @Tags admin
// @Param slug path string true "Group slug"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/groups/{slug} [delete]
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	if err := s.groupService.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePost godoc
// @Summary Delete a post
// @Description Removes the post and its comments.
// @Tags admin
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Removes the user with their posts, comments and follows.
// @Tags admin
// @Param username path string true "Username"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{username} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.userService.DeleteUser(c.UserContext(), c.Params("username")); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

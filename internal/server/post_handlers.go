package server

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// PostDetail godoc
// @Summary Get a post
// @Description A post with its comments, newest first, and an empty comment form.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} Page
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	data, err := s.postDetailPage(c, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, tmplPostDetail, data)
}

func (s *Server) postDetailPage(c *fiber.Ctx, id uint) (*PostDetailPage, error) {
	ctx := c.UserContext()

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentService.ListComments(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.postService.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &PostDetailPage{
		Post:            post,
		Comments:        comments,
		Form:            newCommentForm("", nil),
		ReaderIsAuthor:  post.IsAuthoredBy(middleware.CurrentUserID(c)),
		AuthorPostCount: count,
	}, nil
}

// CreatePostForm godoc
// @Summary New post form
// @Tags posts
// @Produce json
// @Success 200 {object} Page
// @Success 302 "Redirect to login for anonymous users"
// @Router /create [get]
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	groups, err := s.postService.ListGroups(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return s.render(c, tmplCreatePost, PostFormPage{
		Form: newPostForm(validation.PostInput{}, groups, nil),
	})
}

// CreatePost godoc
// @Summary Create a post
// @Description Accepts multipart form data with text, an optional group ID and an optional image.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param text formData string true "Post text"
// @Param group formData string false "Group ID"
// @Param image formData file false "Image"
// @Success 302 "Redirect to the author's profile"
// @Failure 400 {object} Page
// @Router /create [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	form, err := readPostForm(c)
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID: middleware.CurrentUserID(c),
		Form:     form,
	})
	if err != nil {
		if fields := fieldErrors(err); fields != nil {
			return s.renderPostForm(c, fiber.StatusBadRequest, form, nil, fields)
		}
		return s.respondError(c, err)
	}

	return c.Redirect(profileURL(post.Author.Username), fiber.StatusFound)
}

// EditPostForm godoc
// @Summary Edit post form
// @Description Non-authors are redirected to the post.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} Page
// @Success 302 "Redirect to the post for non-authors"
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/edit [get]
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	if !post.IsAuthoredBy(middleware.CurrentUserID(c)) {
		return c.Redirect(postURL(post.ID), fiber.StatusFound)
	}

	form := validation.PostInput{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
	}
	return s.renderPostForm(c, fiber.StatusOK, form, post, nil)
}

// EditPost godoc
// @Summary Edit a post
// @Description An empty group removes the post from its group. Without a new image the current one is kept
// @Description unless image-clear is set.
// @Tags posts
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Post ID"
// @Param text formData string true "Post text"
// @Param group formData string false "Group ID"
// @Param image formData file false "Image"
// @Param image-clear formData bool false "Remove the current image"
// @Success 302 "Redirect to the post"
// @Failure 400 {object} Page
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/edit [post]
func (s *Server) EditPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return s.respondError(c, err)
	}
	userID := middleware.CurrentUserID(c)
	if !post.IsAuthoredBy(userID) {
		return c.Redirect(postURL(post.ID), fiber.StatusFound)
	}

	form, err := readPostForm(c)
	if err != nil {
		return s.respondError(c, err)
	}

	_, err = s.postService.EditPost(ctx, service.EditPostInput{UserID: userID, PostID: id, Form: form})
	switch {
	case err == nil:
	case models.HasCode(err, models.CodeUnauthorized):
		// The post changed hands between the check and the write.
	case fieldErrors(err) != nil:
		return s.renderPostForm(c, fiber.StatusBadRequest, form, post, fieldErrors(err))
	default:
		return s.respondError(c, err)
	}

	return c.Redirect(postURL(id), fiber.StatusFound)
}

func (s *Server) renderPostForm(c *fiber.Ctx, status int, in validation.PostInput, post *models.Post, fields map[string][]string) error {
	groups, err := s.postService.ListGroups(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	form := newPostForm(in, groups, fields)
	if post != nil && post.Image != "" && !in.ClearImage {
		form.Image.Value = post.Image
	}
	return s.renderStatus(c, status, tmplCreatePost, PostFormPage{
		Form:   form,
		IsEdit: post != nil,
		Post:   post,
	})
}

func newPostForm(in validation.PostInput, groups []*models.Group, fields map[string][]string) PostForm {
	choices := make([]GroupChoice, 0, len(groups)+1)
	choices = append(choices, GroupChoice{Value: "", Label: labelGroupEmpty, Selected: in.Group == ""})
	for _, g := range groups {
		value := strconv.FormatUint(uint64(g.ID), 10)
		choices = append(choices, GroupChoice{Value: value, Label: g.String(), Selected: value == in.Group})
	}

	return PostForm{
		Text:           FormField{Label: labelText, Value: in.Text, Required: true, Errors: fields["text"]},
		Group:          FormField{Label: labelGroup, Value: in.Group, Errors: fields["group"]},
		GroupChoices:   choices,
		Image:          FormField{Label: labelImage, Errors: fields["image"]},
		NonFieldErrors: fields[nonFieldErrors],
	}
}

// readPostForm collects the post fields from a urlencoded or multipart body.
func readPostForm(c *fiber.Ctx) (validation.PostInput, error) {
	in := validation.PostInput{
		Text:       c.FormValue("text"),
		Group:      c.FormValue("group"),
		ClearImage: isChecked(c.FormValue("image-clear")),
	}

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return in, nil
		}
		return in, models.NewValidationError("Invalid form data")
	}
	if fh.Size == 0 {
		return in, nil
	}

	f, err := fh.Open()
	if err != nil {
		return in, models.NewInternalError(fmt.Errorf("open upload: %w", err))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return in, models.NewInternalError(fmt.Errorf("read upload: %w", err))
	}
	in.Image = &validation.ImageUpload{Filename: fh.Filename, Content: content}
	return in, nil
}

func isChecked(v string) bool {
	switch v {
	case "on", "true", "1":
		return true
	}
	return false
}

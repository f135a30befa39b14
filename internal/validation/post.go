package validation

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// GroupResolver looks up the group a post is filed under.
type GroupResolver interface {
	GetByID(ctx context.Context, id uint) (*models.Group, error)
}

// PostInput is the raw post form.
type PostInput struct {
	Text string
	// Group is the selected group id; empty means no group.
	Group string
	Image *ImageUpload
	// ClearImage drops the current image on edit.
	ClearImage bool
}

// PostDraft is a validated post form.
type PostDraft struct {
	Text       string
	GroupID    *uint
	Group      *models.Group
	Image      *DecodedImage
	ClearImage bool
}

// ValidatePost checks the post form and resolves its group.
// Field problems come back as a single validation AppError; lookup failures are returned as-is.
func ValidatePost(ctx context.Context, in PostInput, groups GroupResolver) (*PostDraft, error) {
	fields := FieldErrors{}
	draft := &PostDraft{
		Text:       strings.TrimSpace(in.Text),
		ClearImage: in.ClearImage,
	}

	if draft.Text == "" {
		fields.Add("text", MsgRequired)
	}

	if raw := strings.TrimSpace(in.Group); raw != "" {
		group, err := resolveGroup(ctx, raw, groups)
		if err != nil {
			return nil, err
		}
		if group == nil {
			fields.Add("group", MsgInvalidChoice)
		} else {
			draft.Group = group
			draft.GroupID = &group.ID
		}
	}

	if in.Image != nil {
		decoded, err := DecodeImage(*in.Image)
		if err != nil {
			fields.Add("image", MsgInvalidImage)
		} else {
			draft.Image = decoded
			draft.ClearImage = false
		}
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}
	return draft, nil
}

// resolveGroup returns nil, nil when raw does not name an existing group.
func resolveGroup(ctx context.Context, raw string, groups GroupResolver) (*models.Group, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, nil
	}
	group, err := groups.GetByID(ctx, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

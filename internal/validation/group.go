package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxGroupSlugLength  = 50
	MaxGroupTitleLength = 200
)

var groupSlugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateGroupSlug accepts lowercase words joined by single hyphens.
func ValidateGroupSlug(slug string) error {
	if len(slug) > MaxGroupSlugLength {
		return fmt.Errorf("slug must not exceed %d characters", MaxGroupSlugLength)
	}
	if !groupSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must contain only lowercase letters, numbers, and single hyphens")
	}
	return nil
}

// GroupInput is the admin group form.
type GroupInput struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// ValidateGroup checks the admin group form.
func ValidateGroup(in GroupInput) error {
	fields := FieldErrors{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		fields.Add("title", MsgRequired)
	case utf8.RuneCountInString(title) > MaxGroupTitleLength:
		fields.Add("title", fmt.Sprintf("title must not exceed %d characters", MaxGroupTitleLength))
	}
	if err := ValidateGroupSlug(in.Slug); err != nil {
		fields.Add("slug", err.Error())
	}
	if strings.TrimSpace(in.Description) == "" {
		fields.Add("description", MsgRequired)
	}

	return fields.Err()
}

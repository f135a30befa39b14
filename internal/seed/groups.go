package seed

import (
	_ "embed"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed groups.yaml
var groupsYAML []byte

// BuiltInGroup is a group shipped with the application.
type BuiltInGroup struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// BuiltInGroups parses the embedded group fixture.
func BuiltInGroups() ([]BuiltInGroup, error) {
	return parseGroups(groupsYAML)
}

func parseGroups(raw []byte) ([]BuiltInGroup, error) {
	var doc struct {
		Groups []BuiltInGroup `yaml:"groups"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse groups fixture: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Groups))
	for _, g := range doc.Groups {
		err := validation.ValidateGroup(validation.GroupInput{
			Title:       g.Title,
			Slug:        g.Slug,
			Description: g.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Slug, err)
		}
		if _, dup := seen[g.Slug]; dup {
			return nil, fmt.Errorf("group %q is listed twice", g.Slug)
		}
		seen[g.Slug] = struct{}{}
	}
	return doc.Groups, nil
}

// Groups upserts the built-in groups by slug. Running it again refreshes titles and descriptions.
func Groups(db *gorm.DB) error {
	groups, err := BuiltInGroups()
	if err != nil {
		return err
	}

	for _, item := range groups {
		group := models.Group{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error
		if err != nil {
			return fmt.Errorf("failed to seed group %s: %w", item.Slug, err)
		}
	}
	return nil
}

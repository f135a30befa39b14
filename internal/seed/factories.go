// Package seed creates built-in groups and demo content for development databases.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every generated user can log in with.
const DemoPassword = "password123"

// Options configures a seeding run.
type Options struct {
	Users    int
	Posts    int
	Comments int
	Follows  int
	// MaxDays spreads publication dates over this many days back from now.
	MaxDays int
	// SkipBcrypt stores the plain demo password; only for fast throwaway runs.
	SkipBcrypt bool
	// Seed makes the generated content reproducible when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	fake *gofakeit.Faker
	rng  *rand.Rand
	now  func() time.Time
	hash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		db:   db,
		opts: opts,
		fake: gofakeit.New(seed),
		rng:  rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
}

func (f *Factory) passwordHash() (string, error) {
	if f.opts.SkipBcrypt {
		return DemoPassword, nil
	}
	if f.hash == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hash demo password: %w", err)
		}
		f.hash = string(hashed)
	}
	return f.hash, nil
}

// CreateUser persists a user with a fake name. Overrides run before the insert.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	first, last := f.fake.FirstName(), f.fake.LastName()
	user := &models.User{
		Username:  fmt.Sprintf("%s.%s%d", usernamePart(first), usernamePart(last), f.fake.Number(100, 9999)),
		FirstName: first,
		LastName:  last,
		Password:  hash,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// usernamePart lowercases s and drops anything a username may not contain, like the apostrophe in O'Hara.
func usernamePart(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}

// BuildPost returns an unsaved post by author, optionally filed under group,
// with a publication date somewhere in the last MaxDays days.
func (f *Factory) BuildPost(author *models.User, group *models.Group) *models.Post {
	back := time.Duration(f.rng.Intn(f.opts.MaxDays*24*60)) * time.Minute
	post := &models.Post{
		Text:     f.fake.Paragraph(1, f.rng.Intn(3)+1, 12, "\n"),
		AuthorID: author.ID,
		PubDate:  f.now().Add(-back),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	return post
}

// CreatePostsBatch persists posts in a single insert.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit("Author", "Group").Create(&posts).Error
}

// CreateComment persists a fake comment by author on post.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: author.ID,
		Text:     f.fake.Sentence(f.rng.Intn(12) + 3),
	}
	if err := f.db.Omit("Post", "Author").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment on post %d: %w", post.ID, err)
	}
	return comment, nil
}

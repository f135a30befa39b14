package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result counts what a run created.
type Result struct {
	Users    int
	Posts    int
	Comments int
	Follows  int
}

// Seeder fills a database with demo users, posts, comments and follows.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// Run seeds the built-in groups, then opts.Users users writing opts.Posts posts across
// them. Comments and follows only connect distinct users.
func (s *Seeder) Run() (*Result, error) {
	if err := Groups(s.db); err != nil {
		return nil, err
	}

	var groups []*models.Group
	if err := s.db.Order("id").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	res := &Result{}
	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	res.Users = len(users)
	if len(users) == 0 {
		return res, nil
	}
	log.Printf("created %d users", res.Users)

	posts := make([]*models.Post, 0, s.opts.Posts)
	for i := 0; i < s.opts.Posts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		var group *models.Group
		// Roughly a third of posts stay outside any group.
		if len(groups) > 0 && s.factory.rng.Intn(3) > 0 {
			group = groups[s.factory.rng.Intn(len(groups))]
		}
		posts = append(posts, s.factory.BuildPost(author, group))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	res.Posts = len(posts)
	log.Printf("created %d posts", res.Posts)

	if len(users) < 2 {
		return res, nil
	}

	if len(posts) > 0 {
		for i := 0; i < s.opts.Comments; i++ {
			post := posts[s.factory.rng.Intn(len(posts))]
			author := s.pickOther(users, post.AuthorID)
			if _, err := s.factory.CreateComment(post, author); err != nil {
				return nil, err
			}
			res.Comments++
		}
		log.Printf("created %d comments", res.Comments)
	}

	for i := 0; i < s.opts.Follows; i++ {
		user := users[s.factory.rng.Intn(len(users))]
		author := s.pickOther(users, user.ID)
		created, err := s.follow(user.ID, author.ID)
		if err != nil {
			return nil, err
		}
		if created {
			res.Follows++
		}
	}
	log.Printf("created %d follows", res.Follows)

	return res, nil
}

// pickOther returns a random user whose ID is not exclude. users must hold at least two distinct users.
func (s *Seeder) pickOther(users []*models.User, exclude uint) *models.User {
	for {
		u := users[s.factory.rng.Intn(len(users))]
		if u.ID != exclude {
			return u
		}
	}
}

func (s *Seeder) follow(userID, authorID uint) (bool, error) {
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Omit("User", "Author").Create(&models.Follow{UserID: userID, AuthorID: authorID})
	if res.Error != nil {
		return false, fmt.Errorf("follow %d -> %d: %w", userID, authorID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

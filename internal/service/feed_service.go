package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// IndexPage is the context for the global feed.
type IndexPage struct {
	Page Page `json:"page_obj"`
}

// GroupPage is the context for a group feed.
type GroupPage struct {
	Group *models.Group `json:"group"`
	Page  Page          `json:"page_obj"`
}

// ProfilePage is the context for an author's feed.
type ProfilePage struct {
	Author    *models.User `json:"author"`
	Page      Page         `json:"page_obj"`
	Following bool         `json:"following"`
	PostCount int64        `json:"post_count"`
}

// FollowPage is the context for the feed of followed authors.
type FollowPage struct {
	Page Page `json:"page_obj"`
}

// FeedService assembles paginated post feeds.
type FeedService struct {
	postRepo   repository.PostRepository
	groupRepo  repository.GroupRepository
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	perPage    int
}

// NewFeedService returns a FeedService slicing feeds into perPage posts.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	perPage int,
) *FeedService {
	if perPage <= 0 {
		perPage = DefaultPostsPerPage
	}
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		perPage:    perPage,
	}
}

// ListGlobalFeed returns every post, newest first.
func (s *FeedService) ListGlobalFeed(ctx context.Context, page int) (_ *IndexPage, err error) {
	ctx, span := observability.StartSpan(ctx, "feed.global", attribute.Int("feed.page", page))
	defer func() { observability.EndSpan(span, err) }()

	p, err := s.paginate(ctx, repository.PostFilter{}, page)
	if err != nil {
		return nil, err
	}
	return &IndexPage{Page: p}, nil
}

// ListGroupFeed returns the posts filed under the group with slug.
func (s *FeedService) ListGroupFeed(ctx context.Context, slug string, page int) (_ *GroupPage, err error) {
	ctx, span := observability.StartSpan(ctx, "feed.group",
		attribute.String("group.slug", slug),
		attribute.Int("feed.page", page),
	)
	defer func() { observability.EndSpan(span, err) }()

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "Group", slug)
	}
	p, err := s.paginate(ctx, repository.PostFilter{GroupID: &group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupPage{Group: group, Page: p}, nil
}

// ListAuthorFeed returns the posts written by username. viewerID is 0 for anonymous readers.
func (s *FeedService) ListAuthorFeed(ctx context.Context, username string, viewerID uint, page int) (_ *ProfilePage, err error) {
	ctx, span := observability.StartSpan(ctx, "feed.author",
		attribute.String("author.username", username),
		attribute.Int("feed.page", page),
	)
	defer func() { observability.EndSpan(span, err) }()

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, "User", username)
	}

	following := false
	if viewerID != 0 && viewerID != author.ID {
		following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	p, err := s.paginate(ctx, repository.PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, err
	}
	return &ProfilePage{
		Author:    author,
		Page:      p,
		Following: following,
		PostCount: p.Count,
	}, nil
}

// ListFollowedFeed returns posts by the authors viewerID follows.
func (s *FeedService) ListFollowedFeed(ctx context.Context, viewerID uint, page int) (_ *FollowPage, err error) {
	ctx, span := observability.StartSpan(ctx, "feed.followed", attribute.Int("feed.page", page))
	defer func() { observability.EndSpan(span, err) }()

	if viewerID == 0 {
		return nil, models.NewUnauthenticatedError("Login required")
	}
	p, err := s.paginate(ctx, repository.PostFilter{FollowedBy: &viewerID}, page)
	if err != nil {
		return nil, err
	}
	return &FollowPage{Page: p}, nil
}

func (s *FeedService) paginate(ctx context.Context, filter repository.PostFilter, requested int) (Page, error) {
	count, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	p := NewPage(count, s.perPage, requested)
	if count == 0 {
		return p, nil
	}
	items, err := s.postRepo.List(ctx, filter, p.PerPage, p.Offset())
	if err != nil {
		return Page{}, err
	}
	p.Items = items
	return p, nil
}

package services

import (
	"context"
	"math"

	"quill/app/models"
	"quill/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	// MaxPageSize caps the number of posts returned in one page.
	MaxPageSize = 100
)

// FeedService builds the paginated post feed with author details joined in
type FeedService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	log   *zap.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(posts repositories.PostRepository, users repositories.UserRepository, log *zap.Logger) *FeedService {
	return &FeedService{
		posts: posts,
		users: users,
		log:   log.Named("services.feed"),
	}
}

// ListFeed returns one page of posts, newest first. Values below 1 fall back
// to the defaults and pageSize is capped at MaxPageSize.
func (s *FeedService) ListFeed(ctx context.Context, page, pageSize int) (*models.Feed, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	// Pages whose offset would overflow lie past any stored post.
	offset := math.MaxInt
	if page-1 <= math.MaxInt/pageSize {
		offset = (page - 1) * pageSize
	}

	posts, total, err := s.posts.ListPage(ctx, offset, pageSize)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, post := range posts {
		authorIDs = append(authorIDs, post.Author)
	}
	authors, err := s.users.GetMany(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeedItem, 0, len(posts))
	for _, post := range posts {
		author, ok := authors[post.Author]
		if !ok {
			s.log.Warn("skipping post with missing author",
				zap.Stringer("post_id", post.ID),
				zap.Stringer("author_id", post.Author),
			)
			continue
		}
		items = append(items, models.FeedItem{
			ID:            post.ID,
			Title:         post.Title,
			Content:       post.Content,
			CreatedAt:     post.CreatedAt,
			Author:        author.Summary(),
			TotalComments: len(post.Comments),
			Likes:         post.LikeUserIDs(),
		})
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return &models.Feed{
		Posts: items,
		Pagination: models.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalPosts:  total,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}

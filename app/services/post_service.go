package services

import (
	"context"
	"errors"

	"quill/app/models"
	"quill/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PostService handles business logic for blog posts and their likes
type PostService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	log   *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, users repositories.UserRepository, log *zap.Logger) *PostService {
	return &PostService{
		posts: posts,
		users: users,
		log:   log.Named("services.post"),
	}
}

// CreatePost creates a new blog post owned by authorID
func (s *PostService) CreatePost(ctx context.Context, authorID primitive.ObjectID, title, content string) (*models.Post, error) {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, translate(err, "user")
	}

	post := &models.Post{
		Title:   title,
		Content: content,
		Author:  authorID,
	}
	if err := post.Validate(); err != nil {
		return nil, validationError(err)
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Debug("post created", zap.Stringer("post_id", post.ID), zap.Stringer("author_id", authorID))
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	return post, nil
}

// ListByAuthor returns every post by authorID with the author's public
// profile attached, newest first
func (s *PostService) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]models.AuthoredPost, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var author *models.User
	if len(posts) > 0 {
		author, err = s.users.GetByID(ctx, authorID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}

	out := make([]models.AuthoredPost, 0, len(posts))
	for _, post := range posts {
		out = append(out, models.AuthoredPost{
			ID:        post.ID,
			Title:     post.Title,
			Content:   post.Content,
			Author:    author,
			Likes:     post.Likes,
			Comments:  post.Comments,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
		})
	}
	return out, nil
}

// UpdatePost applies the non-empty fields of patch. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, id, actor primitive.ObjectID, patch models.PostPatch) (*models.Post, error) {
	post, err := s.posts.Update(ctx, id, func(p *models.Post) error {
		if err := ensureOwner(actor, p.Author); err != nil {
			return err
		}
		p.ApplyPatch(patch, models.Now())
		if err := p.Validate(); err != nil {
			return validationError(err)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "post")
	}
	return post, nil
}

// DeletePost deletes a post together with its likes and comments. Only the
// author may delete.
func (s *PostService) DeletePost(ctx context.Context, id, actor primitive.ObjectID) error {
	err := s.posts.DeleteIf(ctx, id, func(p *models.Post) error {
		return ensureOwner(actor, p.Author)
	})
	if err != nil {
		return translate(err, "post")
	}

	s.log.Debug("post deleted", zap.Stringer("post_id", id), zap.Stringer("actor_id", actor))
	return nil
}

// ToggleLike likes the post for actor, or removes the like when present.
// It returns the resulting like set.
func (s *PostService) ToggleLike(ctx context.Context, id, actor primitive.ObjectID) ([]models.Like, error) {
	post, err := s.posts.Update(ctx, id, func(p *models.Post) error {
		p.ToggleLike(actor, models.Now())
		return nil
	})
	if err != nil {
		return nil, translate(err, "post")
	}
	return post.Likes, nil
}

// ListLikes returns the post's likes with each liking user's summary.
// Likes by users that no longer exist carry a nil user.
func (s *PostService) ListLikes(ctx context.Context, id primitive.ObjectID) ([]models.LikeView, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}

	users, err := s.users.GetMany(ctx, post.LikeUserIDs())
	if err != nil {
		return nil, err
	}

	views := make([]models.LikeView, 0, len(post.Likes))
	for _, like := range post.Likes {
		views = append(views, models.LikeView{
			User:    summaryOf(users[like.User]),
			LikedAt: like.LikedAt,
		})
	}
	return views, nil
}

func summaryOf(user *models.User) *models.AuthorSummary {
	if user == nil {
		return nil
	}
	summary := user.Summary()
	return &summary
}

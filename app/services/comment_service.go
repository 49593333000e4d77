package services

import (
	"context"
	"errors"

	"quill/app/models"
	"quill/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CommentService handles business logic for comments embedded in posts
type CommentService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	log   *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(posts repositories.PostRepository, users repositories.UserRepository, log *zap.Logger) *CommentService {
	return &CommentService{
		posts: posts,
		users: users,
		log:   log.Named("services.comment"),
	}
}

// AddComment appends a comment by actor and returns the post's comments
func (s *CommentService) AddComment(ctx context.Context, postID, actor primitive.ObjectID, content string) ([]models.Comment, error) {
	post, err := s.posts.Update(ctx, postID, func(p *models.Post) error {
		if _, err := p.AddComment(models.Comment{User: actor, Content: content}); err != nil {
			return validationError(err)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "post")
	}
	return post.Comments, nil
}

// ListComments returns the post's comments with each author's summary
func (s *CommentService) ListComments(ctx context.Context, postID primitive.ObjectID) ([]models.CommentView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, translate(err, "post")
	}

	ids := make([]primitive.ObjectID, 0, len(post.Comments))
	for _, c := range post.Comments {
		ids = append(ids, c.User)
	}
	users, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(post.Comments))
	for _, c := range post.Comments {
		views = append(views, models.CommentView{
			ID:          c.ID,
			User:        summaryOf(users[c.User]),
			Content:     c.Content,
			CommentedAt: c.CommentedAt,
		})
	}
	return views, nil
}

// EditComment replaces the content of a comment. Only its author may edit.
func (s *CommentService) EditComment(ctx context.Context, postID, commentID, actor primitive.ObjectID, content string) ([]models.Comment, error) {
	post, err := s.posts.Update(ctx, postID, func(p *models.Post) error {
		c, err := p.FindComment(commentID)
		if err != nil {
			return err
		}
		if err := ensureOwner(actor, c.User); err != nil {
			return err
		}

		c.Content = content
		if err := c.Validate(); err != nil {
			return validationError(err)
		}
		return nil
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return post.Comments, nil
}

// DeleteComment removes a comment. Only its author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID, actor primitive.ObjectID) error {
	_, err := s.posts.Update(ctx, postID, func(p *models.Post) error {
		c, err := p.FindComment(commentID)
		if err != nil {
			return err
		}
		if err := ensureOwner(actor, c.User); err != nil {
			return err
		}
		return p.RemoveComment(commentID)
	})
	if err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *CommentService) translate(err error) error {
	if errors.Is(err, models.ErrCommentNotFound) {
		return notFound("comment")
	}
	return translate(err, "post")
}

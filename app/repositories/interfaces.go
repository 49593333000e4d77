package repositories

import (
	"context"

	"quill/app/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	// GetMany returns the users that exist among ids, keyed by ID.
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	// Update applies fn to the stored user and persists the result atomically.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id primitive.ObjectID, fn func(*models.User) error) (*models.User, error)
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// ListPage returns posts newest first, cut to the window [offset, offset+limit),
	// together with the total number of posts.
	ListPage(ctx context.Context, offset, limit int) ([]*models.Post, int, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Post, error)
	// Update applies fn to the stored post and persists the result atomically.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id primitive.ObjectID, fn func(*models.Post) error) (*models.Post, error)
	// DeleteIf removes the post when fn approves it, in the same transaction
	// that read it.
	DeleteIf(ctx context.Context, id primitive.ObjectID, fn func(*models.Post) error) error
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account. Password holds the bcrypt hash and
// is never serialized to JSON.
type User struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name" validate:"required,max=50,alphaspace"`
	UserName       string             `bson:"userName" json:"userName" validate:"required,min=3,max=20,alphanum"`
	Password       string             `bson:"password" json:"-"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty" validate:"omitempty,max=2048"`
	IsAdmin        bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Post represents a blog post with its likes and comments embedded.
type Post struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required,max=200"`
	Content   string             `bson:"content" json:"content" validate:"required"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Likes     []Like             `bson:"likes" json:"likes"`
	Comments  []Comment          `bson:"comments" json:"comments"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Like records a single user's like on a post.
type Like struct {
	User    primitive.ObjectID `bson:"user" json:"user"`
	LikedAt time.Time          `bson:"likedAt" json:"likedAt"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Content     string             `bson:"content" json:"content" validate:"required,max=1000"`
	CommentedAt time.Time          `bson:"commentedAt" json:"commentedAt"`
}

// RegisterInput is the payload accepted at registration.
type RegisterInput struct {
	UserName       string `json:"userName" validate:"required,min=3,max=20,alphanum"`
	Password       string `json:"password" validate:"required,password"`
	Name           string `json:"name" validate:"required,max=50,alphaspace"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,max=2048"`
}

// ProfilePatch lists the user fields that may be edited. Nil fields are left
// untouched.
type ProfilePatch struct {
	Name           *string `json:"name"`
	UserName       *string `json:"userName"`
	ProfilePicture *string `json:"profilePicture"`
}

// PasswordChange is the payload for a password change.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// PostPatch lists the post fields that may be edited. Empty fields are left
// untouched.
type PostPatch struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

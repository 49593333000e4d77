package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorSummary is the public projection of a user joined onto posts, likes
// and comments. It never carries the password hash.
type AuthorSummary struct {
	ID             primitive.ObjectID `json:"id"`
	UserName       string             `json:"userName"`
	Name           string             `json:"name"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
}

// FeedItem is one denormalized entry of the post feed.
type FeedItem struct {
	ID            primitive.ObjectID   `json:"id"`
	Title         string               `json:"title"`
	Content       string               `json:"content"`
	CreatedAt     time.Time            `json:"createdAt"`
	Author        AuthorSummary        `json:"author"`
	TotalComments int                  `json:"totalComments"`
	Likes         []primitive.ObjectID `json:"likes"`
}

// Pagination describes the window a feed page was cut from.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// Feed is one page of the post feed.
type Feed struct {
	Posts      []FeedItem `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// AuthoredPost is a post with its author's full public profile.
type AuthoredPost struct {
	ID        primitive.ObjectID `json:"id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Author    *User              `json:"author"`
	Likes     []Like             `json:"likes"`
	Comments  []Comment          `json:"comments"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// LikeView is a like with the liking user's summary.
type LikeView struct {
	User    *AuthorSummary `json:"user"`
	LikedAt time.Time      `json:"likedAt"`
}

// CommentView is a comment with the commenting user's summary.
type CommentView struct {
	ID          primitive.ObjectID `json:"id"`
	User        *AuthorSummary     `json:"user"`
	Content     string             `json:"content"`
	CommentedAt time.Time          `json:"commentedAt"`
}

package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrCommentNotFound is returned when a post has no comment with the given ID.
var ErrCommentNotFound = errors.New("comment not found")

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.Author.IsZero() {
		return errors.New("author cannot be empty")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = Now()
	}
	p.UpdatedAt = p.CreatedAt
	p.Normalize()
}

// Normalize replaces nil embedded collections with empty ones so documents
// always serialize them as arrays.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// ApplyPatch copies the non-empty fields of patch onto the post.
func (p *Post) ApplyPatch(patch PostPatch, at time.Time) {
	if patch.Title != "" {
		p.Title = patch.Title
	}
	if patch.Content != "" {
		p.Content = patch.Content
	}
	p.UpdatedAt = at
}

// LikedBy reports whether userID has liked the post.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, like := range p.Likes {
		if like.User == userID {
			return true
		}
	}
	return false
}

// ToggleLike removes the user's like if present, otherwise records a new one.
// It reports whether the post is liked by the user afterwards.
func (p *Post) ToggleLike(userID primitive.ObjectID, at time.Time) bool {
	for i, like := range p.Likes {
		if like.User == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, Like{User: userID, LikedAt: at})
	return true
}

// LikeUserIDs flattens the like set to the liking users' IDs.
func (p *Post) LikeUserIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(p.Likes))
	for _, like := range p.Likes {
		ids = append(ids, like.User)
	}
	return ids
}

// AddComment appends a comment to the post, assigning its ID and timestamp
// when unset.
func (p *Post) AddComment(comment Comment) (Comment, error) {
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return Comment{}, err
	}

	p.Comments = append(p.Comments, comment)
	return comment, nil
}

// FindComment returns a pointer to the embedded comment with the given ID.
func (p *Post) FindComment(commentID primitive.ObjectID) (*Comment, error) {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i], nil
		}
	}
	return nil, ErrCommentNotFound
}

// RemoveComment removes a comment from the post
func (p *Post) RemoveComment(commentID primitive.ObjectID) error {
	for i, comment := range p.Comments {
		if comment.ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return ErrCommentNotFound
}

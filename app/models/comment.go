package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.User.IsZero() {
		return errors.New("user cannot be empty")
	}
	if c.CommentedAt.IsZero() {
		return errors.New("commented_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.CommentedAt.IsZero() {
		c.CommentedAt = Now()
	}
}

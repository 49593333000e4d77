package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validate checks the user's profile fields. The password hash is not
// validated here; plaintext rules apply to RegisterInput and PasswordChange.
func (u *User) Validate() error {
	return validate.Struct(u)
}

// BeforeCreate sets up any necessary fields before creation
func (u *User) BeforeCreate() {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = Now()
	}
	u.UpdatedAt = u.CreatedAt
}

// ApplyPatch copies the set fields of patch onto the user.
func (u *User) ApplyPatch(patch ProfilePatch, at time.Time) {
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.UserName != nil {
		u.UserName = *patch.UserName
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = *patch.ProfilePicture
	}
	u.UpdatedAt = at
}

// Summary projects the public author fields of the user.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:             u.ID,
		UserName:       u.UserName,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
	}
}

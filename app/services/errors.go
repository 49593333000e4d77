package services

import (
	"errors"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors returned by the services. Callers match them with errors.Is; the
// wrapped message is safe to show to clients.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("you are not allowed to modify this resource")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
)

func validationError(err error) error {
	return fmt.Errorf("%w: %s", ErrValidation, models.ValidationMessage(err))
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// translate maps repository errors onto the service taxonomy.
func translate(err error, what string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return notFound(what)
	case errors.Is(err, repositories.ErrDuplicateUserName):
		return fmt.Errorf("%w: user name already taken", ErrConflict)
	default:
		return err
	}
}

// ensureOwner rejects actors other than the owner of a resource.
func ensureOwner(actor, owner primitive.ObjectID) error {
	if actor != owner {
		return ErrForbidden
	}
	return nil
}

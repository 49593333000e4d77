package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Session is a user together with a freshly issued token.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService handles registration, login and profile management
type UserService struct {
	users     repositories.UserRepository
	passwords *auth.Passwords
	tokens    *auth.Tokens
	log       *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, passwords *auth.Passwords, tokens *auth.Tokens, log *zap.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		log:       log.Named("services.user"),
	}
}

// Register creates an account and signs the user in.
func (s *UserService) Register(ctx context.Context, in models.RegisterInput) (*Session, error) {
	if err := models.Validate(in); err != nil {
		return nil, validationError(err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           in.Name,
		UserName:       in.UserName,
		Password:       hash,
		ProfilePicture: in.ProfilePicture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translate(err, "user")
	}

	s.log.Info("user registered", zap.Stringer("user_id", user.ID), zap.String("user_name", user.UserName))
	return s.session(user)
}

// Login verifies credentials. Unknown users and wrong passwords fail alike.
func (s *UserService) Login(ctx context.Context, userName, password string) (*Session, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if errors.Is(err, repositories.ErrNotFound) {
		s.passwords.CompareDummy(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.passwords.Compare(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

// CheckAvailability reports whether userName is free. The answer is only a
// hint; registration enforces uniqueness itself.
func (s *UserService) CheckAvailability(ctx context.Context, userName string) (bool, error) {
	if strings.TrimSpace(userName) == "" {
		return false, fmt.Errorf("%w: userName is required", ErrValidation)
	}

	_, err := s.users.GetByUserName(ctx, userName)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, repositories.ErrNotFound):
		return true, nil
	default:
		return false, err
	}
}

// Profile returns the user's own record.
func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// UpdateProfile applies the present fields of patch and issues a new token.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch models.ProfilePatch) (*Session, error) {
	user, err := s.users.Update(ctx, userID, func(u *models.User) error {
		u.ApplyPatch(patch, models.Now())
		if err := u.Validate(); err != nil {
			return validationError(err)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "user")
	}

	return s.session(user)
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, in models.PasswordChange) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return fmt.Errorf("%w: current password and new password are required", ErrValidation)
	}
	if err := models.Validate(in); err != nil {
		return validationError(err)
	}

	hash, err := s.passwords.Hash(in.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.users.Update(ctx, userID, func(u *models.User) error {
		if !s.passwords.Compare(u.Password, in.CurrentPassword) {
			return fmt.Errorf("%w: current password is incorrect", ErrInvalidCredentials)
		}
		u.Password = hash
		u.UpdatedAt = models.Now()
		return nil
	})
	if err != nil {
		return translate(err, "user")
	}

	s.log.Info("password changed", zap.Stringer("user_id", userID))
	return nil
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

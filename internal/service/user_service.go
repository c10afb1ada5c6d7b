package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/auth"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/repository"
	"github.com/forum-tree-api/internal/validation"
	"github.com/rs/zerolog"
)

var errUserGone = errors.New("token subject no longer exists")

// userService is the concrete implementation of UserService
type userService struct {
	users     repository.UserRepository
	validator *validation.Validator
	tokens    *auth.TokenManager
	log       zerolog.Logger
}

// newUserService creates a new UserService
func newUserService(repos *repository.Repositories, validator *validation.Validator, tokens *auth.TokenManager, log zerolog.Logger) *userService {
	return &userService{
		users:     repos.User,
		validator: validator,
		tokens:    tokens,
		log:       log.With().Str("service", "user").Logger(),
	}
}

// Register creates a user with a bcrypt hashed password
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.AsError(s.validator.ValidateRegistration(req)); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password1)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicateUser(err, "failed to create user")
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login checks credentials and issues a bearer token
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.Token, error) {
	badCredentials := &apperror.Error{Kind: apperror.KindAuth, Message: "incorrect username or password"}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, badCredentials
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to check password: %w", err)
	}
	if !ok {
		s.log.Warn().Str("username", req.Username).Msg("Failed login")
		return nil, badCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.Token{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    user.Username,
	}, nil
}

// CurrentUser resolves a bearer token to its user
func (s *userService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, apperror.Auth(err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperror.Auth(errUserGone)
	}
	return user, nil
}

// Update changes the caller's username and email
func (s *userService) Update(ctx context.Context, callerID int64, req *models.UpdateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.AsError(s.validator.ValidateUser(username, email)); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user %d not found", callerID)
	}

	user.Username = username
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, duplicateUser(err, "failed to update user")
	}
	return user, nil
}

// Delete removes the caller together with everything they created
func (s *userService) Delete(ctx context.Context, callerID int64) error {
	if err := s.users.Delete(ctx, callerID); err != nil {
		return fmt.Errorf("failed to delete user: %w", apperror.FromStorage(err))
	}
	s.log.Info().Int64("user_id", callerID).Msg("User deleted")
	return nil
}

func duplicateUser(err error, msg string) error {
	err = apperror.FromStorage(err)
	if apperror.KindOf(err) == apperror.KindValidation {
		return apperror.Validation("username or email already registered")
	}
	return fmt.Errorf("%s: %w", msg, err)
}

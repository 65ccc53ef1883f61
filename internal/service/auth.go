// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/model"
	"github.com/recipeshare/recipeshare/internal/repository"
)

// Auth service errors.
var (
	ErrMissingRegistrationFields = errors.New("name, email and password are required")
	ErrMissingLoginFields        = errors.New("email and password are required")
	ErrUserExists                = errors.New("user already exists")
	ErrInvalidCredentials        = errors.New("invalid credentials")
)

// UserStore is the credential persistence used by AuthService.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthService handles registration and login.
type AuthService struct {
	users   UserStore
	hasher  *auth.PasswordHasher
	tokens  TokenIssuer
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *auth.PasswordHasher, tokens TokenIssuer, recorder metrics.Recorder) *AuthService {
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultBcryptCost)
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with a bcrypt-hashed password.
// An existing email is reported as ErrUserExists.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingRegistrationFields
	}

	if _, err := s.users.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
	}

	// The unique index catches registrations racing past the lookup above.
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// LoginInput defines input for logging in.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the issued token and the authenticated user.
type LoginOutput struct {
	Token string
	User  *model.User
}

// Login verifies credentials and issues a token.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrMissingLoginFields
	}

	user, err := s.users.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailed()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLoginFailed()
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginSucceeded()

	return &LoginOutput{Token: token, User: user}, nil
}

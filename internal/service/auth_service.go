package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"dealership/internal/auth"
	"dealership/internal/errors"
	"dealership/internal/model"
	"dealership/internal/repository"
)

const bcryptCost = 10

// LoginResult carries the outcome of a successful login.
type LoginResult struct {
	Token    string
	Username string
	Role     string
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	ValidateToken(token string) bool
	CreateUser(ctx context.Context, username, password, role string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies the credentials and issues a signed token. Unknown usernames
// and wrong passwords collapse into the same error.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// ValidateToken reports whether the token is currently valid.
func (s *authService) ValidateToken(token string) bool {
	_, err := s.jwtService.ValidateToken(token)
	return err == nil
}

// CreateUser stores a user with a bcrypt-hashed password.
func (s *authService) CreateUser(ctx context.Context, username, password, role string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/safescan/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	BcryptCost  int
	AdminEmails []string
}

// AuthService handles sign-up, sign-in and bearer token verification
type AuthService struct {
	users       domain.UserRepository
	tokens      domain.TokenManager
	bcryptCost  int
	adminEmails map[string]bool
}

// NewAuthService creates a new auth service with dependencies
func NewAuthService(users domain.UserRepository, tokens domain.TokenManager, config AuthServiceConfig) *AuthService {
	cost := config.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	admins := make(map[string]bool, len(config.AdminEmails))
	for _, email := range config.AdminEmails {
		admins[normalizeEmail(email)] = true
	}

	return &AuthService{
		users:       users,
		tokens:      tokens,
		bcryptCost:  cost,
		adminEmails: admins,
	}
}

// SignUp registers a new user. Emails listed in AdminEmails get the admin role.
func (s *AuthService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.User, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := normalizeEmail(req.Email)
	if firstName == "" || lastName == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: first_name, last_name, email and password are required", domain.ErrInvalidRequest)
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if s.adminEmails[email] {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SignIn checks credentials and returns the user profile with a fresh access token
func (s *AuthService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.SignInResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.SignInResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Role:        user.Role,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate resolves a bearer token to a user ID. Tokens of deleted
// users are rejected even before they expire.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, domain.ErrUnauthorized
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, fmt.Errorf("%w: user %d no longer exists", domain.ErrUnauthorized, userID)
		}
		return 0, err
	}
	return userID, nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/safescan/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages user profiles
type UserService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(users domain.UserRepository, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Get returns a single user
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// IsAdmin reports whether the user exists and has the admin role
func (s *UserService) IsAdmin(ctx context.Context, id uint) (bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// Update changes a profile. Users may edit only themselves unless they are
// admins, and only admins may change roles.
func (s *UserService) Update(ctx context.Context, actorID, id uint, upd *domain.UserUpdate) (*domain.User, error) {
	if upd == nil {
		return nil, domain.ErrInvalidRequest
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if actorID != id && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if upd.Role != nil && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		if strings.TrimSpace(*upd.FirstName) == "" {
			return nil, domain.ErrInvalidRequest
		}
		user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		if strings.TrimSpace(*upd.LastName) == "" {
			return nil, domain.ErrInvalidRequest
		}
		user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email == "" {
			return nil, domain.ErrInvalidRequest
		}
		if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, domain.ErrEmailTaken
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, err
			}
		}
		user.Email = email
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, domain.ErrInvalidRequest
		}
		hash, err := hashPassword(*upd.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if upd.Role != nil {
		if *upd.Role != domain.RoleUser && *upd.Role != domain.RoleAdmin {
			return nil, domain.ErrInvalidRequest
		}
		user.Role = *upd.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.users.Delete(ctx, id)
}

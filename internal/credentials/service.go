// Package credentials registers and authenticates users on top of a
// pluggable user repository.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/arogyamitra/internal/domain/user"
	"github.com/geocoder89/arogyamitra/internal/security"
)

type UserRepo interface {
	// Insert must fail with user.ErrDuplicateEmail when the email is taken.
	Insert(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
}

type Service struct {
	users  UserRepo
	hasher security.Hasher
}

func NewService(users UserRepo, hasher security.Hasher) *Service {
	if hasher == nil {
		hasher = security.SHA256Hasher{}
	}
	return &Service{users: users, hasher: hasher}
}

// Register stores a new user with a hashed password. Fails with
// user.ErrDuplicateEmail if any record already holds the email.
func (s *Service) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.NewFromRegisterRequest(req, hash)

	if err := s.users.Insert(ctx, u); err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Authenticate returns user.ErrInvalidCredentials for an unknown email and
// for a wrong password alike.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.ErrInvalidCredentials
		}
		return user.User{}, err
	}

	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return user.User{}, user.ErrInvalidCredentials
		}
		return user.User{}, err
	}

	return u, nil
}

// Exists reports whether id belongs to a registered user.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/arogyamitra/internal/domain/user"
)

// UsersRepo keeps users for the life of the process. The email check and
// the append happen under one lock, so two concurrent registrations with
// the same email cannot both succeed.
type UsersRepo struct {
	mu      sync.RWMutex
	items   []user.User
	byEmail map[string]int // email -> index into items
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]int),
	}
}

func (r *UsersRepo) Insert(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// exact, case-sensitive match
	if _, taken := r.byEmail[u.Email]; taken {
		return user.ErrDuplicateEmail
	}

	r.items = append(r.items, u)
	r.byEmail[u.Email] = len(r.items) - 1

	return nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.items[idx], nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gracechapel/churchsite/internal/domain/user"
)

type UsersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash, firstName, lastName string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         user.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.byEmail[email] = u

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) UpdateLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for email, u := range r.byEmail {
		if u.ID == id {
			now := time.Now().UTC()
			u.LastLogin = &now
			r.byEmail[email] = u
			return nil
		}
	}

	return user.ErrNotFound
}

// SetRole is a test helper for exercising role-gated routes.
func (r *UsersRepo) SetRole(email, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byEmail[email]; ok {
		u.Role = role
		r.byEmail[email] = u
	}
}

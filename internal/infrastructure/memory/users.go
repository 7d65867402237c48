package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/addisnest/api/internal/domain"
)

// UserRepo keeps users in process memory with a unique email index.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[string]domain.User), byEmail: make(map[string]string)}
}

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, ok := r.byEmail[u.Email]; ok {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	if _, ok := r.byID[u.UserID]; ok {
		return fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	r.byID[u.UserID] = *u
	r.byEmail[u.Email] = u.UserID
	return nil
}

func (r *UserRepo) Get(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return r.Get(ctx, id)
}

func (r *UserRepo) MarkEmailVerified(_ context.Context, userID, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	u.EmailVerified = true
	u.AuthProvider = provider
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

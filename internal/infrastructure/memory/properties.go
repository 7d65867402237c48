package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/addisnest/api/internal/domain"
)

// PropertyRepo keeps listings in process memory in insertion order.
type PropertyRepo struct {
	mu    sync.RWMutex
	order []string
	props map[string]domain.Property
}

func NewPropertyRepo() *PropertyRepo {
	return &PropertyRepo{props: make(map[string]domain.Property)}
}

// Put inserts or replaces p. Replacing keeps the original position.
func (r *PropertyRepo) Put(_ context.Context, p *domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.props[p.PropertyID]; !ok {
		r.order = append(r.order, p.PropertyID)
	}
	r.props[p.PropertyID] = *p
	return nil
}

func (r *PropertyRepo) Get(_ context.Context, propertyID string) (*domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.props[propertyID]
	if !ok {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	return &p, nil
}

func (r *PropertyRepo) ListPromoted(_ context.Context, limit int32) ([]domain.Property, error) {
	return r.list(limit, func(p domain.Property) bool { return p.Promoted == 1 }), nil
}

func (r *PropertyRepo) List(_ context.Context, limit int32) ([]domain.Property, error) {
	return r.list(limit, func(domain.Property) bool { return true }), nil
}

func (r *PropertyRepo) list(limit int32, keep func(domain.Property) bool) []domain.Property {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Property, 0)
	for _, id := range r.order {
		if int32(len(out)) >= limit {
			break
		}
		if p := r.props[id]; p.Enable && keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *PropertyRepo) SoftDelete(_ context.Context, propertyID string) error {
	return r.update(propertyID, func(p *domain.Property) { p.Enable = false })
}

func (r *PropertyRepo) SetPromoted(_ context.Context, propertyID string, promoted bool) error {
	return r.update(propertyID, func(p *domain.Property) {
		p.Promoted = 0
		if promoted {
			p.Promoted = 1
		}
	})
}

func (r *PropertyRepo) update(propertyID string, fn func(*domain.Property)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.props[propertyID]
	if !ok {
		return fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	fn(&p)
	p.UpdatedAt = time.Now().UTC()
	r.props[propertyID] = p
	return nil
}

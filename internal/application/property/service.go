package property

import (
	"context"
	"fmt"
	"time"

	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/pkg/dedup"
	"github.com/addisnest/api/internal/pkg/id"
	"github.com/addisnest/api/internal/pkg/validate"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
	defaultCurrency  = "ETB"
)

type Repository interface {
	Put(ctx context.Context, p *domain.Property) error
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	ListPromoted(ctx context.Context, limit int32) ([]domain.Property, error)
	List(ctx context.Context, limit int32) ([]domain.Property, error)
	SoftDelete(ctx context.Context, propertyID string) error
	SetPromoted(ctx context.Context, propertyID string, promoted bool) error
}

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreatePropertyRequest) (*domain.Property, error)
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	List(ctx context.Context, limit int) ([]domain.Property, error)
	Delete(ctx context.Context, propertyID, requesterID string, isAdmin bool) error
	Promote(ctx context.Context, propertyID string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreatePropertyRequest) (*domain.Property, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	now := s.now().UTC()
	p := &domain.Property{
		PropertyID:   id.New(),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Currency:     currency,
		ListingType:  req.ListingType,
		PropertyType: req.PropertyType,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		AreaSqm:      req.AreaSqm,
		Location:     req.Location,
		Images:       images,
		OwnerID:      ownerID,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	p, err := s.repo.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !p.Enable {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	return p, nil
}

// List returns promoted listings first, followed by the regular scan, with
// listings that appear in both kept only at their promoted position.
func (s *service) List(ctx context.Context, limit int) ([]domain.Property, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	promoted, err := s.repo.ListPromoted(ctx, int32(limit))
	if err != nil {
		return nil, err
	}
	regular, err := s.repo.List(ctx, int32(limit))
	if err != nil {
		return nil, err
	}
	merged := make([]domain.Property, 0, len(promoted)+len(regular))
	merged = append(merged, promoted...)
	merged = append(merged, regular...)
	return dedup.ByKey(merged, domain.Property.Key), nil
}

func (s *service) Delete(ctx context.Context, propertyID, requesterID string, isAdmin bool) error {
	p, err := s.Get(ctx, propertyID)
	if err != nil {
		return err
	}
	if p.OwnerID != requesterID && !isAdmin {
		return fmt.Errorf("only the owner can delete this listing: %w", domain.ErrForbidden)
	}
	return s.repo.SoftDelete(ctx, propertyID)
}

func (s *service) Promote(ctx context.Context, propertyID string) error {
	if _, err := s.Get(ctx, propertyID); err != nil {
		return err
	}
	return s.repo.SetPromoted(ctx, propertyID, true)
}

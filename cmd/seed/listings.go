package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/addisnest/api/internal/domain"
	"github.com/addisnest/api/internal/pkg/dedup"
	"gopkg.in/yaml.v3"
)

const defaultCurrency = "ETB"

type listingWriter interface {
	Put(ctx context.Context, p *domain.Property) error
}

// loadListings decodes a YAML sequence of listings and drops repeated ids and
// records without an id. skipped counts the dropped records.
func loadListings(r io.Reader, owner string, now time.Time) ([]domain.Property, int, error) {
	var raw []domain.Property
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Property{}, 0, nil
		}
		return nil, 0, fmt.Errorf("decode listings: %w", err)
	}

	listings := dedup.ByKey(raw, domain.Property.Key)
	now = now.UTC()
	for i := range listings {
		p := &listings[i]
		if p.OwnerID == "" {
			p.OwnerID = owner
		}
		if p.Currency == "" {
			p.Currency = defaultCurrency
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		if p.Promoted != 0 {
			p.Promoted = 1
		}
		p.Enable = true
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	return listings, len(raw) - len(listings), nil
}

// insert writes listings in order and stops at the first failure.
func insert(ctx context.Context, w listingWriter, listings []domain.Property) (int, error) {
	for i := range listings {
		if err := w.Put(ctx, &listings[i]); err != nil {
			return i, fmt.Errorf("put listing %s: %w", listings[i].PropertyID, err)
		}
	}
	return len(listings), nil
}

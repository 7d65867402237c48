package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/addisnest/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_UniqueEmail(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &domain.User{UserID: "u1", Email: "A@b.com"}))

	err := r.Create(ctx, &domain.User{UserID: "u2", Email: "a@b.com "})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	u, err := r.GetByEmail(ctx, "a@B.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)

	require.NoError(t, r.MarkEmailVerified(ctx, "u1", domain.ProviderOTP))
	u, err = r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Equal(t, domain.ProviderOTP, u.AuthProvider)

	_, err = r.GetByEmail(ctx, "x@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPropertyRepo_ListFilters(t *testing.T) {
	r := NewPropertyRepo()
	ctx := context.Background()
	for _, id := range []string{"p1", "p2", "p3"} {
		require.NoError(t, r.Put(ctx, &domain.Property{PropertyID: id, Enable: true}))
	}
	require.NoError(t, r.SetPromoted(ctx, "p3", true))
	require.NoError(t, r.SoftDelete(ctx, "p2"))

	all, err := r.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	promoted, err := r.ListPromoted(ctx, 10)
	require.NoError(t, err)
	require.Len(t, promoted, 1)
	assert.Equal(t, "p3", promoted[0].PropertyID)

	limited, err := r.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	assert.True(t, errors.Is(r.SoftDelete(ctx, "missing"), domain.ErrNotFound))
}

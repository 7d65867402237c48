package property

import (
	"context"
	"errors"
	"testing"

	"github.com/addisnest/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Put(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockRepo) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if p, _ := args.Get(0).(*domain.Property); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRepo) ListPromoted(ctx context.Context, limit int32) ([]domain.Property, error) {
	args := m.Called(ctx, limit)
	props, _ := args.Get(0).([]domain.Property)
	return props, args.Error(1)
}
func (m *mockRepo) List(ctx context.Context, limit int32) ([]domain.Property, error) {
	args := m.Called(ctx, limit)
	props, _ := args.Get(0).([]domain.Property)
	return props, args.Error(1)
}
func (m *mockRepo) SoftDelete(ctx context.Context, propertyID string) error {
	return m.Called(ctx, propertyID).Error(0)
}
func (m *mockRepo) SetPromoted(ctx context.Context, propertyID string, promoted bool) error {
	return m.Called(ctx, propertyID, promoted).Error(0)
}

func validRequest() domain.CreatePropertyRequest {
	return domain.CreatePropertyRequest{
		Title:        "2BR apartment near Bole",
		Price:        25000,
		ListingType:  "rent",
		PropertyType: "apartment",
		Bedrooms:     2,
		Location:     domain.Location{City: "Addis Ababa", SubCity: "Bole"},
	}
}

func TestCreate_SetsOwnerAndDefaults(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Property")).Return(nil)

	p, err := NewService(repo).Create(context.Background(), "u1", validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, p.PropertyID)
	assert.Equal(t, "u1", p.OwnerID)
	assert.Equal(t, "ETB", p.Currency)
	assert.True(t, p.Enable)
	assert.NotNil(t, p.Images)
	repo.AssertExpectations(t)
}

func TestCreate_Invalid(t *testing.T) {
	req := validRequest()
	req.ListingType = "auction"
	_, err := NewService(&mockRepo{}).Create(context.Background(), "u1", req)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestGet_DisabledIsNotFound(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, "p1").Return(&domain.Property{PropertyID: "p1"}, nil)
	_, err := NewService(repo).Get(context.Background(), "p1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestList_PromotedFirstWithoutDuplicates(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListPromoted", mock.Anything, int32(DefaultListLimit)).Return([]domain.Property{
		{PropertyID: "p2", Promoted: 1},
	}, nil)
	repo.On("List", mock.Anything, int32(DefaultListLimit)).Return([]domain.Property{
		{PropertyID: "p1"}, {PropertyID: "p2", Promoted: 1}, {PropertyID: ""}, {PropertyID: "p3"},
	}, nil)

	got, err := NewService(repo).List(context.Background(), 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.PropertyID)
	}
	assert.Equal(t, []string{"p2", "p1", "p3"}, ids)
}

func TestList_ClampsLimit(t *testing.T) {
	repo := &mockRepo{}
	repo.On("ListPromoted", mock.Anything, int32(MaxListLimit)).Return(nil, nil)
	repo.On("List", mock.Anything, int32(MaxListLimit)).Return(nil, nil)

	got, err := NewService(repo).List(context.Background(), 10_000)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	repo.AssertExpectations(t)
}

func TestDelete(t *testing.T) {
	listing := &domain.Property{PropertyID: "p1", OwnerID: "owner", Enable: true}

	t.Run("owner", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("Get", mock.Anything, "p1").Return(listing, nil)
		repo.On("SoftDelete", mock.Anything, "p1").Return(nil)
		require.NoError(t, NewService(repo).Delete(context.Background(), "p1", "owner", false))
		repo.AssertExpectations(t)
	})
	t.Run("admin", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("Get", mock.Anything, "p1").Return(listing, nil)
		repo.On("SoftDelete", mock.Anything, "p1").Return(nil)
		require.NoError(t, NewService(repo).Delete(context.Background(), "p1", "someone", true))
	})
	t.Run("stranger", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("Get", mock.Anything, "p1").Return(listing, nil)
		err := NewService(repo).Delete(context.Background(), "p1", "someone", false)
		assert.True(t, errors.Is(err, domain.ErrForbidden))
		repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})
}

func TestPromote(t *testing.T) {
	repo := &mockRepo{}
	repo.On("Get", mock.Anything, "p1").Return(&domain.Property{PropertyID: "p1", Enable: true}, nil)
	repo.On("SetPromoted", mock.Anything, "p1", true).Return(nil)
	require.NoError(t, NewService(repo).Promote(context.Background(), "p1"))
	repo.AssertExpectations(t)
}

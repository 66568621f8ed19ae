package economy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/database/memory"
	"github.com/osse101/brandish-progression/internal/domain"
)

// MockRepository fails wallet reads on demand
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockRepository) Credit(ctx context.Context, playerID string, currency domain.Currency, amount int64) (*domain.Wallet, error) {
	args := m.Called(ctx, playerID, currency, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockRepository) AddTitle(ctx context.Context, playerID, title string) (bool, error) {
	args := m.Called(ctx, playerID, title)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListTitles(ctx context.Context, playerID string) ([]string, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestGetWallet(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	ctx := context.Background()

	empty, err := svc.GetWallet(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, empty.Gold)

	_, err = store.Credit(ctx, "p1", domain.CurrencyGold, 120)
	require.NoError(t, err)
	_, err = store.Credit(ctx, "p1", domain.CurrencyGems, 4)
	require.NoError(t, err)

	gold, err := svc.Balance(ctx, "p1", domain.CurrencyGold)
	require.NoError(t, err)
	assert.Equal(t, int64(120), gold)
	gems, err := svc.Balance(ctx, "p1", domain.CurrencyGems)
	require.NoError(t, err)
	assert.Equal(t, int64(4), gems)

	_, err = svc.Balance(ctx, "p1", "doubloons")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.GetWallet(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyPlayerID)
}

func TestGetWallet_NilFromRepositoryIsEmpty(t *testing.T) {
	repo := &MockRepository{}
	repo.On("GetWallet", mock.Anything, "p1").Return(nil, nil).Once()

	w, err := NewService(repo).GetWallet(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", w.PlayerID)
	repo.AssertExpectations(t)
}

func TestGetWallet_RepositoryError(t *testing.T) {
	repo := &MockRepository{}
	boom := errors.New("connection reset")
	repo.On("GetWallet", mock.Anything, "p1").Return(nil, boom).Once()

	_, err := NewService(repo).GetWallet(context.Background(), "p1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to get wallet")
}

func TestListTitles(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_, err := store.AddTitle(ctx, "p1", "Adept")
	require.NoError(t, err)

	titles, err := NewService(store).ListTitles(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Adept"}, titles)
}

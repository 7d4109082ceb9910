package portfolio

import (
	"context"
	"testing"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/infrastructure/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGetPosition_SynthesizesZeroPosition(t *testing.T) {
	ctx := context.Background()
	service := NewService(memstore.New())
	userID := uuid.New()

	position, err := service.GetPosition(ctx, userID, "ACME")
	require.NoError(t, err)
	require.Equal(t, userID, position.UserID)
	require.Equal(t, "ACME", position.Symbol)
	require.Zero(t, position.Quantity)
	require.Zero(t, position.AverageCost)
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	service := NewService(memstore.New())
	userID := uuid.New()

	account, err := service.CreateAccount(ctx, userID, 1000)
	require.NoError(t, err)
	require.InDelta(t, 1000.0, account.CashBalance, 1e-9)

	_, err = service.CreateAccount(ctx, userID, 500)
	require.ErrorIs(t, err, domain.ErrAccountExists)
}

func TestCreateAccount_NegativeBalance(t *testing.T) {
	service := NewService(memstore.New())

	_, err := service.CreateAccount(context.Background(), uuid.New(), -1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetAccount_NotFound(t *testing.T) {
	service := NewService(memstore.New())

	_, err := service.GetAccount(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

package watchlist

import (
	"context"
	"testing"

	domain "main/internal/domain/entity/portfolio"
	"main/internal/infrastructure/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWatchlistLifecycle(t *testing.T) {
	ctx := context.Background()
	service := NewService(memstore.New())
	userID := uuid.New()

	created, err := service.Create(ctx, userID, "tech")
	require.NoError(t, err)
	require.Equal(t, "tech", created.Name)
	require.Empty(t, created.Symbols)

	updated, err := service.AddSymbol(ctx, userID, created.ID, "ACME")
	require.NoError(t, err)
	require.Equal(t, []string{"ACME"}, updated.Symbols)

	// Adding again is a no-op.
	updated, err = service.AddSymbol(ctx, userID, created.ID, "ACME")
	require.NoError(t, err)
	require.Equal(t, []string{"ACME"}, updated.Symbols)

	updated, err = service.RemoveSymbol(ctx, userID, created.ID, "ACME")
	require.NoError(t, err)
	require.Empty(t, updated.Symbols)

	require.NoError(t, service.Delete(ctx, userID, created.ID))

	_, err = service.Get(ctx, userID, created.ID)
	require.ErrorIs(t, err, domain.ErrWatchlistNotFound)
}

func TestWatchlistOwnership(t *testing.T) {
	ctx := context.Background()
	service := NewService(memstore.New())
	owner := uuid.New()
	stranger := uuid.New()

	created, err := service.Create(ctx, owner, "tech")
	require.NoError(t, err)

	_, err = service.Get(ctx, stranger, created.ID)
	require.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = service.AddSymbol(ctx, stranger, created.ID, "ACME")
	require.ErrorIs(t, err, domain.ErrNotOwner)

	err = service.Delete(ctx, stranger, created.ID)
	require.ErrorIs(t, err, domain.ErrNotOwner)

	// Still intact for the owner.
	_, err = service.Get(ctx, owner, created.ID)
	require.NoError(t, err)
}

func TestCreateRequiresName(t *testing.T) {
	service := NewService(memstore.New())

	_, err := service.Create(context.Background(), uuid.New(), "")
	require.ErrorIs(t, err, ErrEmptyName)
}

package interfaces

import (
	"context"

	domain "main/internal/domain/entity/portfolio"

	"github.com/google/uuid"
)

// AccountWrite is the staged balance mutation of a trade commit.
type AccountWrite struct {
	NewBalance      float64
	ExpectedVersion int64
}

// PositionWrite is the staged position mutation of a trade commit.
// ExpectedVersion 0 means no row is expected to exist and Upsert is
// inserted; with a positive ExpectedVersion, Upsert nil deletes the row
// and non-nil replaces it.
type PositionWrite struct {
	Symbol          string
	Upsert          *domain.Position
	ExpectedVersion int64
}

// TradeCommit is the fully staged mutation set of one executed trade:
// balance write, position upsert/delete, and ledger append. Either all
// three apply or none do; any version mismatch yields
// portfolio.ErrConflict with nothing applied.
type TradeCommit struct {
	UserID   uuid.UUID
	Account  AccountWrite
	Position PositionWrite
	Trade    *domain.Trade
}

type PortfolioRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error)

	GetPosition(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Position, error)
	ListPositions(ctx context.Context, userID uuid.UUID) ([]domain.Position, error)

	ListTrades(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error)

	ApplyTrade(ctx context.Context, commit TradeCommit) error

	CreateWatchlist(ctx context.Context, watchlist *domain.Watchlist) error
	GetWatchlist(ctx context.Context, id uuid.UUID) (*domain.Watchlist, error)
	ListWatchlists(ctx context.Context, userID uuid.UUID) ([]domain.Watchlist, error)
	UpdateWatchlist(ctx context.Context, watchlist *domain.Watchlist) error
	DeleteWatchlist(ctx context.Context, id uuid.UUID) error

	Close()
}

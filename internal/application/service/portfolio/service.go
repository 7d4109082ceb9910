package portfolio

import (
	"context"
	"errors"
	"time"

	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
)

// Service answers read queries over accounts, positions, and the trade
// ledger, and opens new accounts.
type Service struct {
	repo interfaces.PortfolioRepository
}

func NewService(repo interfaces.PortfolioRepository) *Service {
	return &Service{repo: repo}
}

// CreateAccount opens a cash account with an opening balance.
func (s *Service) CreateAccount(ctx context.Context, userID uuid.UUID, openingBalance float64) (*domain.Account, error) {
	if openingBalance < 0 {
		return nil, domain.ErrInvalidInput
	}
	account := &domain.Account{
		UserID:      userID,
		CashBalance: openingBalance,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	return s.repo.GetAccount(ctx, userID)
}

// GetPosition returns the user's position in symbol, or a synthetic zero
// position when none exists, so callers never branch on existence.
func (s *Service) GetPosition(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Position, error) {
	position, err := s.repo.GetPosition(ctx, userID, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrPositionNotFound) {
			return domain.ZeroPosition(userID, symbol), nil
		}
		return nil, err
	}
	return position, nil
}

// ListPositions returns the user's open positions in insertion order.
// Drained positions are deleted at execution time, so nothing is filtered.
func (s *Service) ListPositions(ctx context.Context, userID uuid.UUID) ([]domain.Position, error) {
	return s.repo.ListPositions(ctx, userID)
}

// ListTrades returns the user's ledger, most recent first.
func (s *Service) ListTrades(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	return s.repo.ListTrades(ctx, userID)
}

func (s *Service) Close() {
	s.repo.Close()
}

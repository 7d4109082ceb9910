package watchlist

import (
	"context"
	"errors"
	"time"

	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
)

var ErrEmptyName = errors.New("watchlist name is required")

// Service manages per-user watchlists. Every mutating call checks that
// the list belongs to the calling user.
type Service struct {
	repo interfaces.PortfolioRepository
}

func NewService(repo interfaces.PortfolioRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*domain.Watchlist, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	watchlist := &domain.Watchlist{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Symbols:   []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateWatchlist(ctx, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Watchlist, error) {
	return s.getOwned(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.Watchlist, error) {
	return s.repo.ListWatchlists(ctx, userID)
}

// AddSymbol adds symbol to the list, idempotently.
func (s *Service) AddSymbol(ctx context.Context, userID, id uuid.UUID, symbol string) (*domain.Watchlist, error) {
	watchlist, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !watchlist.AddSymbol(symbol) {
		return watchlist, nil
	}
	if err := s.repo.UpdateWatchlist(ctx, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

// RemoveSymbol removes symbol from the list if present.
func (s *Service) RemoveSymbol(ctx context.Context, userID, id uuid.UUID, symbol string) (*domain.Watchlist, error) {
	watchlist, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !watchlist.RemoveSymbol(symbol) {
		return watchlist, nil
	}
	if err := s.repo.UpdateWatchlist(ctx, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.DeleteWatchlist(ctx, id)
}

func (s *Service) getOwned(ctx context.Context, userID, id uuid.UUID) (*domain.Watchlist, error) {
	watchlist, err := s.repo.GetWatchlist(ctx, id)
	if err != nil {
		return nil, err
	}
	if watchlist.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return watchlist, nil
}

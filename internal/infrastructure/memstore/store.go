package memstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
)

type positionKey struct {
	userID uuid.UUID
	symbol string
}

// Store is an in-memory PortfolioRepository with the same versioned CAS
// semantics as the Postgres repository. It backs tests and the
// STORAGE_IN_MEMORY development mode.
type Store struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]*domain.Account
	positions  map[positionKey]*domain.Position
	trades     map[uuid.UUID][]domain.Trade
	watchlists map[uuid.UUID]*domain.Watchlist

	seq uint64 // insertion order for position listing
	ord map[positionKey]uint64
}

var _ interfaces.PortfolioRepository = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:   make(map[uuid.UUID]*domain.Account),
		positions:  make(map[positionKey]*domain.Position),
		trades:     make(map[uuid.UUID][]domain.Trade),
		watchlists: make(map[uuid.UUID]*domain.Watchlist),
		ord:        make(map[positionKey]uint64),
	}
}

func (s *Store) Close() {}

func (s *Store) CreateAccount(_ context.Context, account *domain.Account) error {
	if account == nil {
		return errors.New("account is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.UserID]; ok {
		return domain.ErrAccountExists
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	account.Version = 1

	stored := *account
	s.accounts[account.UserID] = &stored
	return nil
}

func (s *Store) GetAccount(_ context.Context, userID uuid.UUID) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *Store) GetPosition(_ context.Context, userID uuid.UUID, symbol string) (*domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, ok := s.positions[positionKey{userID, symbol}]
	if !ok {
		return nil, domain.ErrPositionNotFound
	}
	copied := *position
	return &copied, nil
}

func (s *Store) ListPositions(_ context.Context, userID uuid.UUID) ([]domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type entry struct {
		position domain.Position
		order    uint64
	}
	var entries []entry
	for key, position := range s.positions {
		if key.userID != userID {
			continue
		}
		entries = append(entries, entry{*position, s.ord[key]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	positions := make([]domain.Position, 0, len(entries))
	for _, e := range entries {
		positions = append(positions, e.position)
	}
	return positions, nil
}

func (s *Store) ListTrades(_ context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trades := make([]domain.Trade, len(s.trades[userID]))
	copy(trades, s.trades[userID])
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ExecutedAt.After(trades[j].ExecutedAt)
	})
	return trades, nil
}

// ApplyTrade commits balance, position, and ledger mutations under one
// lock. All version checks run before any write, so a conflict leaves the
// store untouched.
func (s *Store) ApplyTrade(_ context.Context, commit interfaces.TradeCommit) error {
	if commit.Trade == nil {
		return errors.New("trade is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[commit.UserID]
	if !ok || account.Version != commit.Account.ExpectedVersion {
		return domain.ErrConflict
	}

	key := positionKey{commit.UserID, commit.Position.Symbol}
	current, exists := s.positions[key]
	if commit.Position.ExpectedVersion == 0 {
		if exists {
			return domain.ErrConflict
		}
	} else if !exists || current.Version != commit.Position.ExpectedVersion {
		return domain.ErrConflict
	}

	now := time.Now().UTC()
	account.CashBalance = commit.Account.NewBalance
	account.Version++
	account.UpdatedAt = now

	switch {
	case commit.Position.Upsert == nil:
		delete(s.positions, key)
		delete(s.ord, key)
	case commit.Position.ExpectedVersion == 0:
		stored := *commit.Position.Upsert
		stored.Version = 1
		stored.CreatedAt = now
		stored.UpdatedAt = now
		s.positions[key] = &stored
		s.seq++
		s.ord[key] = s.seq
	default:
		current.Quantity = commit.Position.Upsert.Quantity
		current.AverageCost = commit.Position.Upsert.AverageCost
		current.Version++
		current.UpdatedAt = now
	}

	trade := *commit.Trade
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}
	s.trades[commit.UserID] = append(s.trades[commit.UserID], trade)
	return nil
}

func (s *Store) CreateWatchlist(_ context.Context, watchlist *domain.Watchlist) error {
	if watchlist == nil {
		return errors.New("watchlist is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if watchlist.ID == uuid.Nil {
		watchlist.ID = uuid.New()
	}
	now := time.Now().UTC()
	if watchlist.CreatedAt.IsZero() {
		watchlist.CreatedAt = now
	}
	watchlist.UpdatedAt = now

	s.watchlists[watchlist.ID] = copyWatchlist(watchlist)
	return nil
}

func (s *Store) GetWatchlist(_ context.Context, id uuid.UUID) (*domain.Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	watchlist, ok := s.watchlists[id]
	if !ok {
		return nil, domain.ErrWatchlistNotFound
	}
	return copyWatchlist(watchlist), nil
}

func (s *Store) ListWatchlists(_ context.Context, userID uuid.UUID) ([]domain.Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var watchlists []domain.Watchlist
	for _, watchlist := range s.watchlists {
		if watchlist.UserID == userID {
			watchlists = append(watchlists, *copyWatchlist(watchlist))
		}
	}
	sort.Slice(watchlists, func(i, j int) bool {
		return watchlists[i].CreatedAt.Before(watchlists[j].CreatedAt)
	})
	return watchlists, nil
}

func (s *Store) UpdateWatchlist(_ context.Context, watchlist *domain.Watchlist) error {
	if watchlist == nil {
		return errors.New("watchlist is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchlists[watchlist.ID]; !ok {
		return domain.ErrWatchlistNotFound
	}
	watchlist.UpdatedAt = time.Now().UTC()
	s.watchlists[watchlist.ID] = copyWatchlist(watchlist)
	return nil
}

func (s *Store) DeleteWatchlist(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchlists[id]; !ok {
		return domain.ErrWatchlistNotFound
	}
	delete(s.watchlists, id)
	return nil
}

func copyWatchlist(w *domain.Watchlist) *domain.Watchlist {
	copied := *w
	copied.Symbols = append([]string(nil), w.Symbols...)
	return &copied
}

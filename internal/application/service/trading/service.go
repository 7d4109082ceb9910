package trading

import (
	"context"
	"errors"
	"time"

	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxAttempts caps the optimistic retry of the whole load-compute-commit
// sequence when a concurrent trade on the same account or position wins
// the version race.
const maxAttempts = 3

var ErrNilRepository = errors.New("repository is nil")

// TradePublisher forwards executed trades to downstream consumers.
type TradePublisher interface {
	PublishTrade(ctx context.Context, trade *domain.Trade) error
}

// Service executes trades: it validates the request, recomputes the
// position, and commits balance, position, and ledger mutations as one
// atomic unit per (user, symbol).
type Service struct {
	repo      interfaces.PortfolioRepository
	publisher TradePublisher
	logger    *logrus.Entry
}

// NewService wires the executor. The publisher may be nil; publishing is
// best effort and never fails a trade.
func NewService(repo interfaces.PortfolioRepository, publisher TradePublisher, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithField("component", "trading"),
	}
}

// Buy executes a buy of quantity units of symbol at price for the user.
func (s *Service) Buy(ctx context.Context, userID uuid.UUID, symbol string, quantity, price float64) (*domain.Trade, error) {
	return s.Execute(ctx, userID, symbol, quantity, price, domain.TradeSideBuy)
}

// Sell executes a sell of quantity units of symbol at price for the user.
func (s *Service) Sell(ctx context.Context, userID uuid.UUID, symbol string, quantity, price float64) (*domain.Trade, error) {
	return s.Execute(ctx, userID, symbol, quantity, price, domain.TradeSideSell)
}

// Execute runs one trade to completion. Business-rule failures
// (ErrInvalidInput, ErrInsufficientFunds, ErrInsufficientHoldings) are
// terminal for the call; only version conflicts are retried, and only up
// to maxAttempts before ErrConflict is surfaced.
func (s *Service) Execute(ctx context.Context, userID uuid.UUID, symbol string, quantity, price float64, side domain.TradeSide) (*domain.Trade, error) {
	if s.repo == nil {
		return nil, ErrNilRepository
	}
	if quantity <= 0 || price <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if !side.IsValid() {
		return nil, domain.ErrInvalidInput
	}

	var trade *domain.Trade
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		trade, err = s.executeOnce(ctx, userID, symbol, quantity, price, side)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"symbol":  symbol,
			"attempt": attempt,
		}).Warn("trade commit conflicted, retrying")
	}
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"symbol":    symbol,
		"side":      trade.Side,
		"quantity":  trade.Quantity,
		"net_total": trade.NetTotal,
	}).Info("trade executed")

	if s.publisher != nil {
		if err := s.publisher.PublishTrade(ctx, trade); err != nil {
			s.logger.Errorf("publish trade %s: %v", trade.ID, err)
		}
	}
	return trade, nil
}

func (s *Service) executeOnce(ctx context.Context, userID uuid.UUID, symbol string, quantity, price float64, side domain.TradeSide) (*domain.Trade, error) {
	account, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	position, err := s.repo.GetPosition(ctx, userID, symbol)
	if err != nil && !errors.Is(err, domain.ErrPositionNotFound) {
		return nil, err
	}

	var commit interfaces.TradeCommit
	switch side {
	case domain.TradeSideBuy:
		commit, err = s.stageBuy(account, position, userID, symbol, quantity, price)
	case domain.TradeSideSell:
		commit, err = s.stageSell(account, position, userID, symbol, quantity, price)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.ApplyTrade(ctx, commit); err != nil {
		return nil, err
	}
	return commit.Trade, nil
}

func (s *Service) stageBuy(account *domain.Account, position *domain.Position, userID uuid.UUID, symbol string, quantity, price float64) (interfaces.TradeCommit, error) {
	total := quantity * price
	if account.CashBalance < total {
		return interfaces.TradeCommit{}, domain.ErrInsufficientFunds
	}

	next, err := position.ApplyBuy(quantity, price)
	if err != nil {
		return interfaces.TradeCommit{}, err
	}
	next.UserID = userID
	next.Symbol = symbol

	return interfaces.TradeCommit{
		UserID: userID,
		Account: interfaces.AccountWrite{
			NewBalance:      account.CashBalance - total,
			ExpectedVersion: account.Version,
		},
		Position: interfaces.PositionWrite{
			Symbol:          symbol,
			Upsert:          next,
			ExpectedVersion: positionVersion(position),
		},
		Trade: newTrade(userID, symbol, domain.TradeSideBuy, quantity, price, total),
	}, nil
}

func (s *Service) stageSell(account *domain.Account, position *domain.Position, userID uuid.UUID, symbol string, quantity, price float64) (interfaces.TradeCommit, error) {
	if position == nil || position.Quantity < quantity {
		return interfaces.TradeCommit{}, domain.ErrInsufficientHoldings
	}

	next, err := position.ApplySell(quantity, price)
	if err != nil {
		return interfaces.TradeCommit{}, err
	}
	if next != nil {
		next.UserID = userID
		next.Symbol = symbol
	}

	total := quantity * price
	netTotal := total - total*domain.BrokerageRate

	return interfaces.TradeCommit{
		UserID: userID,
		Account: interfaces.AccountWrite{
			NewBalance:      account.CashBalance + netTotal,
			ExpectedVersion: account.Version,
		},
		Position: interfaces.PositionWrite{
			Symbol:          symbol,
			Upsert:          next,
			ExpectedVersion: position.Version,
		},
		Trade: newTrade(userID, symbol, domain.TradeSideSell, quantity, price, netTotal),
	}, nil
}

func newTrade(userID uuid.UUID, symbol string, side domain.TradeSide, quantity, price, netTotal float64) *domain.Trade {
	return &domain.Trade{
		ID:         uuid.New(),
		UserID:     userID,
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		NetTotal:   netTotal,
		ExecutedAt: time.Now().UTC(),
	}
}

func positionVersion(p *domain.Position) int64 {
	if p == nil {
		return 0
	}
	return p.Version
}

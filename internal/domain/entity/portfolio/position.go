package portfolio

import (
	"time"

	"github.com/google/uuid"
)

// Position is a user's current holding in one stock symbol. A persisted
// position always has Quantity > 0; a sell draining the position deletes
// the row instead of zeroing it. AverageCost is the quantity-weighted mean
// of all buy prices and is never touched by sells.
type Position struct {
	UserID      uuid.UUID `json:"user_id"`
	Symbol      string    `json:"symbol"`
	Quantity    float64   `json:"quantity"`
	AverageCost float64   `json:"average_cost"`
	Version     int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ZeroPosition is what lookups return when a user holds nothing in a
// symbol, so callers never branch on existence.
func ZeroPosition(userID uuid.UUID, symbol string) *Position {
	return &Position{UserID: userID, Symbol: symbol}
}

// ApplyBuy returns the position after buying quantity units at price.
// A nil receiver means no existing position. The weighted average cannot
// divide by zero: the new quantity is strictly positive.
func (p *Position) ApplyBuy(quantity, price float64) (*Position, error) {
	if quantity <= 0 || price <= 0 {
		return nil, ErrInvalidInput
	}

	var qty0, avg0 float64
	next := &Position{}
	if p != nil {
		*next = *p
		qty0, avg0 = p.Quantity, p.AverageCost
	}
	next.Quantity = qty0 + quantity
	next.AverageCost = (qty0*avg0 + quantity*price) / next.Quantity
	return next, nil
}

// ApplySell returns the position after selling quantity units. Selling the
// exact held quantity returns (nil, nil): the position is gone, and the
// store translates that into a delete. Selling more than held is an error,
// never a clamp.
func (p *Position) ApplySell(quantity, price float64) (*Position, error) {
	if quantity <= 0 || price <= 0 {
		return nil, ErrInvalidInput
	}
	if p == nil || p.Quantity < quantity {
		return nil, ErrInsufficientHoldings
	}
	if p.Quantity == quantity {
		return nil, nil
	}

	next := *p
	next.Quantity = p.Quantity - quantity
	return &next, nil
}

package portfolio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BrokerageRate is the flat fee deducted from sell proceeds.
const BrokerageRate = 0.03

// TradeSide represents BUY/SELL direction.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

func (s TradeSide) IsValid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

func NewTradeSide(v string) (TradeSide, error) {
	side := TradeSide(v)
	if !side.IsValid() {
		return "", fmt.Errorf("invalid trade side: %s", v)
	}
	return side, nil
}

// Trade is one executed buy or sell, appended to the ledger exactly once
// and never mutated. NetTotal is quantity*price for buys and
// quantity*price*(1-BrokerageRate) for sells.
type Trade struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Symbol     string    `json:"symbol"`
	Side       TradeSide `json:"side"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	NetTotal   float64   `json:"net_total"`
	ExecutedAt time.Time `json:"executed_at"`
}

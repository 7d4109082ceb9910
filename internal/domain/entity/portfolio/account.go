package portfolio

import (
	"time"

	"github.com/google/uuid"
)

// Account is a user's cash account. The balance moves on every executed
// trade; the row is never deleted while the user exists.
type Account struct {
	UserID      uuid.UUID `json:"user_id"`
	CashBalance float64   `json:"cash_balance"`
	Version     int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

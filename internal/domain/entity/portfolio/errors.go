package portfolio

import "errors"

var (
	// ErrInvalidInput rejects non-positive quantities or prices before any
	// store access.
	ErrInvalidInput = errors.New("quantity and price must be positive")

	// ErrInsufficientFunds rejects a buy whose total exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrInsufficientHoldings rejects a sell exceeding the held quantity.
	ErrInsufficientHoldings = errors.New("insufficient stocks to sell")

	// ErrConflict reports that a concurrent update won the race and the
	// retry budget is exhausted.
	ErrConflict = errors.New("concurrent update conflict")

	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrPositionNotFound  = errors.New("position not found")
	ErrWatchlistNotFound = errors.New("watchlist not found")
	ErrNotOwner          = errors.New("watchlist belongs to another user")
)

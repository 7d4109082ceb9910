package portfolio

import (
	"time"

	"github.com/google/uuid"
)

// Watchlist is a named list of symbols a user keeps an eye on. It carries
// no quantities; it is independent of holdings.
type Watchlist struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Symbols   []string  `json:"symbols"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddSymbol appends symbol if not already present.
func (w *Watchlist) AddSymbol(symbol string) bool {
	for _, s := range w.Symbols {
		if s == symbol {
			return false
		}
	}
	w.Symbols = append(w.Symbols, symbol)
	return true
}

// RemoveSymbol removes symbol if present.
func (w *Watchlist) RemoveSymbol(symbol string) bool {
	for i, s := range w.Symbols {
		if s == symbol {
			w.Symbols = append(w.Symbols[:i], w.Symbols[i+1:]...)
			return true
		}
	}
	return false
}

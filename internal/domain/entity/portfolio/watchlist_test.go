package portfolio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWatchlist_AddSymbol(t *testing.T) {
	w := &Watchlist{}

	require.True(t, w.AddSymbol("ACME"))
	require.False(t, w.AddSymbol("ACME"), "duplicate add is a no-op")
	require.True(t, w.AddSymbol("GLOBEX"))
	require.Equal(t, []string{"ACME", "GLOBEX"}, w.Symbols)
}

func TestWatchlist_RemoveSymbol(t *testing.T) {
	w := &Watchlist{Symbols: []string{"ACME", "GLOBEX"}}

	require.True(t, w.RemoveSymbol("ACME"))
	require.False(t, w.RemoveSymbol("ACME"))
	require.Equal(t, []string{"GLOBEX"}, w.Symbols)
}

package portfolio

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPosition_ApplyBuy(t *testing.T) {
	tests := []struct {
		name     string
		existing *Position
		quantity float64
		price    float64
		wantQty  float64
		wantAvg  float64
		wantErr  error
	}{
		{"FirstBuy", nil, 10, 10, 10, 10, nil},
		{"SecondBuyRaisesAverage", &Position{Quantity: 10, AverageCost: 10}, 5, 16, 15, 12, nil},
		{"BuyBelowAverageLowersIt", &Position{Quantity: 10, AverageCost: 20}, 10, 10, 20, 15, nil},
		{"ZeroQuantity", nil, 0, 10, 0, 0, ErrInvalidInput},
		{"NegativeQuantity", nil, -1, 10, 0, 0, ErrInvalidInput},
		{"ZeroPrice", nil, 10, 0, 0, 0, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.existing.ApplyBuy(tt.quantity, tt.price)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, next)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tt.wantQty, next.Quantity, 1e-9)
			require.InDelta(t, tt.wantAvg, next.AverageCost, 1e-9)
		})
	}
}

func TestPosition_ApplySell(t *testing.T) {
	tests := []struct {
		name     string
		existing *Position
		quantity float64
		price    float64
		wantNil  bool
		wantQty  float64
		wantErr  error
	}{
		{"PartialSell", &Position{Quantity: 10, AverageCost: 12}, 4, 20, false, 6, nil},
		{"ExactZeroDeletes", &Position{Quantity: 15, AverageCost: 12}, 15, 20, true, 0, nil},
		{"OversellRejected", &Position{Quantity: 5, AverageCost: 12}, 10, 20, false, 0, ErrInsufficientHoldings},
		{"NoPosition", nil, 1, 20, false, 0, ErrInsufficientHoldings},
		{"ZeroQuantity", &Position{Quantity: 5}, 0, 20, false, 0, ErrInvalidInput},
		{"ZeroPrice", &Position{Quantity: 5}, 1, 0, false, 0, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.existing.ApplySell(tt.quantity, tt.price)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				require.Nil(t, next)
				return
			}
			require.InDelta(t, tt.wantQty, next.Quantity, 1e-9)
		})
	}
}

func TestPosition_SellKeepsAverageCost(t *testing.T) {
	position := &Position{Quantity: 15, AverageCost: 12}

	next, err := position.ApplySell(5, 20)
	require.NoError(t, err)
	require.InDelta(t, 12.0, next.AverageCost, 1e-9, "sell must not touch average cost")
	require.InDelta(t, 10.0, next.Quantity, 1e-9)
}

// TestAverageCostMatchesLedgerReplay checks that the incremental average
// over any buy sequence equals the weighted mean recomputed from the full
// ledger of buys.
func TestAverageCostMatchesLedgerReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 100; run++ {
		var position *Position
		var totalQty, totalCost float64

		buys := 1 + rng.Intn(20)
		for i := 0; i < buys; i++ {
			quantity := 1 + rng.Float64()*100
			price := 1 + rng.Float64()*500

			next, err := position.ApplyBuy(quantity, price)
			require.NoError(t, err)
			position = next

			totalQty += quantity
			totalCost += quantity * price
		}

		require.InDelta(t, totalQty, position.Quantity, 1e-6)
		require.InDelta(t, totalCost/totalQty, position.AverageCost, 1e-6)
	}
}

func TestPosition_OversellErrorIsCallerCorrectable(t *testing.T) {
	position := &Position{Quantity: 5, AverageCost: 10}
	_, err := position.ApplySell(10, 20)
	require.True(t, errors.Is(err, ErrInsufficientHoldings))
}

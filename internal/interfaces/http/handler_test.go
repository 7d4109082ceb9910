package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appportfolio "main/internal/application/service/portfolio"
	apptrading "main/internal/application/service/trading"
	appwatchlist "main/internal/application/service/watchlist"
	domain "main/internal/domain/entity/portfolio"
	"main/internal/infrastructure/memstore"
	"main/internal/infrastructure/quotes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	handler := NewHandler(
		apptrading.NewService(store, nil, nil),
		appportfolio.NewService(store),
		appwatchlist.NewService(store),
		quotes.NewClient("http://localhost:0", ""),
		nil,
		time.Second,
	)
	return handler, store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != uuid.Nil {
		req.Header.Set(userIDHeader, userID.String())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestHandler_BuyAndListPositions(t *testing.T) {
	handler, store := newTestHandler(t)
	userID := uuid.New()
	require.NoError(t, store.CreateAccount(context.Background(), &domain.Account{UserID: userID, CashBalance: 1000}))

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/trades/buy", userID, gin.H{
		"symbol":   "ACME",
		"quantity": 10,
		"price":    10,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var trade domain.Trade
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &trade))
	require.Equal(t, domain.TradeSideBuy, trade.Side)
	require.InDelta(t, 100.0, trade.NetTotal, 1e-9)

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/positions/", userID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var positions []domain.Position
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &positions))
	require.Len(t, positions, 1)
	require.Equal(t, "ACME", positions[0].Symbol)
}

func TestHandler_GetPositionReturnsZeroPosition(t *testing.T) {
	handler, _ := newTestHandler(t)
	userID := uuid.New()

	resp := doJSON(t, handler, http.MethodGet, "/api/v1/positions/ACME", userID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var position domain.Position
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &position))
	require.Zero(t, position.Quantity)
	require.Zero(t, position.AverageCost)
}

func TestHandler_SellWithoutHoldings(t *testing.T) {
	handler, store := newTestHandler(t)
	userID := uuid.New()
	require.NoError(t, store.CreateAccount(context.Background(), &domain.Account{UserID: userID, CashBalance: 1000}))

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/trades/sell", userID, gin.H{
		"symbol":   "ACME",
		"quantity": 5,
		"price":    10,
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "insufficient stocks")
}

func TestHandler_InvalidQuantity(t *testing.T) {
	handler, store := newTestHandler(t)
	userID := uuid.New()
	require.NoError(t, store.CreateAccount(context.Background(), &domain.Account{UserID: userID, CashBalance: 1000}))

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/trades/buy", userID, gin.H{
		"symbol":   "ACME",
		"quantity": -1,
		"price":    10,
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandler_MissingUserHeader(t *testing.T) {
	handler, _ := newTestHandler(t)

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/trades/buy", uuid.Nil, gin.H{
		"symbol":   "ACME",
		"quantity": 1,
		"price":    10,
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHandler_AccountLifecycle(t *testing.T) {
	handler, _ := newTestHandler(t)
	userID := uuid.New()

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/accounts/", userID, gin.H{"opening_balance": 2500})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, handler, http.MethodPost, "/api/v1/accounts/", userID, gin.H{"opening_balance": 100})
	require.Equal(t, http.StatusConflict, resp.Code)

	resp = doJSON(t, handler, http.MethodGet, "/api/v1/accounts/", userID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var account domain.Account
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &account))
	require.InDelta(t, 2500.0, account.CashBalance, 1e-9)
}

func TestHandler_AccountNotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	resp := doJSON(t, handler, http.MethodGet, "/api/v1/accounts/", uuid.New(), nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandler_ListTradesNewestFirst(t *testing.T) {
	handler, store := newTestHandler(t)
	userID := uuid.New()
	require.NoError(t, store.CreateAccount(context.Background(), &domain.Account{UserID: userID, CashBalance: 1000}))

	for _, symbol := range []string{"ACME", "GLOBEX"} {
		resp := doJSON(t, handler, http.MethodPost, "/api/v1/trades/buy", userID, gin.H{
			"symbol":   symbol,
			"quantity": 1,
			"price":    10,
		})
		require.Equal(t, http.StatusOK, resp.Code)
		time.Sleep(2 * time.Millisecond)
	}

	resp := doJSON(t, handler, http.MethodGet, "/api/v1/trades/", userID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var trades []domain.Trade
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &trades))
	require.Len(t, trades, 2)
	require.Equal(t, "GLOBEX", trades[0].Symbol)
}

func TestHandler_WatchlistRoutes(t *testing.T) {
	handler, _ := newTestHandler(t)
	userID := uuid.New()

	resp := doJSON(t, handler, http.MethodPost, "/api/v1/watchlists/", userID, gin.H{"name": "tech"})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created domain.Watchlist
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/watchlists/%s/symbols/ACME", created.ID), userID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	stranger := uuid.New()
	resp = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/watchlists/%s", created.ID), stranger, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/watchlists/%s", created.ID), userID, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/watchlists/%s", created.ID), userID, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

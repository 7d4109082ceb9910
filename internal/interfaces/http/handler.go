// @title           Portfolio Tracker API
// @version         1.0
// @description     API for executing trades and tracking stock positions

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	appinterfaces "main/internal/application/interfaces"
	appportfolio "main/internal/application/service/portfolio"
	apptrading "main/internal/application/service/trading"
	appwatchlist "main/internal/application/service/watchlist"
	domain "main/internal/domain/entity/portfolio"
	"main/internal/infrastructure/quotes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const basePath = "/api/v1"

const userIDHeader = "X-User-ID"

var (
	errMissingUserID = errors.New("X-User-ID header required")
	errMissingID     = errors.New("missing id")
	errMissingSymbol = errors.New("symbol query param required")
)

type Handler struct {
	router     *gin.Engine
	trading    *apptrading.Service
	portfolio  *appportfolio.Service
	watchlists *appwatchlist.Service
	quotes     *quotes.Client
	cache      *redis.Client
	cacheTTL   time.Duration
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

func NewHandler(trading *apptrading.Service, portfolio *appportfolio.Service, watchlists *appwatchlist.Service, quoteClient *quotes.Client, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:     router,
		trading:    trading,
		portfolio:  portfolio,
		watchlists: watchlists,
		quotes:     quoteClient,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := h.router.Group(basePath)

	trades := api.Group("/trades")
	{
		trades.POST("/buy", h.buyStock)
		trades.POST("/sell", h.sellStock)
		trades.GET("/", h.listTrades)
	}

	positions := api.Group("/positions")
	{
		positions.GET("/", h.listPositions)
		positions.GET("/:symbol", h.getPosition)
	}

	accounts := api.Group("/accounts")
	{
		accounts.POST("/", h.createAccount)
		accounts.GET("/", h.getAccount)
	}

	watchlists := api.Group("/watchlists")
	{
		watchlists.POST("/", h.createWatchlist)
		watchlists.GET("/", h.listWatchlists)
		watchlists.GET("/:id", h.getWatchlist)
		watchlists.DELETE("/:id", h.deleteWatchlist)
		watchlists.POST("/:id/symbols/:symbol", h.addWatchlistSymbol)
		watchlists.DELETE("/:id/symbols/:symbol", h.removeWatchlistSymbol)
	}

	quoteRoutes := api.Group("/quotes")
	if h.cache != nil {
		quoteRoutes.Use(h.cacheMiddleware())
	}
	{
		quoteRoutes.GET("/search", h.searchQuotes)
		quoteRoutes.GET("/:symbol", h.getQuote)
	}
}

// Trades handlers

type tradePayload struct {
	Symbol   string  `json:"symbol" binding:"required"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// buyStock executes a buy order
// @Summary      Buy stock
// @Description  Buy quantity units of a symbol at the given price against the cash balance
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string        true  "Authenticated user id"
// @Param        trade      body      tradePayload  true  "Order data"
// @Success      200        {object}  domain.Trade
// @Failure      400        {object}  map[string]string
// @Failure      409        {object}  map[string]string
// @Router       /trades/buy [post]
func (h *Handler) buyStock(c *gin.Context) {
	h.executeTrade(c, domain.TradeSideBuy)
}

// sellStock executes a sell order
// @Summary      Sell stock
// @Description  Sell quantity units of a held symbol; a 3% brokerage is deducted from proceeds
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string        true  "Authenticated user id"
// @Param        trade      body      tradePayload  true  "Order data"
// @Success      200        {object}  domain.Trade
// @Failure      400        {object}  map[string]string
// @Failure      409        {object}  map[string]string
// @Router       /trades/sell [post]
func (h *Handler) sellStock(c *gin.Context) {
	h.executeTrade(c, domain.TradeSideSell)
}

func (h *Handler) executeTrade(c *gin.Context, side domain.TradeSide) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	var payload tradePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	trade, err := h.trading.Execute(c.Request.Context(), userID, payload.Symbol, payload.Quantity, payload.Price, side)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

// listTrades returns the user's trade ledger
// @Summary      List trades
// @Description  List the user's executed trades, most recent first
// @Tags         trades
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Success      200        {array}   domain.Trade
// @Failure      401        {object}  map[string]string
// @Router       /trades [get]
func (h *Handler) listTrades(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	trades, err := h.portfolio.ListTrades(c.Request.Context(), userID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if trades == nil {
		trades = []domain.Trade{}
	}
	c.JSON(http.StatusOK, trades)
}

// Positions handlers

// listPositions returns all open positions
// @Summary      List positions
// @Description  List the user's open positions in insertion order
// @Tags         positions
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Success      200        {array}   domain.Position
// @Failure      401        {object}  map[string]string
// @Router       /positions [get]
func (h *Handler) listPositions(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	positions, err := h.portfolio.ListPositions(c.Request.Context(), userID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if positions == nil {
		positions = []domain.Position{}
	}
	c.JSON(http.StatusOK, positions)
}

// getPosition returns the position for one symbol
// @Summary      Get position
// @Description  Get the user's position in a symbol; a zero position is returned when nothing is held
// @Tags         positions
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Param        symbol     path      string  true  "Stock symbol"
// @Success      200        {object}  domain.Position
// @Failure      401        {object}  map[string]string
// @Router       /positions/{symbol} [get]
func (h *Handler) getPosition(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	position, err := h.portfolio.GetPosition(c.Request.Context(), userID, c.Param("symbol"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, position)
}

// Accounts handlers

type accountPayload struct {
	OpeningBalance float64 `json:"opening_balance"`
}

// createAccount opens a cash account
// @Summary      Create account
// @Description  Open a cash account with an opening balance
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string          true  "Authenticated user id"
// @Param        account    body      accountPayload  true  "Account data"
// @Success      201        {object}  domain.Account
// @Failure      409        {object}  map[string]string
// @Router       /accounts [post]
func (h *Handler) createAccount(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	var payload accountPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	account, err := h.portfolio.CreateAccount(c.Request.Context(), userID, payload.OpeningBalance)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// getAccount returns the user's cash account
// @Summary      Get account
// @Description  Get the user's cash account and balance
// @Tags         accounts
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Success      200        {object}  domain.Account
// @Failure      404        {object}  map[string]string
// @Router       /accounts [get]
func (h *Handler) getAccount(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	account, err := h.portfolio.GetAccount(c.Request.Context(), userID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// Watchlists handlers

type watchlistPayload struct {
	Name string `json:"name" binding:"required"`
}

// createWatchlist creates a watchlist
// @Summary      Create watchlist
// @Tags         watchlists
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string            true  "Authenticated user id"
// @Param        watchlist  body      watchlistPayload  true  "Watchlist data"
// @Success      201        {object}  domain.Watchlist
// @Failure      400        {object}  map[string]string
// @Router       /watchlists [post]
func (h *Handler) createWatchlist(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	var payload watchlistPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	watchlist, err := h.watchlists.Create(c.Request.Context(), userID, payload.Name)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, watchlist)
}

// listWatchlists lists the user's watchlists
// @Summary      List watchlists
// @Tags         watchlists
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Success      200        {array}   domain.Watchlist
// @Router       /watchlists [get]
func (h *Handler) listWatchlists(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err)
		return
	}
	watchlists, err := h.watchlists.List(c.Request.Context(), userID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if watchlists == nil {
		watchlists = []domain.Watchlist{}
	}
	c.JSON(http.StatusOK, watchlists)
}

// getWatchlist returns one watchlist
// @Summary      Get watchlist
// @Tags         watchlists
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Param        id         path      string  true  "Watchlist id"
// @Success      200        {object}  domain.Watchlist
// @Failure      404        {object}  map[string]string
// @Router       /watchlists/{id} [get]
func (h *Handler) getWatchlist(c *gin.Context) {
	userID, id, err := currentUserAndID(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	watchlist, err := h.watchlists.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, watchlist)
}

// deleteWatchlist deletes one watchlist
// @Summary      Delete watchlist
// @Tags         watchlists
// @Param        X-User-ID  header  string  true  "Authenticated user id"
// @Param        id         path    string  true  "Watchlist id"
// @Success      204        "No Content"
// @Failure      404        {object}  map[string]string
// @Router       /watchlists/{id} [delete]
func (h *Handler) deleteWatchlist(c *gin.Context) {
	userID, id, err := currentUserAndID(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.watchlists.Delete(c.Request.Context(), userID, id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addWatchlistSymbol adds a symbol to a watchlist
// @Summary      Add watchlist symbol
// @Tags         watchlists
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Param        id         path      string  true  "Watchlist id"
// @Param        symbol     path      string  true  "Stock symbol"
// @Success      200        {object}  domain.Watchlist
// @Failure      404        {object}  map[string]string
// @Router       /watchlists/{id}/symbols/{symbol} [post]
func (h *Handler) addWatchlistSymbol(c *gin.Context) {
	userID, id, err := currentUserAndID(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	watchlist, err := h.watchlists.AddSymbol(c.Request.Context(), userID, id, c.Param("symbol"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, watchlist)
}

// removeWatchlistSymbol removes a symbol from a watchlist
// @Summary      Remove watchlist symbol
// @Tags         watchlists
// @Produce      json
// @Param        X-User-ID  header    string  true  "Authenticated user id"
// @Param        id         path      string  true  "Watchlist id"
// @Param        symbol     path      string  true  "Stock symbol"
// @Success      200        {object}  domain.Watchlist
// @Failure      404        {object}  map[string]string
// @Router       /watchlists/{id}/symbols/{symbol} [delete]
func (h *Handler) removeWatchlistSymbol(c *gin.Context) {
	userID, id, err := currentUserAndID(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	watchlist, err := h.watchlists.RemoveSymbol(c.Request.Context(), userID, id, c.Param("symbol"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, watchlist)
}

// Quotes handlers

// getQuote proxies the provider quote for a symbol
// @Summary      Get quote
// @Tags         quotes
// @Produce      json
// @Param        symbol  path      string  true  "Stock symbol"
// @Success      200     {object}  object
// @Failure      502     {object}  map[string]string
// @Router       /quotes/{symbol} [get]
func (h *Handler) getQuote(c *gin.Context) {
	payload, err := h.quotes.Quote(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, http.StatusBadGateway, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// searchQuotes proxies a symbol search against the provider
// @Summary      Search symbols
// @Tags         quotes
// @Produce      json
// @Param        symbol  query     string  true  "Search query"
// @Success      200     {object}  object
// @Failure      502     {object}  map[string]string
// @Router       /quotes/search [get]
func (h *Handler) searchQuotes(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		writeError(c, http.StatusBadRequest, errMissingSymbol)
		return
	}
	payload, err := h.quotes.Search(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, http.StatusBadGateway, err)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// Helpers

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		return uuid.Nil, errMissingUserID
	}
	return uuid.Parse(raw)
}

func currentUserAndID(c *gin.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errMissingID
	}
	return userID, id, nil
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// writeDomainError maps domain sentinels onto HTTP statuses. Business
// rule failures surface verbatim, matching the error taxonomy of the
// trading core.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientHoldings),
		errors.Is(err, domain.ErrNotOwner):
		writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrPositionNotFound),
		errors.Is(err, domain.ErrWatchlistNotFound):
		writeError(c, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAccountExists):
		writeError(c, http.StatusConflict, err)
	default:
		writeError(c, http.StatusInternalServerError, err)
	}
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.FullPath(), c.Request.URL.RawQuery)
}

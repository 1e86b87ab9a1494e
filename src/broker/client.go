package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"market-gateway/src/logger"
	"market-gateway/src/models"
)

// -----------------------------------------------------------------------------
// Broker Client
// -----------------------------------------------------------------------------

const (
	quotePath      = "/rest/secure/angelbroking/market/v1/quote/"
	candlePath     = "/rest/secure/angelbroking/historical/v1/getCandleData"
	placeOrderPath = "/rest/secure/angelbroking/order/v1/placeOrder"
	orderBookPath  = "/rest/secure/angelbroking/order/v1/getOrderBook"
	profilePath    = "/rest/secure/angelbroking/user/v1/getProfile"
)

// HeaderSource supplies the authenticated headers for each call. The session
// manager implements it.
type HeaderSource interface {
	Headers() map[string]string
}

// Client is a stateless set of broker operations. Every operation performs
// one authenticated HTTP call and classifies the response; broker failures
// come back as errors, never panics. No operation retries: placeOrder is not
// idempotent and the others do not need it at a one-second cadence.
type Client struct {
	baseURL    string
	instrument models.MInstrumentConfig
	headers    HeaderSource
	httpClient *http.Client
	logger     *logger.Logger
}

// -----------------------------------------------------------------------------

func NewClient(cfg models.MBrokerConfig, instrument models.MInstrumentConfig, headers HeaderSource, log *logger.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		instrument: instrument,
		headers:    headers,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		logger: log,
	}
}

// -----------------------------------------------------------------------------

// GetLTP fetches the last-traded-price quote for the configured instrument
// and returns the broker's quote record verbatim.
func (c *Client) GetLTP(ctx context.Context) (json.RawMessage, error) {
	payload := map[string]any{
		"mode": "LTP",
		"data": []map[string]string{{
			"exchange":      c.instrument.Exchange,
			"tradingsymbol": c.instrument.TradingSymbol,
			"symboltoken":   c.instrument.SymbolToken,
		}},
	}

	data, err := c.call(ctx, http.MethodPost, quotePath, nil, payload, "LTP fetch")
	if err != nil {
		return nil, err
	}

	var quotes models.MQuoteData
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("decode quote payload: %w", err)
	}
	if len(quotes.Fetched) == 0 {
		return nil, fmt.Errorf("quote response contained no fetched records")
	}

	return quotes.Fetched[0], nil
}

// -----------------------------------------------------------------------------

// GetCandles fetches historical candle data for the given window.
func (c *Client) GetCandles(ctx context.Context, p models.MCandleParams) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("exchange", p.Exchange)
	query.Set("symboltoken", p.SymbolToken)
	query.Set("interval", p.Interval)
	query.Set("fromdate", p.FromDate)
	query.Set("todate", p.ToDate)

	return c.call(ctx, http.MethodGet, candlePath, query, nil, "Historical data fetch")
}

// -----------------------------------------------------------------------------

// PlaceOrder submits one order. Never retried: without an idempotency key a
// repeat submission is a second order.
func (c *Client) PlaceOrder(ctx context.Context, params models.MOrderParams) (json.RawMessage, error) {
	return c.call(ctx, http.MethodPost, placeOrderPath, nil, params, "Order placement")
}

// -----------------------------------------------------------------------------

// GetOrderBook fetches the current order book.
func (c *Client) GetOrderBook(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, orderBookPath, nil, nil, "Order book fetch")
}

// -----------------------------------------------------------------------------

// GetProfile fetches the account profile.
func (c *Client) GetProfile(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, profilePath, nil, nil, "Profile fetch")
}

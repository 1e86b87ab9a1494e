package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"market-gateway/src/cache"
	"market-gateway/src/logger"
	"market-gateway/src/models"
)

// -----------------------------------------------------------------------------
// Test fixtures
// -----------------------------------------------------------------------------

const testQuote = `{"exchange":"NSE","tradingSymbol":"RELIANCE-EQ","symbolToken":"738561","ltp":2500.5}`

// stubBroker is an in-memory stand-in for the broker client. The fail flag
// can be flipped mid-test to simulate upstream outages.
type stubBroker struct {
	mu         sync.Mutex
	fail       bool
	candleArgs models.MCandleParams
	orderArgs  models.MOrderParams
}

func (b *stubBroker) setFail(fail bool) {
	b.mu.Lock()
	b.fail = fail
	b.mu.Unlock()
}

func (b *stubBroker) failing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fail
}

func (b *stubBroker) GetLTP(ctx context.Context) (json.RawMessage, error) {
	if b.failing() {
		return nil, fmt.Errorf("broker unavailable")
	}
	return json.RawMessage(testQuote), nil
}

func (b *stubBroker) GetCandles(ctx context.Context, p models.MCandleParams) (json.RawMessage, error) {
	b.mu.Lock()
	b.candleArgs = p
	b.mu.Unlock()
	if b.failing() {
		return nil, fmt.Errorf("broker unavailable")
	}
	return json.RawMessage(`[["2026-08-27T09:15:00",100,101,99,100.5,1200]]`), nil
}

func (b *stubBroker) PlaceOrder(ctx context.Context, params models.MOrderParams) (json.RawMessage, error) {
	b.mu.Lock()
	b.orderArgs = params
	b.mu.Unlock()
	if b.failing() {
		return nil, fmt.Errorf("broker unavailable")
	}
	return json.RawMessage(`{"orderid":"ORD-1"}`), nil
}

func (b *stubBroker) GetOrderBook(ctx context.Context) (json.RawMessage, error) {
	if b.failing() {
		return nil, fmt.Errorf("broker unavailable")
	}
	return json.RawMessage(`[{"orderid":"ORD-1","status":"complete"}]`), nil
}

func (b *stubBroker) GetProfile(ctx context.Context) (json.RawMessage, error) {
	if b.failing() {
		return nil, fmt.Errorf("broker unavailable")
	}
	return json.RawMessage(`{"clientcode":"A123456"}`), nil
}

// -----------------------------------------------------------------------------

func testConfig() *models.MConfig {
	return &models.MConfig{
		Name:     "market-gateway-test",
		Host:     "127.0.0.1",
		Port:     0,
		LogLevel: "INFO",
		Broker: models.MBrokerConfig{
			BaseURL:        "http://broker.invalid",
			RequestTimeout: 2,
		},
		Instrument: models.MInstrumentConfig{
			Exchange:      "NSE",
			TradingSymbol: "RELIANCE-EQ",
			SymbolToken:   "738561",
		},
		Stream: models.MStreamConfig{PollIntervalSeconds: 1},
		Historical: models.MHistoricalConfig{
			Interval: "ONE_MINUTE",
			FromDate: "2026-08-27 09:15",
			ToDate:   "2026-08-27 15:30",
		},
		Order: models.MOrderConfig{
			Variety:         "NORMAL",
			TransactionType: "BUY",
			OrderType:       "MARKET",
			ProductType:     "INTRADAY",
			Duration:        "DAY",
			Quantity:        "1",
		},
		Cache: models.MCacheConfig{Enabled: false, Key: "market_data"},
	}
}

func newTestServer(t *testing.T, cfg *models.MConfig, b *stubBroker) *Server {
	t.Helper()
	log := logger.NewLogger("test")
	srv := NewServer(cfg, log, b, cache.NewQuoteCache(), cache.NewRemoteCache(cfg.Cache, log), nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return srv
}

func doGET(t *testing.T, srv *Server, path string) map[string]json.RawMessage {
	t.Helper()
	return doRequest(t, srv, http.MethodGet, path)
}

func doRequest(t *testing.T, srv *Server, method, path string) map[string]json.RawMessage {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("%s %s returned %d", method, path, w.Code)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s %s body not JSON: %v", method, path, err)
	}
	return body
}

// -----------------------------------------------------------------------------
// Pull endpoints
// -----------------------------------------------------------------------------

func TestGetRoot(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})

	body := doGET(t, srv, "/")
	if !strings.Contains(string(body["message"]), "market data gateway") {
		t.Errorf("root message = %s", body["message"])
	}
}

func TestGetMarketDataEmptyCache(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})

	body := doGET(t, srv, "/market_data")
	if string(body["data"]) != `"No data available"` {
		t.Errorf("data = %s, want no-data indicator", body["data"])
	}
}

func TestGetMarketDataCached(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})
	srv.cache.Set(json.RawMessage(testQuote))

	body := doGET(t, srv, "/market_data")

	var fields models.MQuoteFields
	if err := json.Unmarshal(body["data"], &fields); err != nil {
		t.Fatalf("cached quote not JSON: %v", err)
	}
	if fields.LTP != 2500.5 {
		t.Errorf("ltp = %v, want 2500.5", fields.LTP)
	}
}

func TestGetHistoricalData(t *testing.T) {
	b := &stubBroker{}
	srv := newTestServer(t, testConfig(), b)

	body := doGET(t, srv, "/historical_data")
	if string(body["historical_data"]) == `"No data available"` {
		t.Fatal("expected candle data, got no-data indicator")
	}

	if b.candleArgs.Interval != "ONE_MINUTE" || b.candleArgs.FromDate != "2026-08-27 09:15" {
		t.Errorf("candle params = %+v", b.candleArgs)
	}
}

func TestGetHistoricalDataDefaultWindow(t *testing.T) {
	cfg := testConfig()
	cfg.Historical.FromDate = ""
	cfg.Historical.ToDate = ""

	b := &stubBroker{}
	srv := newTestServer(t, cfg, b)

	doGET(t, srv, "/historical_data")

	// Blank config window is replaced by the last trading session.
	if b.candleArgs.FromDate == "" || b.candleArgs.ToDate == "" {
		t.Errorf("session window not derived: %+v", b.candleArgs)
	}
	if !strings.HasSuffix(b.candleArgs.FromDate, "09:15") || !strings.HasSuffix(b.candleArgs.ToDate, "15:30") {
		t.Errorf("derived window = %q..%q", b.candleArgs.FromDate, b.candleArgs.ToDate)
	}
}

func TestGetHistoricalDataBrokerFailure(t *testing.T) {
	b := &stubBroker{fail: true}
	srv := newTestServer(t, testConfig(), b)

	body := doGET(t, srv, "/historical_data")
	if string(body["historical_data"]) != `"No data available"` {
		t.Errorf("historical_data = %s, want no-data indicator", body["historical_data"])
	}
}

func TestGetOrderBook(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})

	body := doGET(t, srv, "/order_book")
	if !strings.Contains(string(body["order_book"]), "ORD-1") {
		t.Errorf("order_book = %s", body["order_book"])
	}
}

func TestGetProfile(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})

	body := doGET(t, srv, "/profile")
	if !strings.Contains(string(body["profile"]), "A123456") {
		t.Errorf("profile = %s", body["profile"])
	}
}

func TestPlaceOrder(t *testing.T) {
	b := &stubBroker{}
	srv := newTestServer(t, testConfig(), b)

	body := doRequest(t, srv, http.MethodPost, "/place_order")
	if !strings.Contains(string(body["order"]), "ORD-1") {
		t.Errorf("order = %s", body["order"])
	}

	// Order shape comes entirely from config, nothing from the request.
	if b.orderArgs.TradingSymbol != "RELIANCE-EQ" || b.orderArgs.TransactionType != "BUY" ||
		b.orderArgs.OrderType != "MARKET" || b.orderArgs.Quantity != "1" {
		t.Errorf("order params = %+v", b.orderArgs)
	}
}

func TestPlaceOrderFailure(t *testing.T) {
	b := &stubBroker{fail: true}
	srv := newTestServer(t, testConfig(), b)

	body := doRequest(t, srv, http.MethodPost, "/place_order")
	if string(body["order"]) != `"Order placement failed"` {
		t.Errorf("order = %s, want failure indicator", body["order"])
	}
}

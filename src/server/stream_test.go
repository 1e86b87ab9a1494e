package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"market-gateway/src/models"

	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// WebSocket streaming
// -----------------------------------------------------------------------------

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/market_data"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading stream message: %v", err)
	}

	var msg map[string]json.RawMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("stream message not JSON: %v", err)
	}
	return msg
}

func quoteLTP(t *testing.T, msg map[string]json.RawMessage) float64 {
	t.Helper()
	var ltp float64
	if err := json.Unmarshal(msg["ltp"], &ltp); err != nil {
		t.Fatalf("message %v has no ltp field", msg)
	}
	return ltp
}

// -----------------------------------------------------------------------------

func TestStreamDeliversQuotes(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts)

	// One quote per poll cycle, the first one immediately on connect.
	for i := 0; i < 3; i++ {
		msg := readMessage(t, conn)
		if ltp := quoteLTP(t, msg); ltp != 2500.5 {
			t.Errorf("message %d ltp = %v, want 2500.5", i, ltp)
		}
	}
}

func TestStreamPrimesSharedCache(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts)
	readMessage(t, conn)

	// The streamed quote must be visible to a plain pull query.
	body := doGET(t, srv, "/market_data")

	var fields models.MQuoteFields
	if err := json.Unmarshal(body["data"], &fields); err != nil {
		t.Fatalf("pull query did not return the streamed quote: %v", err)
	}
	if fields.LTP != 2500.5 {
		t.Errorf("cached ltp = %v, want 2500.5", fields.LTP)
	}
}

func TestStreamErrorMarkerAndRecovery(t *testing.T) {
	b := &stubBroker{fail: true}
	srv := newTestServer(t, testConfig(), b)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts)

	// Broker down: an error marker arrives but the connection stays open.
	msg := readMessage(t, conn)
	if string(msg["error"]) != `"Failed to fetch market data"` {
		t.Fatalf("expected error marker, got %v", msg)
	}

	// Broker back: the same connection resumes delivering quotes.
	b.setFail(false)
	deadline := time.Now().Add(5 * time.Second)
	for {
		msg = readMessage(t, conn)
		if _, isErr := msg["error"]; !isErr {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("stream never recovered after broker came back")
		}
	}
	if ltp := quoteLTP(t, msg); ltp != 2500.5 {
		t.Errorf("recovered ltp = %v, want 2500.5", ltp)
	}
}

func TestStreamSubscriberIsolation(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	first := dialWS(t, ts)
	second := dialWS(t, ts)

	readMessage(t, first)
	readMessage(t, second)

	// Closing one subscriber must not disturb the other.
	first.Close()

	msg := readMessage(t, second)
	if ltp := quoteLTP(t, msg); ltp != 2500.5 {
		t.Errorf("surviving subscriber ltp = %v, want 2500.5", ltp)
	}
}

func TestStopDrainsSubscribers(t *testing.T) {
	srv := newTestServer(t, testConfig(), &stubBroker{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dialWS(t, ts)
	readMessage(t, conn)

	stopCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if n := srv.subscribers.Load(); n != 0 {
		t.Errorf("%d subscribers still registered after Stop", n)
	}
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"market-gateway/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Streaming Quotes
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Subscriber is one live streaming client. Each subscriber drives its own
// poll loop against the broker: the cache is shared between subscribers but
// fetch work is not deduplicated.
type Subscriber struct {
	id     string
	conn   *websocket.Conn
	server *Server
}

// -----------------------------------------------------------------------------

func (s *Server) handleMarketDataWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Warning("Failed to upgrade websocket: %v", err)
		return
	}

	sub := &Subscriber{
		id:     uuid.NewString(),
		conn:   conn,
		server: s,
	}

	// Per-subscriber context: the read pump cancels it on disconnect, the
	// server cancels it on shutdown. Either way only this loop stops.
	ctx, cancel := context.WithCancel(s.ctx)

	n := s.subscribers.Add(1)
	s.Logger.Info("Subscriber %s connected (%d active)", sub.id, n)

	s.wg.Add(1)
	go sub.readPump(cancel)
	go sub.pollLoop(ctx, cancel)
}

// -----------------------------------------------------------------------------

// readPump drains incoming frames so client-initiated close is noticed
// promptly. Any read error means the subscriber is gone.
func (sub *Subscriber) readPump(cancel context.CancelFunc) {
	defer cancel()

	sub.conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				sub.server.Logger.Warning("Subscriber %s read error: %v", sub.id, err)
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------

// pollLoop fetches one quote per interval and pushes it to this subscriber.
// A failed fetch sends an error marker and keeps the connection open; a
// failed send or a cancelled context ends the loop.
func (sub *Subscriber) pollLoop(ctx context.Context, cancel context.CancelFunc) {
	s := sub.server

	defer func() {
		cancel()
		sub.conn.Close()
		n := s.subscribers.Add(-1)
		s.wg.Done()
		s.Logger.Info("Subscriber %s disconnected (%d active)", sub.id, n)
	}()

	ticker := time.NewTicker(s.pollInterval())
	defer ticker.Stop()

	for {
		if err := sub.runCycle(ctx); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// -----------------------------------------------------------------------------

// runCycle performs one fetch-store-send cycle. The returned error is only
// non-nil when the subscriber itself is unusable; broker failures are
// reported to the client and absorbed.
func (sub *Subscriber) runCycle(ctx context.Context) error {
	s := sub.server

	cycleCtx, cancelCycle := context.WithTimeout(ctx, time.Duration(s.Config.Broker.RequestTimeout)*time.Second)
	quote, err := s.broker.GetLTP(cycleCtx)
	cancelCycle()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err != nil {
		return sub.send(models.MStreamError{Error: "Failed to fetch market data"})
	}

	s.cache.Set(quote)
	s.remote.Set(ctx, quote)
	s.journalQuote(quote)

	return sub.send(quote)
}

// -----------------------------------------------------------------------------

func (sub *Subscriber) send(v any) error {
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sub.conn.WriteJSON(v); err != nil {
		sub.server.Logger.Warning("Subscriber %s write error: %v", sub.id, err)
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// journalQuote appends a fetched quote to the optional journal. Failures
// degrade to a log line; they never interrupt delivery.
func (s *Server) journalQuote(quote json.RawMessage) {
	if s.journal == nil {
		return
	}

	var fields models.MQuoteFields
	if err := json.Unmarshal(quote, &fields); err != nil {
		s.Logger.Warning("Journal skip, quote record not parseable: %v", err)
		return
	}

	entry := models.MJournalEntry{
		TradingSymbol: fields.TradingSymbol,
		LTP:           fields.LTP,
		Raw:           string(quote),
		FetchedAt:     time.Now().Unix(),
	}
	if err := s.journal.Append(entry); err != nil {
		s.Logger.Warning("Journal append failed: %v", err)
	}
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"market-gateway/src/cache"
	"market-gateway/src/interfaces"
	"market-gateway/src/logger"
	"market-gateway/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Gateway HTTP Server
// -----------------------------------------------------------------------------

type Server struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	broker  interfaces.IBrokerClient
	cache   *cache.QuoteCache
	remote  *cache.RemoteCache
	journal interfaces.IQuoteJournal

	httpServer *http.Server

	// Lifecycle: cancelling ctx stops every subscriber loop.
	ctx         context.Context
	cancel      context.CancelFunc
	subscribers atomic.Int64
	wg          sync.WaitGroup
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewServer(
	cfg *models.MConfig,
	log *logger.Logger,
	brokerClient interfaces.IBrokerClient,
	quoteCache *cache.QuoteCache,
	remoteCache *cache.RemoteCache,
	journal interfaces.IQuoteJournal,
) *Server {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		Config:  cfg,
		Logger:  log,
		engine:  gin.Default(),
		broker:  brokerClient,
		cache:   quoteCache,
		remote:  remoteCache,
		journal: journal,
		ctx:     ctx,
		cancel:  cancel,
	}

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	s.engine.GET("/", s.getRoot)
	s.engine.GET("/market_data", s.getMarketData)
	s.engine.GET("/historical_data", s.getHistoricalData)
	s.engine.GET("/order_book", s.getOrderBook)
	s.engine.GET("/profile", s.getProfile)
	s.engine.POST("/place_order", s.placeOrder)

	// WebSocket endpoint
	s.engine.GET("/ws/market_data", s.handleMarketDataWS)

	if s.Config.StaticDir != "" {
		s.engine.Static("/static", s.Config.StaticDir)
	}
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels all subscriber loops, waits for them within the grace period,
// and shuts the HTTP listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.Logger.Warning("Subscriber loops did not drain within grace period")
	}

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Handler exposes the underlying engine, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------

func (s *Server) pollInterval() time.Duration {
	return time.Duration(s.Config.Stream.PollIntervalSeconds) * time.Second
}

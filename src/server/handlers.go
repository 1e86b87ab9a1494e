package server

import (
	"net/http"
	"time"

	"market-gateway/src/models"
	"market-gateway/src/utils"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Route Handlers (pull endpoints)
// -----------------------------------------------------------------------------

const noData = "No data available"

func (s *Server) getRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the market data gateway"})
}

// -----------------------------------------------------------------------------

// getMarketData serves the last cached quote. The in-memory slot is checked
// first; the remote mirror only matters right after a restart, before any
// streaming subscriber has primed the slot.
func (s *Server) getMarketData(c *gin.Context) {
	if quote, _, ok := s.cache.Get(); ok {
		c.JSON(http.StatusOK, gin.H{"data": quote})
		return
	}

	if s.remote.Available() {
		if quote, err := s.remote.Get(c.Request.Context()); err == nil {
			c.JSON(http.StatusOK, gin.H{"data": quote})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": noData})
}

// -----------------------------------------------------------------------------

func (s *Server) getHistoricalData(c *gin.Context) {
	params := models.MCandleParams{
		Exchange:    s.Config.Instrument.Exchange,
		SymbolToken: s.Config.Instrument.SymbolToken,
		Interval:    s.Config.Historical.Interval,
		FromDate:    s.Config.Historical.FromDate,
		ToDate:      s.Config.Historical.ToDate,
	}

	// Blank window in config: use the most recent trading session.
	if params.FromDate == "" || params.ToDate == "" {
		cal := utils.GetCalendar(s.Config.Instrument.Exchange)
		from, to, err := cal.LastSessionWindow(time.Now())
		if err != nil {
			s.Logger.Error("Cannot derive session window: %v", err)
			c.JSON(http.StatusOK, gin.H{"historical_data": noData})
			return
		}
		params.FromDate = from
		params.ToDate = to
	}

	data, err := s.broker.GetCandles(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"historical_data": noData})
		return
	}
	c.JSON(http.StatusOK, gin.H{"historical_data": data})
}

// -----------------------------------------------------------------------------

func (s *Server) getOrderBook(c *gin.Context) {
	data, err := s.broker.GetOrderBook(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"order_book": noData})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_book": data})
}

// -----------------------------------------------------------------------------

func (s *Server) getProfile(c *gin.Context) {
	data, err := s.broker.GetProfile(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"profile": noData})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": data})
}

// -----------------------------------------------------------------------------

// placeOrder submits the one fixed-parameter order the gateway knows:
// instrument from config, order shape from config.
func (s *Server) placeOrder(c *gin.Context) {
	params := models.MOrderParams{
		Variety:         s.Config.Order.Variety,
		TradingSymbol:   s.Config.Instrument.TradingSymbol,
		SymbolToken:     s.Config.Instrument.SymbolToken,
		TransactionType: s.Config.Order.TransactionType,
		Exchange:        s.Config.Instrument.Exchange,
		OrderType:       s.Config.Order.OrderType,
		ProductType:     s.Config.Order.ProductType,
		Duration:        s.Config.Order.Duration,
		Quantity:        s.Config.Order.Quantity,
	}

	data, err := s.broker.PlaceOrder(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"order": "Order placement failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": data})
}

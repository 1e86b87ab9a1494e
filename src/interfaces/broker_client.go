package interfaces

import (
	"context"
	"encoding/json"

	"market-gateway/src/models"
)

// -----------------------------------------------------------------------------
// IBrokerClient defines the contract for broker operations the server uses.
// -----------------------------------------------------------------------------

type IBrokerClient interface {

	// GetLTP fetches the latest quote record for the configured instrument.
	GetLTP(ctx context.Context) (json.RawMessage, error)

	// GetCandles fetches historical candle data.
	GetCandles(ctx context.Context, p models.MCandleParams) (json.RawMessage, error)

	// PlaceOrder submits one order. Must never be retried automatically.
	PlaceOrder(ctx context.Context, params models.MOrderParams) (json.RawMessage, error)

	// GetOrderBook fetches the current order book.
	GetOrderBook(ctx context.Context) (json.RawMessage, error)

	// GetProfile fetches the account profile.
	GetProfile(ctx context.Context) (json.RawMessage, error)
}

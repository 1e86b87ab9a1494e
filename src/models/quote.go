package models

import "encoding/json"

// -----------------------------------------------------------------------------
// Broker Envelope (Matches the SmartAPI response shape exactly)
// -----------------------------------------------------------------------------

// MBrokerEnvelope is the outer object every broker endpoint returns.
// Data is kept raw: each operation decodes it into its own payload type,
// so untyped broker JSON never leaks past the client boundary.
type MBrokerEnvelope struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorcode"`
	Data      json.RawMessage `json:"data"`
}

// -----------------------------------------------------------------------------

// MQuoteData is the payload of a quote (LTP mode) response.
// Fetched entries stay raw and are forwarded to clients verbatim.
type MQuoteData struct {
	Fetched   []json.RawMessage `json:"fetched"`
	Unfetched []json.RawMessage `json:"unfetched"`
}

// MQuoteFields is the subset of a quote record the gateway itself reads
// (for the journal). Everything else passes through untouched.
type MQuoteFields struct {
	Exchange      string  `json:"exchange"`
	TradingSymbol string  `json:"tradingSymbol"`
	SymbolToken   string  `json:"symbolToken"`
	LTP           float64 `json:"ltp"`
}

// -----------------------------------------------------------------------------

// MSessionTokens is the payload of a successful login response.
type MSessionTokens struct {
	JWTToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken"`
}

// -----------------------------------------------------------------------------
// Stream Messages
// -----------------------------------------------------------------------------

// MStreamError is pushed to a subscriber when a poll cycle fails.
// The connection stays open; the next successful cycle resumes quotes.
type MStreamError struct {
	Error string `json:"error"`
}

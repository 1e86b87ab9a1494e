package models

// MJournalEntry is one row of the optional quote journal: the fields the
// gateway extracts plus the raw broker record as received.
type MJournalEntry struct {
	TradingSymbol string
	LTP           float64
	Raw           string
	FetchedAt     int64
}

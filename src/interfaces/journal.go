package interfaces

import "market-gateway/src/models"

// -----------------------------------------------------------------------------
// IQuoteJournal defines the contract for the optional quote journal.
// -----------------------------------------------------------------------------

type IQuoteJournal interface {

	// Initialize sets up the schema.
	Initialize() error

	// Append records one fetched quote.
	Append(entry models.MJournalEntry) error

	// Close the underlying connection.
	Close() error
}

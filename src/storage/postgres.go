package storage

import (
	"database/sql"
	"fmt"

	"market-gateway/src/logger"
	"market-gateway/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

// PostgresJournal appends fetched quotes to a Postgres table, for setups
// where the journal outlives the host.
type PostgresJournal struct {
	Config *models.MStorageConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresJournal(cfg *models.MStorageConfig, log *logger.Logger) (*PostgresJournal, error) {
	return &PostgresJournal{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (j *PostgresJournal) Initialize() error {
	db, err := sql.Open("postgres", j.Config.DBConnectionString)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	j.DB = db

	query := `
		CREATE TABLE IF NOT EXISTS quote_journal (
			id BIGSERIAL PRIMARY KEY,
			trading_symbol TEXT,
			ltp DOUBLE PRECISION,
			raw TEXT,
			fetched_at BIGINT
		);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create quote_journal: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (j *PostgresJournal) Append(entry models.MJournalEntry) error {
	_, err := j.DB.Exec(
		"INSERT INTO quote_journal (trading_symbol, ltp, raw, fetched_at) VALUES ($1, $2, $3, $4)",
		entry.TradingSymbol, entry.LTP, entry.Raw, entry.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (j *PostgresJournal) Close() error {
	if j.DB == nil {
		return nil
	}
	return j.DB.Close()
}

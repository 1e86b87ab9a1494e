package storage

import (
	"database/sql"
	"fmt"

	"market-gateway/src/logger"
	"market-gateway/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

// SQLiteJournal appends fetched quotes to a local SQLite file.
type SQLiteJournal struct {
	Config *models.MStorageConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteJournal(cfg *models.MStorageConfig, log *logger.Logger) (*SQLiteJournal, error) {
	return &SQLiteJournal{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (j *SQLiteJournal) Initialize() error {
	db, err := sql.Open("sqlite", j.Config.DBPath)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	j.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		j.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		j.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS quote_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trading_symbol TEXT,
			ltp REAL,
			raw TEXT,
			fetched_at INTEGER
		);
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create quote_journal: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (j *SQLiteJournal) Append(entry models.MJournalEntry) error {
	_, err := j.DB.Exec(
		"INSERT INTO quote_journal (trading_symbol, ltp, raw, fetched_at) VALUES (?, ?, ?, ?)",
		entry.TradingSymbol, entry.LTP, entry.Raw, entry.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (j *SQLiteJournal) Close() error {
	if j.DB == nil {
		return nil
	}
	return j.DB.Close()
}

package storage

import (
	"database/sql"
	"fmt"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Begin() (*sql.Tx, error)
	Close() error
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS prices(
		symbol TEXT NOT NULL, day INTEGER NOT NULL, adj_close REAL NOT NULL,
		PRIMARY KEY(symbol, day)
	)`,
	`CREATE TABLE IF NOT EXISTS fetches(
		symbol TEXT PRIMARY KEY, start_day INTEGER, end_day INTEGER, fetched_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS runs(
		id INTEGER PRIMARY KEY AUTOINCREMENT, ran_at INTEGER, start_day INTEGER, end_day INTEGER, periods_per_year INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS run_results(
		run_id INTEGER REFERENCES runs(id), grp TEXT, symbol TEXT,
		expense_ratio REAL, annual_return REAL, final_growth REAL
	)`,
}

func InitSchema(db DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func NewStore(db DB) *Store { return &Store{db: db} }

// PricePoint is a cached adjusted close. Day is the unix time of UTC midnight.
type PricePoint struct {
	Day      int64
	AdjClose float64
}

// Coverage describes the last window fetched for a symbol.
type Coverage struct {
	Start, End int64
	FetchedAt  int64
}

// ReplacePrices swaps the cached history of symbol for pts. Adjusted closes are
// restated upstream after every distribution, so older rows are never merged.
func (s *Store) ReplacePrices(symbol string, cov Coverage, pts []PricePoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM prices WHERE symbol=?`, symbol); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO prices(symbol,day,adj_close) VALUES(?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range pts {
		if _, err := stmt.Exec(symbol, p.Day, p.AdjClose); err != nil {
			return fmt.Errorf("insert %s %d: %w", symbol, p.Day, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO fetches(symbol,start_day,end_day,fetched_at) VALUES(?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET start_day=excluded.start_day, end_day=excluded.end_day, fetched_at=excluded.fetched_at`,
		symbol, cov.Start, cov.End, cov.FetchedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// CoverageOf reports the last fetched window for symbol; ok is false when the symbol was never cached.
func (s *Store) CoverageOf(symbol string) (cov Coverage, ok bool, err error) {
	err = s.db.QueryRow(`SELECT start_day,end_day,fetched_at FROM fetches WHERE symbol=?`, symbol).
		Scan(&cov.Start, &cov.End, &cov.FetchedAt)
	if err == sql.ErrNoRows {
		return Coverage{}, false, nil
	}
	if err != nil {
		return Coverage{}, false, err
	}
	return cov, true, nil
}

func (s *Store) LoadPrices(symbol string, start, end int64) ([]PricePoint, error) {
	rows, err := s.db.Query(`SELECT day,adj_close FROM prices WHERE symbol=? AND day>=? AND day<=? ORDER BY day ASC`,
		symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.Day, &p.AdjClose); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Package store handles SQLite persistence for usage statistics.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkruglikov/decalc/internal/calc"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the append-only calculation log. Unlike the
// history ledger it is never evicted and not part of undo.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS calculations (
			id INTEGER PRIMARY KEY,
			operation TEXT NOT NULL,
			operandx TEXT NOT NULL,
			operandy TEXT NOT NULL,
			result TEXT NOT NULL,
			precision INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_operation ON calculations(operation);`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_recorded_at ON calculations(recorded_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertCalculation appends one executed calculation to the log.
func (s *Store) InsertCalculation(ctx context.Context, rec calc.Calculation) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO calculations (operation, operandx, operandy, result, precision, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Operation,
		rec.OperandX.String(),
		rec.OperandY.String(),
		rec.Result.String(),
		rec.Precision,
		rec.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// OperationStat aggregates usage for one operation.
type OperationStat struct {
	Operation string
	Count     int64
	LastUsed  time.Time
}

// ListOperationStats returns per-operation usage, most used first.
func (s *Store) ListOperationStats(ctx context.Context) ([]OperationStat, error) {
	query := `SELECT operation, COUNT(*) AS uses, MAX(recorded_at) AS last_used
		FROM calculations
		GROUP BY operation
		ORDER BY uses DESC, operation ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []OperationStat
	for rows.Next() {
		var stat OperationStat
		var lastUsed string
		if err := rows.Scan(&stat.Operation, &stat.Count, &lastUsed); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, lastUsed)
		if err != nil {
			return nil, err
		}
		stat.LastUsed = parsed
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListRecent returns the most recently recorded calculations, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]calc.Calculation, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `SELECT operation, operandx, operandy, result, precision, recorded_at
		FROM calculations
		ORDER BY id DESC
		LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []calc.Calculation
	for rows.Next() {
		var rec calc.Calculation
		var x, y, res, recordedAt string
		if err := rows.Scan(&rec.Operation, &x, &y, &res, &rec.Precision, &recordedAt); err != nil {
			return nil, err
		}
		if rec.OperandX, err = decimal.NewFromString(x); err != nil {
			return nil, err
		}
		if rec.OperandY, err = decimal.NewFromString(y); err != nil {
			return nil, err
		}
		if rec.Result, err = decimal.NewFromString(res); err != nil {
			return nil, err
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

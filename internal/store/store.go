// Package store persists calculator history in a SQLite database so the
// calc CLI can show calculations across invocations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"calcforge/internal/calculator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Record is a persisted calculation.
type Record struct {
	ID         int64
	SessionID  string
	Calculator string
	Entry      calculator.Entry
}

// String renders the record's calculation.
func (r Record) String() string {
	return r.Entry.String()
}

// HistoryStore is a SQLite-backed calculation log.
type HistoryStore struct {
	db     *sql.DB
	dbPath string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSessionID returns a fresh identifier grouping one run's calculations.
func NewSessionID() string {
	return uuid.NewString()
}

// Open creates or opens the history database at dbPath.
func Open(ctx context.Context, dbPath string, logger *zap.Logger) (*HistoryStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &HistoryStore{
		db:     db,
		dbPath: dbPath,
		logger: logger.Named("store").With(zap.String("db", dbPath)),
	}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *HistoryStore) Path() string {
	return s.dbPath
}

func (s *HistoryStore) initSchema(ctx context.Context) error {
	stmts := []string{
		`PRAGMA busy_timeout = 5000`,
		`CREATE TABLE IF NOT EXISTS calculations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			calculator TEXT NOT NULL,
			op TEXT NOT NULL,
			operands_json TEXT NOT NULL,
			result TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_session ON calculations(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_created ON calculations(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Append stores entries produced by the named calculator in one
// transaction.
func (s *HistoryStore) Append(ctx context.Context, sessionID, calcName string, entries ...calculator.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO calculations (session_id, calculator, op, operands_json, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		operands, err := encodeOperands(e.Operands)
		if err != nil {
			return err
		}
		at := e.At
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, sessionID, calcName, string(e.Op), operands,
			strconv.FormatFloat(e.Result, 'g', -1, 64), at.UnixNano()); err != nil {
			return fmt.Errorf("failed to insert calculation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Debug("history appended", zap.String("session", sessionID), zap.Int("entries", len(entries)))
	return nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, calculator, op, operands_json, result, created_at
		FROM calculations
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r        Record
			op       string
			operands string
			result   string
			created  int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Calculator, &op, &operands, &result, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.Entry.Op = calculator.Op(op)
		if r.Entry.Operands, err = decodeOperands(operands); err != nil {
			return nil, fmt.Errorf("corrupt operands in row %d: %w", r.ID, err)
		}
		if r.Entry.Result, err = strconv.ParseFloat(result, 64); err != nil {
			return nil, fmt.Errorf("corrupt result in row %d: %w", r.ID, err)
		}
		r.Entry.At = time.Unix(0, created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored calculations.
func (s *HistoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calculations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Clear deletes all stored calculations and reports how many were removed.
func (s *HistoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM calculations`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Info("history cleared", zap.Int64("removed", n))
	return n, nil
}

// encodeOperands stores operands as strings so infinities survive JSON.
func encodeOperands(ops []float64) (string, error) {
	strs := make([]string, len(ops))
	for i, v := range ops {
		strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	data, err := json.Marshal(strs)
	if err != nil {
		return "", fmt.Errorf("failed to encode operands: %w", err)
	}
	return string(data), nil
}

func decodeOperands(raw string) ([]float64, error) {
	var strs []string
	if err := json.Unmarshal([]byte(raw), &strs); err != nil {
		return nil, err
	}
	ops := make([]float64, len(strs))
	for i, v := range strs {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		ops[i] = f
	}
	return ops, nil
}

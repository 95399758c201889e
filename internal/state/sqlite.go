package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/atalib94/procedure-tracker-sub001/internal/review"
	"github.com/atalib94/procedure-tracker-sub001/internal/telemetry"
)

// ledgerKey is the well-known key the serialized ledger lives under.
// Changing it orphans existing progress.
const ledgerKey = "procedure_quiz_progress"

// SQLiteStore persists the ledger as a single JSON blob in a key/value
// table. Every save overwrites the whole blob; there are no deltas and
// no transaction log.
type SQLiteStore struct {
	db     *sql.DB
	logger *telemetry.JSONLogger
}

func NewSQLite(path string, logger *telemetry.JSONLogger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// LoadLedger reads the serialized ledger. An absent row yields an empty
// ledger. A blob that cannot be decoded, or that lacks the progress
// map, is discarded in favor of an empty ledger: older stored shapes
// degrade to "start fresh" rather than failing startup. The recovery is
// logged so it stays observable.
func (s *SQLiteStore) LoadLedger(ctx context.Context) (*review.Ledger, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, ledgerKey)
	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return review.NewLedger(), nil
		}
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &shape); err != nil {
		return s.recoverEmpty("undecodable"), nil
	}
	if _, ok := shape["progress"]; !ok {
		return s.recoverEmpty("missing progress map"), nil
	}

	ledger := review.NewLedger()
	if err := json.Unmarshal([]byte(raw), ledger); err != nil {
		return s.recoverEmpty("unexpected field types"), nil
	}
	if ledger.Progress == nil {
		return s.recoverEmpty("null progress map"), nil
	}
	if ledger.Sessions == nil {
		ledger.Sessions = []review.StudySession{}
	}
	return ledger, nil
}

func (s *SQLiteStore) recoverEmpty(reason string) *review.Ledger {
	s.logger.Warn("stored progress blob discarded", map[string]any{"reason": reason})
	return review.NewLedger()
}

func (s *SQLiteStore) SaveLedger(ctx context.Context, ledger *review.Ledger) error {
	b, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO app_state(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, ledgerKey, string(b)); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

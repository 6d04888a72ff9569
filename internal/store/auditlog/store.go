package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tradepulse/internal/store"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Store reads the engine's audit_order_executions table: one row per order
// submission attempt, including the ones the broker rejected with an error
// message. Kept on plain database/sql because the table is written by the
// engine and only ever scanned here.
type Store struct {
	db     *sql.DB
	path   string
	ownsDB bool
}

// ExecutionRecord is one audited order submission.
type ExecutionRecord struct {
	ExecutionID    string           `json:"executionId"`
	Symbol         string           `json:"symbol"`
	Contract       string           `json:"contract,omitempty"`
	Side           string           `json:"side"`
	Qty            *decimal.Decimal `json:"qty"`
	OrderType      string           `json:"orderType"`
	BrokerOrderID  string           `json:"brokerOrderId,omitempty"`
	Status         string           `json:"status"`
	FilledQty      *decimal.Decimal `json:"filledQty"`
	FilledAvgPrice *decimal.Decimal `json:"filledAvgPrice"`
	ErrorMessage   string           `json:"errorMessage,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("audit log path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, path: path, ownsDB: true}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreFromDB wraps an existing handle (shared connections, tests).
func NewStoreFromDB(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS audit_order_executions (
	execution_id     TEXT PRIMARY KEY,
	symbol           TEXT,
	contract         TEXT,
	side             TEXT,
	qty              REAL,
	order_type       TEXT,
	broker_order_id  TEXT,
	status           TEXT,
	filled_qty       REAL,
	filled_avg_price REAL,
	error_message    TEXT,
	created_at       TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_order_executions(created_at);`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// ListRecent returns the newest executions, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]ExecutionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT execution_id, symbol, contract, side, qty, order_type, broker_order_id,
       status, filled_qty, filled_avg_price, error_message, created_at
FROM audit_order_executions
ORDER BY created_at DESC
LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit executions: %w: %w", store.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []ExecutionRecord
	for rows.Next() {
		var (
			rec                      ExecutionRecord
			contract, brokerID, msg  sql.NullString
			qty, filledQty, avgPrice sql.NullFloat64
			createdAt                sql.NullTime
		)
		if err := rows.Scan(&rec.ExecutionID, &rec.Symbol, &contract, &rec.Side, &qty,
			&rec.OrderType, &brokerID, &rec.Status, &filledQty, &avgPrice, &msg, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit execution: %w: %w", store.ErrUnavailable, err)
		}
		rec.Contract = contract.String
		rec.BrokerOrderID = brokerID.String
		rec.ErrorMessage = msg.String
		rec.Qty = optDecimal(qty)
		rec.FilledQty = optDecimal(filledQty)
		rec.FilledAvgPrice = optDecimal(avgPrice)
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit executions: %w: %w", store.ErrUnavailable, err)
	}
	return out, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil || !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func optDecimal(v sql.NullFloat64) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := decimal.NewFromFloat(v.Float64)
	return &d
}

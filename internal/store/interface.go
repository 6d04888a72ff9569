package store

import (
	"context"
	"errors"
	"time"

	"tradepulse/internal/analytics"

	"github.com/shopspring/decimal"
)

// ErrUnavailable marks a failed ledger read. It is fatal for the request
// that triggered it; callers surface it instead of retrying.
var ErrUnavailable = errors.New("ledger store unavailable")

// SignalSnapshot is the newest signal row with its opaque indicator payload.
type SignalSnapshot struct {
	Symbol     string
	Timestamp  time.Time
	Close      *decimal.Decimal
	Indicators []byte
}

// OrderLedger is the read-only query surface over the engine's order rows.
// Every listing returns rows ordered by timestamp descending with the
// insertion sequence as secondary sort, so duplicate timestamps keep a
// deterministic relative order.
type OrderLedger interface {
	ListOrders(ctx context.Context, page, pageSize int) ([]analytics.OrderStateRow, error)
	ListOrdersByStates(ctx context.Context, states ...string) ([]analytics.OrderStateRow, error)
	ListAllOrders(ctx context.Context) ([]analytics.OrderStateRow, error)
	LatestOrderTimestamp(ctx context.Context) (*time.Time, error)
	CountActiveOrders(ctx context.Context) (int64, error)
}

// SignalLedger is the read-only query surface over the engine's signal rows.
type SignalLedger interface {
	LatestSignal(ctx context.Context) (*SignalSnapshot, error)
	LatestSignalTimestamp(ctx context.Context) (*time.Time, error)
	CountSignalsSince(ctx context.Context, since time.Time) (int64, error)
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tradepulse/internal/store/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LedgerStore {
	t.Helper()
	s, err := NewLedgerStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedOrder(t *testing.T, s *LedgerStore, orderID, state string, at time.Time) {
	t.Helper()
	qty := decimal.NewFromInt(1)
	row := model.OrderStateModel{
		OrderID:   orderID,
		Symbol:    "SPY",
		Action:    "buy",
		Qty:       decimal.NullDecimal{Decimal: qty, Valid: true},
		State:     state,
		Timestamp: &at,
	}
	require.NoError(t, s.db.Create(&row).Error)
}

func TestLedgerStore_ListAllOrders_RecencyOrder(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	seedOrder(t, s, "a", "pending", base)
	seedOrder(t, s, "b", "active", base.Add(2*time.Minute))
	seedOrder(t, s, "c", "filled", base.Add(1*time.Minute))

	rows, err := s.ListAllOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].OrderID)
	assert.Equal(t, "c", rows[1].OrderID)
	assert.Equal(t, "a", rows[2].OrderID)
}

func TestLedgerStore_DuplicateTimestampsKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	seedOrder(t, s, "x", "pending", at)
	seedOrder(t, s, "x", "active", at)

	rows, err := s.ListAllOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Last inserted row comes first: the secondary sort is the insertion
	// sequence, descending.
	assert.Equal(t, "active", rows[0].State)
	assert.Equal(t, "pending", rows[1].State)
}

func TestLedgerStore_ListOrders_Pagination(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedOrder(t, s, uuid.NewString(), "filled", base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := s.ListOrders(context.Background(), 1, 2)
	require.NoError(t, err)
	page2, err := s.ListOrders(context.Background(), 2, 2)
	require.NoError(t, err)
	page3, err := s.ListOrders(context.Background(), 3, 2)
	require.NoError(t, err)

	assert.Len(t, page1, 2)
	assert.Len(t, page2, 2)
	assert.Len(t, page3, 1)
	assert.True(t, page1[0].Timestamp.After(page1[1].Timestamp))
	assert.True(t, page1[1].Timestamp.After(page2[0].Timestamp))
}

func TestLedgerStore_ListOrdersByStates(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	seedOrder(t, s, "a", "Rejected", base)
	seedOrder(t, s, "b", "canceled", base.Add(time.Minute))
	seedOrder(t, s, "c", "filled", base.Add(2*time.Minute))

	rows, err := s.ListOrdersByStates(context.Background(), "rejected", "CANCELED")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].OrderID)
	assert.Equal(t, "a", rows[1].OrderID)
}

func TestLedgerStore_CountActiveOrders(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	seedOrder(t, s, "a", "active", base)
	seedOrder(t, s, "b", "OPEN", base)
	seedOrder(t, s, "c", "filled", base)

	count, err := s.CountActiveOrders(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestLedgerStore_LatestOrderTimestamp_Empty(t *testing.T) {
	s := newTestStore(t)
	ts, err := s.LatestOrderTimestamp(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ts)
}

func TestLedgerStore_Signals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sig, err := s.LatestSignal(ctx)
	require.NoError(t, err)
	assert.Nil(t, sig)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		row := model.SignalModel{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Symbol:     "SPY",
			Close:      decimal.NullDecimal{Decimal: decimal.NewFromInt(500), Valid: true},
			Indicators: []byte(`{"kf_regime":"up","kf_velocity":0.42}`),
		}
		require.NoError(t, s.db.Create(&row).Error)
	}

	sig, err = s.LatestSignal(ctx)
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, base.Add(2*time.Minute), sig.Timestamp.UTC())
	assert.JSONEq(t, `{"kf_regime":"up","kf_velocity":0.42}`, string(sig.Indicators))

	count, err := s.CountSignalsSince(ctx, base.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	ts, err := s.LatestSignalTimestamp(ctx)
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, base.Add(2*time.Minute), ts.UTC())
}

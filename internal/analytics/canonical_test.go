package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func ts(minute int) time.Time {
	return time.Date(2026, 3, 14, 9, minute, 0, 0, time.UTC)
}

func TestCanonicalize_PrefersNonPendingRow(t *testing.T) {
	rows := []OrderStateRow{
		{OrderID: "A", State: "pending", Timestamp: ts(1)},
		{OrderID: "A", State: "active", Timestamp: ts(2)},
	}

	out := Canonicalize(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "active", out[0].State)
	assert.Equal(t, BucketActive, out[0].Bucket)
}

func TestCanonicalize_AllPendingKeepsNewest(t *testing.T) {
	rows := []OrderStateRow{
		{OrderID: "B", State: "pending", Timestamp: ts(1)},
	}

	out := Canonicalize(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "pending", out[0].State)
	assert.Equal(t, BucketOutstanding, out[0].Bucket)

	rows = append(rows, OrderStateRow{OrderID: "B", State: "Pending", Timestamp: ts(5)})
	out = Canonicalize(rows)
	require.Len(t, out, 1)
	assert.Equal(t, ts(5), out[0].Timestamp, "newest pending row should win")
}

func TestCanonicalize_SortsDefensively(t *testing.T) {
	// Caller hands rows oldest-first; the newest resolved state must still win.
	rows := []OrderStateRow{
		{OrderID: "C", State: "active", Timestamp: ts(1)},
		{OrderID: "C", State: "filled", Timestamp: ts(9)},
		{OrderID: "C", State: "pending", Timestamp: ts(10)},
	}

	out := Canonicalize(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "filled", out[0].State)
}

func TestCanonicalize_DropsRowsWithoutID(t *testing.T) {
	rows := []OrderStateRow{
		{OrderID: "", State: "active", Timestamp: ts(2)},
		{OrderID: "D", State: "filled", Timestamp: ts(1)},
	}

	out := Canonicalize(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "D", out[0].OrderID)
}

func TestCanonicalize_Idempotent(t *testing.T) {
	rows := []OrderStateRow{
		{OrderID: "A", State: "filled", RealizedProfit: dec(3), Timestamp: ts(4)},
		{OrderID: "B", State: "active", Timestamp: ts(3)},
		{OrderID: "C", State: "pending", Timestamp: ts(2)},
	}

	first := Canonicalize(rows)
	require.Len(t, first, 3)

	again := make([]OrderStateRow, 0, len(first))
	for _, c := range first {
		again = append(again, c.OrderStateRow)
	}
	second := Canonicalize(again)
	assert.Equal(t, first, second)
}

func TestCanonicalize_OneCanonicalPerID(t *testing.T) {
	rows := []OrderStateRow{
		{OrderID: "A", State: "pending", Timestamp: ts(1)},
		{OrderID: "B", State: "pending", Timestamp: ts(2)},
		{OrderID: "A", State: "rejected", Timestamp: ts(3)},
		{OrderID: "B", State: "filled", Timestamp: ts(4)},
		{OrderID: "A", State: "canceled", Timestamp: ts(5)},
	}

	out := Canonicalize(rows)
	require.Len(t, out, 2)
	seen := map[string]string{}
	for _, c := range out {
		seen[c.OrderID] = c.State
	}
	// Any group containing a non-pending row must resolve to a non-pending state.
	assert.Equal(t, "canceled", seen["A"])
	assert.Equal(t, "filled", seen["B"])
}

func TestCanonicalize_SingleRowGroupUnchanged(t *testing.T) {
	row := OrderStateRow{
		OrderID:      "E",
		Symbol:       "SPY",
		Side:         "buy",
		Quantity:     dec(5),
		EntryPrice:   dec(10),
		CurrentPrice: dec(11),
		State:        "open",
		Timestamp:    ts(7),
	}

	out := Canonicalize([]OrderStateRow{row})
	require.Len(t, out, 1)
	assert.Equal(t, row, out[0].OrderStateRow)
}

func TestCanonicalize_Empty(t *testing.T) {
	assert.Nil(t, Canonicalize(nil))
	assert.Nil(t, Canonicalize([]OrderStateRow{}))
}

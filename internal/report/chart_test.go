package report

import (
	"bytes"
	"testing"
	"time"

	"tradepulse/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(symbol string, pnl float64, at time.Time) service.OrderRecord {
	p := decimal.NewFromFloat(pnl)
	return service.OrderRecord{
		OrderID:        symbol + "-1",
		Symbol:         symbol,
		State:          "closed",
		RealizedProfit: &p,
		Timestamp:      &at,
	}
}

func TestRenderPnlHistory(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	records := []service.OrderRecord{
		rec("spy", 5, base),
		rec("qqq", -2, base.Add(time.Hour)),
		rec("iwm", 3, base.Add(2*time.Hour)),
	}

	var buf bytes.Buffer
	err := RenderPnlHistory(&buf, records)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Cumulative Realized PnL")
	assert.Contains(t, html, "PnL Per Trade")
	assert.Contains(t, html, "3 completed trades, net 6.00")
	assert.Contains(t, html, "SPY 03-14 09:00")
}

func TestRenderPnlHistory_NilProfitCountsAsZero(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	records := []service.OrderRecord{rec("spy", 5, base)}
	records = append(records, service.OrderRecord{OrderID: "x", Symbol: "qqq", State: "closed"})

	var buf bytes.Buffer
	err := RenderPnlHistory(&buf, records)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "net 5.00")
}

func TestRenderPnlHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPnlHistory(&buf, nil)
	assert.Error(t, err)
}

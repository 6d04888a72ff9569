package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func completed(id string, profit *decimal.Decimal) ReconciledOrder {
	return ReconciledOrder{
		Order: CanonicalOrder{
			OrderStateRow: OrderStateRow{OrderID: id, State: "filled", RealizedProfit: profit},
			Bucket:        BucketCompleted,
		},
		State:  "filled",
		Bucket: BucketCompleted,
	}
}

func active(id string, pnl decimal.Decimal) ReconciledOrder {
	return ReconciledOrder{
		Order: CanonicalOrder{
			OrderStateRow: OrderStateRow{OrderID: id, State: "active"},
			Bucket:        BucketActive,
		},
		State:  "active",
		Bucket: BucketActive,
		PnL:    pnl,
	}
}

func TestComputeStatistics_WinRateAndAverageProfit(t *testing.T) {
	orders := []ReconciledOrder{
		completed("c1", dec(5)),
		completed("c2", dec(-2)),
		completed("c3", dec(3)),
		completed("c4", dec(0)),
	}
	// Six more canonical orders without a realized-profit value.
	for i, st := range []string{"active", "open", "pending", "new", "rejected", "zzz"} {
		orders = append(orders, ReconciledOrder{
			Order:  CanonicalOrder{OrderStateRow: OrderStateRow{OrderID: string(rune('p' + i)), State: st}},
			State:  st,
			Bucket: ClassifyState(st),
		})
	}

	stats := ComputeStatistics(orders)
	assert.Equal(t, 10, stats.TotalOrders)
	assert.Equal(t, 4, stats.CompletedOrders)
	assert.InDelta(t, 50.0, stats.WinRate, 1e-9)
	assert.True(t, stats.AverageProfitPerTrade.Equal(decimal.NewFromFloat(1.5)),
		"got %s", stats.AverageProfitPerTrade)
	assert.True(t, stats.TotalRealizedPnl.Equal(decimal.NewFromInt(6)))
}

func TestComputeStatistics_BucketCountsSumToTotal(t *testing.T) {
	states := []string{"active", "open", "filled", "closed", "pending-closed",
		"rejected", "canceled", "pending", "new", "garbage", "", "ACTIVE"}
	orders := make([]ReconciledOrder, 0, len(states))
	for i, st := range states {
		orders = append(orders, ReconciledOrder{
			Order:  CanonicalOrder{OrderStateRow: OrderStateRow{OrderID: string(rune('a' + i)), State: st}},
			State:  st,
			Bucket: ClassifyState(st),
		})
	}

	stats := ComputeStatistics(orders)
	unclassified := stats.TotalOrders - stats.ActiveOrders - stats.CompletedOrders -
		stats.RejectedOrders - stats.OutstandingOrders
	assert.Equal(t, len(states), stats.TotalOrders)
	assert.Equal(t, 3, stats.ActiveOrders, "case-insensitive token match")
	assert.Equal(t, 2, unclassified)
}

func TestComputeStatistics_ZeroDenominators(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		stats := ComputeStatistics(nil)
		assert.Zero(t, stats.WinRate)
		assert.True(t, stats.AverageProfitPerTrade.IsZero())
	})

	t.Run("completed orders without profit values", func(t *testing.T) {
		stats := ComputeStatistics([]ReconciledOrder{completed("c1", nil), completed("c2", nil)})
		assert.Zero(t, stats.WinRate)
		assert.True(t, stats.AverageProfitPerTrade.IsZero())
	})
}

func TestComputeStatistics_UnrealizedSumsActiveOnly(t *testing.T) {
	orders := []ReconciledOrder{
		active("a1", decimal.NewFromInt(10)),
		active("a2", decimal.NewFromInt(-4)),
		completed("c1", dec(50)),
	}

	stats := ComputeStatistics(orders)
	assert.True(t, stats.TotalUnrealizedPnl.Equal(decimal.NewFromInt(6)), "got %s", stats.TotalUnrealizedPnl)
}

func TestComputeDashboard_YearToDate(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	thisYear := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	lastYear := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)

	orders := []ReconciledOrder{
		{
			Order: CanonicalOrder{OrderStateRow: OrderStateRow{
				OrderID: "a1", State: "active", Quantity: dec(2),
				EntryPrice: dec(100), CurrentPrice: dec(110), Timestamp: thisYear,
			}, Bucket: BucketActive},
			State: "active", Bucket: BucketActive,
		},
		{
			Order: CanonicalOrder{OrderStateRow: OrderStateRow{
				OrderID: "c1", State: "filled", Quantity: dec(1),
				EntryPrice: dec(50), RealizedProfit: dec(30), Timestamp: thisYear,
			}, Bucket: BucketCompleted},
			State: "filled", Bucket: BucketCompleted,
		},
		{
			// Last year's order contributes nothing.
			Order: CanonicalOrder{OrderStateRow: OrderStateRow{
				OrderID: "old", State: "active", Quantity: dec(10),
				EntryPrice: dec(100), CurrentPrice: dec(200), RealizedProfit: dec(500), Timestamp: lastYear,
			}, Bucket: BucketActive},
			State: "active", Bucket: BucketActive,
		},
	}

	start := now.Add(-90 * time.Minute)
	sum := ComputeDashboard(orders, 15, start, now)

	// gross = 110*2, realized = 30, unrealized = (110-100)*2, invested = 100*2+50*1
	assert.True(t, sum.GrossPortfolio.Equal(decimal.NewFromInt(220)), "got %s", sum.GrossPortfolio)
	assert.True(t, sum.YtdPnl.Equal(decimal.NewFromInt(50)), "got %s", sum.YtdPnl)
	assert.True(t, sum.YtdReturnPercent.Equal(decimal.NewFromInt(20)), "got %s", sum.YtdReturnPercent)
	assert.InDelta(t, 3.0, sum.TradesPerMinute, 1e-9)
	assert.Equal(t, 90*time.Minute, sum.Uptime)
}

func TestComputeDashboard_ZeroInvestedCapital(t *testing.T) {
	now := time.Now().UTC()
	sum := ComputeDashboard(nil, 0, now, now)
	assert.True(t, sum.YtdReturnPercent.IsZero())
	assert.True(t, sum.GrossPortfolio.IsZero())
	assert.Zero(t, sum.TradesPerMinute)
}

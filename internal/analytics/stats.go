package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatistics is the portfolio-level aggregate over reconciled orders.
type OrderStatistics struct {
	TotalOrders           int             `json:"totalOrders"`
	ActiveOrders          int             `json:"activeOrders"`
	CompletedOrders       int             `json:"completedOrders"`
	RejectedOrders        int             `json:"rejectedOrders"`
	OutstandingOrders     int             `json:"outstandingOrders"`
	TotalRealizedPnl      decimal.Decimal `json:"totalRealizedPnl"`
	TotalUnrealizedPnl    decimal.Decimal `json:"totalUnrealizedPnl"`
	WinRate               float64         `json:"winRate"`
	AverageProfitPerTrade decimal.Decimal `json:"averageProfitPerTrade"`
}

// DashboardSummary holds the year-to-date portfolio figures for the
// dashboard. Timestamps outside the current calendar year (Jan 1 00:00 UTC
// boundary) are excluded from every sum.
type DashboardSummary struct {
	GrossPortfolio   decimal.Decimal `json:"grossPortfolio"`
	YtdPnl           decimal.Decimal `json:"ytdPnl"`
	YtdReturnPercent decimal.Decimal `json:"ytdReturnPercent"`
	TradesPerMinute  float64         `json:"tradesPerMinute"`
	Uptime           time.Duration   `json:"-"`
}

// ComputeStatistics derives bucket counts, PnL sums, win rate and average
// profit in a single pass. Win rate counts only completed orders that carry
// a realized-profit value; both ratios are zero when their denominator is.
func ComputeStatistics(orders []ReconciledOrder) OrderStatistics {
	stats := OrderStatistics{
		TotalOrders:           len(orders),
		TotalRealizedPnl:      decimal.Zero,
		TotalUnrealizedPnl:    decimal.Zero,
		AverageProfitPerTrade: decimal.Zero,
	}

	profitBearing := 0
	wins := 0
	for _, ord := range orders {
		switch ord.Bucket {
		case BucketActive:
			stats.ActiveOrders++
			stats.TotalUnrealizedPnl = stats.TotalUnrealizedPnl.Add(ord.PnL)
		case BucketCompleted:
			stats.CompletedOrders++
		case BucketRejected:
			stats.RejectedOrders++
		case BucketOutstanding:
			stats.OutstandingOrders++
		}

		if ord.Order.RealizedProfit != nil {
			stats.TotalRealizedPnl = stats.TotalRealizedPnl.Add(*ord.Order.RealizedProfit)
			if ord.Bucket == BucketCompleted {
				profitBearing++
				if ord.Order.RealizedProfit.IsPositive() {
					wins++
				}
			}
		}
	}

	if profitBearing > 0 {
		stats.WinRate = float64(wins) / float64(profitBearing) * 100
	}
	if stats.CompletedOrders > 0 {
		stats.AverageProfitPerTrade = stats.TotalRealizedPnl.
			Div(decimal.NewFromInt(int64(stats.CompletedOrders)))
	}
	return stats
}

// ComputeDashboard derives the year-to-date dashboard figures. now fixes the
// calendar-year boundary and signalCount5Min feeds the trades-per-minute
// estimate (signals over the trailing five minutes).
func ComputeDashboard(orders []ReconciledOrder, signalCount5Min int, startupTime, now time.Time) DashboardSummary {
	yearStart := time.Date(now.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	gross := decimal.Zero
	ytdRealized := decimal.Zero
	ytdUnrealized := decimal.Zero
	ytdInvested := decimal.Zero

	for _, ord := range orders {
		ts := ord.Order.Timestamp
		if ts.IsZero() || ts.Before(yearStart) {
			continue
		}
		qty := value(ord.Order.Quantity)
		entry := value(ord.Order.EntryPrice)
		ytdInvested = ytdInvested.Add(entry.Mul(qty))
		if ord.Order.RealizedProfit != nil {
			ytdRealized = ytdRealized.Add(*ord.Order.RealizedProfit)
		}
		if ord.Bucket != BucketActive {
			continue
		}
		mark := entry
		if ord.Order.CurrentPrice != nil {
			mark = *ord.Order.CurrentPrice
		}
		gross = gross.Add(mark.Mul(qty))
		ytdUnrealized = ytdUnrealized.Add(value(ord.Order.CurrentPrice).Sub(entry).Mul(qty))
	}

	summary := DashboardSummary{
		GrossPortfolio:   gross,
		YtdPnl:           ytdRealized.Add(ytdUnrealized),
		YtdReturnPercent: decimal.Zero,
		TradesPerMinute:  float64(signalCount5Min) / 5.0,
		Uptime:           now.Sub(startupTime),
	}
	if ytdInvested.IsPositive() {
		summary.YtdReturnPercent = summary.YtdPnl.Div(ytdInvested).Mul(decimal.NewFromInt(100))
	}
	return summary
}

package service

import (
	"time"

	"tradepulse/internal/analytics"

	"github.com/shopspring/decimal"
)

// OrderRecord is the externally visible view of one reconciled order.
type OrderRecord struct {
	OrderID        string           `json:"orderId"`
	BrokerOrderID  string           `json:"brokerOrderId,omitempty"`
	Symbol         string           `json:"symbol"`
	OptionType     string           `json:"optionType,omitempty"`
	Side           string           `json:"side"`
	Quantity       *decimal.Decimal `json:"quantity"`
	EntryPrice     *decimal.Decimal `json:"entryPrice"`
	CurrentPrice   *decimal.Decimal `json:"currentPrice"`
	State          string           `json:"state"`
	RealizedProfit *decimal.Decimal `json:"realizedProfit"`
	UnrealizedPnl  decimal.Decimal  `json:"unrealizedPnl"`
	Timestamp      *time.Time       `json:"timestamp"`
}

// DashboardMetrics is the composite dashboard payload.
type DashboardMetrics struct {
	EngineHealth     analytics.EngineHealth `json:"engineHealth"`
	GrossPortfolio   decimal.Decimal        `json:"grossPortfolio"`
	YtdPnl           decimal.Decimal        `json:"ytdPnl"`
	YtdReturnPercent decimal.Decimal        `json:"ytdReturnPercent"`
	TradesPerMinute  float64                `json:"tradesPerMinute"`
	ClusterUptime    string                 `json:"clusterUptime"`
	LastUpdated      time.Time              `json:"lastUpdated"`
}

// SignalSummary is the newest signal row with the Kalman fields pulled out
// of the opaque indicator payload.
type SignalSummary struct {
	Symbol     string           `json:"symbol"`
	Timestamp  time.Time        `json:"timestamp"`
	Close      *decimal.Decimal `json:"close"`
	KfRegime   string           `json:"kfRegime,omitempty"`
	KfSignal   string           `json:"kfSignal,omitempty"`
	KfVelocity *float64         `json:"kfVelocity,omitempty"`
}

func toOrderRecord(rec analytics.ReconciledOrder) OrderRecord {
	out := OrderRecord{
		OrderID:        rec.Order.OrderID,
		BrokerOrderID:  rec.Order.BrokerOrderID,
		Symbol:         rec.Order.Symbol,
		OptionType:     rec.Order.OptionType,
		Side:           rec.Order.Side,
		Quantity:       rec.Order.Quantity,
		EntryPrice:     rec.Order.EntryPrice,
		CurrentPrice:   rec.Order.CurrentPrice,
		State:          rec.State,
		RealizedProfit: rec.Order.RealizedProfit,
		UnrealizedPnl:  rec.PnL,
	}
	if !rec.Order.Timestamp.IsZero() {
		ts := rec.Order.Timestamp
		out.Timestamp = &ts
	}
	return out
}

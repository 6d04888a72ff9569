package alpaca

import (
	"time"

	"tradepulse/internal/analytics"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"
)

// AccountInfo is the brokerage account snapshot exposed to callers.
type AccountInfo struct {
	AccountID        string          `json:"accountId"`
	Status           string          `json:"status"`
	Currency         string          `json:"currency"`
	Cash             decimal.Decimal `json:"cash"`
	PortfolioValue   decimal.Decimal `json:"portfolioValue"`
	BuyingPower      decimal.Decimal `json:"buyingPower"`
	DaytradeCount    int64           `json:"daytradeCount"`
	TradingBlocked   bool            `json:"tradingBlocked"`
	TransfersBlocked bool            `json:"transfersBlocked"`
	AccountBlocked   bool            `json:"accountBlocked"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Position is one live broker position.
type Position struct {
	Symbol           string           `json:"symbol"`
	Qty              decimal.Decimal  `json:"quantity"`
	Side             string           `json:"side"`
	AvgEntryPrice    decimal.Decimal  `json:"averageEntryPrice"`
	CurrentPrice     *decimal.Decimal `json:"currentPrice"`
	MarketValue      *decimal.Decimal `json:"marketValue"`
	CostBasis        decimal.Decimal  `json:"costBasis"`
	UnrealizedPnl    *decimal.Decimal `json:"unrealizedPnl"`
	UnrealizedPnlPct *decimal.Decimal `json:"unrealizedPnlPercent"`
}

func toBrokerOrder(o *alpaca.Order) analytics.BrokerOrder {
	return analytics.BrokerOrder{
		ID:             o.ID,
		Status:         string(o.Status),
		FilledQty:      o.FilledQty,
		FilledAvgPrice: o.FilledAvgPrice,
	}
}

func toAccountInfo(a *alpaca.Account) *AccountInfo {
	if a == nil {
		return nil
	}
	return &AccountInfo{
		AccountID:        a.ID,
		Status:           a.Status,
		Currency:         a.Currency,
		Cash:             a.Cash,
		PortfolioValue:   a.PortfolioValue,
		BuyingPower:      a.BuyingPower,
		DaytradeCount:    a.DaytradeCount,
		TradingBlocked:   a.TradingBlocked,
		TransfersBlocked: a.TransfersBlocked,
		AccountBlocked:   a.AccountBlocked,
		CreatedAt:        a.CreatedAt,
	}
}

func toPosition(p *alpaca.Position) Position {
	return Position{
		Symbol:           p.Symbol,
		Qty:              p.Qty,
		Side:             p.Side,
		AvgEntryPrice:    p.AvgEntryPrice,
		CurrentPrice:     p.CurrentPrice,
		MarketValue:      p.MarketValue,
		CostBasis:        p.CostBasis,
		UnrealizedPnl:    p.UnrealizedPL,
		UnrealizedPnlPct: p.UnrealizedPLPC,
	}
}

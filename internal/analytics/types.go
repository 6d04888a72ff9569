package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStateRow is one append-only observation of an order written by the
// upstream engine. The same OrderID may appear on many rows, each recording
// a state transition. Optional numeric fields are nil when the engine did
// not report them.
type OrderStateRow struct {
	OrderID        string
	BrokerOrderID  string
	Symbol         string
	OptionType     string
	Side           string
	Quantity       *decimal.Decimal
	EntryPrice     *decimal.Decimal
	CurrentPrice   *decimal.Decimal
	State          string
	RealizedProfit *decimal.Decimal
	Timestamp      time.Time
}

// CanonicalOrder is the single authoritative record selected from all rows
// sharing an order identifier. Bucket is assigned from the winning row's
// state token at canonicalization time.
type CanonicalOrder struct {
	OrderStateRow
	Bucket Bucket
}

// BrokerOrder is the live status the brokerage reports for one order.
type BrokerOrder struct {
	ID             string
	Status         string
	FilledQty      decimal.Decimal
	FilledAvgPrice *decimal.Decimal
}

// ReconciledOrder is a canonical order after the live broker snapshot has
// been merged in. State and PnL may differ from the ledger values.
type ReconciledOrder struct {
	Order  CanonicalOrder
	State  string
	Bucket Bucket
	PnL    decimal.Decimal
}

func value(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}

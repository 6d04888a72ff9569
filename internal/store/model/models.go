package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStateModel maps the engine's append-only realtime_orders table. The
// engine writes one row per state transition, so order_id repeats; the
// "index" column is the monotonically increasing insertion sequence and is
// the stable tie-breaker for rows sharing a timestamp.
type OrderStateModel struct {
	Index          int64               `gorm:"column:index;primaryKey;autoIncrement"`
	OrderID        string              `gorm:"column:order_id;index"`
	AlpacaOrderID  string              `gorm:"column:alpaca_order_id"`
	OptionType     string              `gorm:"column:option_type"`
	Symbol         string              `gorm:"column:symbol"`
	Action         string              `gorm:"column:action"`
	Qty            decimal.NullDecimal `gorm:"column:qty"`
	EntryPrice     decimal.NullDecimal `gorm:"column:entry_price"`
	CurrentPrice   decimal.NullDecimal `gorm:"column:current_price"`
	State          string              `gorm:"column:state"`
	RealizedProfit decimal.NullDecimal `gorm:"column:realized_profit"`
	Timestamp      *time.Time          `gorm:"column:timestamp;index"`
}

func (OrderStateModel) TableName() string { return "realtime_orders" }

// SignalModel maps the engine's realtime_signal_store table. Indicator and
// Kalman-filter outputs are opaque to this service and travel as one JSON
// payload; readers pull individual fields out with gjson.
type SignalModel struct {
	ID         int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp  time.Time           `gorm:"column:timestamp;index"`
	Symbol     string              `gorm:"column:symbol"`
	Close      decimal.NullDecimal `gorm:"column:close"`
	Indicators datatypes.JSON      `gorm:"column:indicators;type:TEXT"`
}

func (SignalModel) TableName() string { return "realtime_signal_store" }

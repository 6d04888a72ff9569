package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradepulse/internal/analytics"
	"tradepulse/internal/store"
	"tradepulse/internal/store/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Secondary sort on the insertion sequence keeps rows with duplicate
// timestamps in a deterministic order, which the canonicalizer's
// first-non-pending rule depends on.
const orderByRecency = `timestamp DESC, "index" DESC`

var _ store.OrderLedger = (*LedgerStore)(nil)

func (s *LedgerStore) ListOrders(ctx context.Context, page, pageSize int) ([]analytics.OrderStateRow, error) {
	var rows []model.OrderStateModel
	err := s.db.WithContext(ctx).
		Order(orderByRecency).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing orders page=%d: %w: %w", page, store.ErrUnavailable, err)
	}
	return toOrderRows(rows), nil
}

func (s *LedgerStore) ListOrdersByStates(ctx context.Context, states ...string) ([]analytics.OrderStateRow, error) {
	lowered := make([]string, 0, len(states))
	for _, st := range states {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(st)))
	}
	var rows []model.OrderStateModel
	err := s.db.WithContext(ctx).
		Where("LOWER(state) IN ?", lowered).
		Order(orderByRecency).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing orders by state %v: %w: %w", states, store.ErrUnavailable, err)
	}
	return toOrderRows(rows), nil
}

func (s *LedgerStore) ListAllOrders(ctx context.Context) ([]analytics.OrderStateRow, error) {
	var rows []model.OrderStateModel
	err := s.db.WithContext(ctx).
		Order(orderByRecency).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing all orders: %w: %w", store.ErrUnavailable, err)
	}
	return toOrderRows(rows), nil
}

func (s *LedgerStore) LatestOrderTimestamp(ctx context.Context) (*time.Time, error) {
	var row model.OrderStateModel
	err := s.db.WithContext(ctx).
		Where("timestamp IS NOT NULL").
		Order(orderByRecency).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest order: %w: %w", store.ErrUnavailable, err)
	}
	return row.Timestamp, nil
}

func (s *LedgerStore) CountActiveOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.OrderStateModel{}).
		Where("LOWER(state) IN ?", []string{"active", "open"}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting active orders: %w: %w", store.ErrUnavailable, err)
	}
	return count, nil
}

func toOrderRows(models []model.OrderStateModel) []analytics.OrderStateRow {
	rows := make([]analytics.OrderStateRow, 0, len(models))
	for _, m := range models {
		row := analytics.OrderStateRow{
			OrderID:        m.OrderID,
			BrokerOrderID:  m.AlpacaOrderID,
			Symbol:         m.Symbol,
			OptionType:     m.OptionType,
			Side:           m.Action,
			State:          m.State,
			Quantity:       nullable(m.Qty),
			EntryPrice:     nullable(m.EntryPrice),
			CurrentPrice:   nullable(m.CurrentPrice),
			RealizedProfit: nullable(m.RealizedProfit),
		}
		if m.Timestamp != nil {
			row.Timestamp = *m.Timestamp
		}
		rows = append(rows, row)
	}
	return rows
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradepulse/internal/store"
	"tradepulse/internal/store/model"

	"gorm.io/gorm"
)

var _ store.SignalLedger = (*LedgerStore)(nil)

func (s *LedgerStore) LatestSignal(ctx context.Context) (*store.SignalSnapshot, error) {
	var row model.SignalModel
	err := s.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest signal: %w: %w", store.ErrUnavailable, err)
	}
	return &store.SignalSnapshot{
		Symbol:     row.Symbol,
		Timestamp:  row.Timestamp,
		Close:      nullable(row.Close),
		Indicators: []byte(row.Indicators),
	}, nil
}

func (s *LedgerStore) LatestSignalTimestamp(ctx context.Context) (*time.Time, error) {
	sig, err := s.LatestSignal(ctx)
	if err != nil || sig == nil {
		return nil, err
	}
	ts := sig.Timestamp
	return &ts, nil
}

func (s *LedgerStore) CountSignalsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.SignalModel{}).
		Where("timestamp >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting signals since %s: %w: %w", since.Format(time.RFC3339), store.ErrUnavailable, err)
	}
	return count, nil
}

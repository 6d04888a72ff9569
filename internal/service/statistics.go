package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradepulse/internal/analytics"
	"tradepulse/internal/logger"
	"tradepulse/internal/store"

	"github.com/tidwall/gjson"
)

// ErrInvalidArgument marks malformed caller input (bad pagination, unknown
// filter token). Checked and rejected before any store read happens.
var ErrInvalidArgument = errors.New("invalid argument")

// BrokerGateway is the live-order feed consumed during reconciliation.
type BrokerGateway interface {
	ListLiveOrders(ctx context.Context, limit int) ([]analytics.BrokerOrder, error)
}

// StatisticsService runs the read-only analytics pipeline: ledger rows are
// canonicalized, merged with the live broker snapshot, and aggregated. Every
// call fetches fresh data and works on its own slices; nothing here is
// cached or mutated across requests.
type StatisticsService struct {
	orders      store.OrderLedger
	signals     store.SignalLedger
	broker      BrokerGateway
	brokerLimit int
	startupTime time.Time
	now         func() time.Time
}

func NewStatisticsService(orders store.OrderLedger, signals store.SignalLedger, broker BrokerGateway, brokerLimit int) *StatisticsService {
	if brokerLimit <= 0 {
		brokerLimit = 100
	}
	return &StatisticsService{
		orders:      orders,
		signals:     signals,
		broker:      broker,
		brokerLimit: brokerLimit,
		startupTime: time.Now().UTC(),
		now:         time.Now,
	}
}

// ListOrders returns one page of reconciled orders, newest first.
func (s *StatisticsService) ListOrders(ctx context.Context, page, pageSize int) ([]OrderRecord, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("%w: page=%d pageSize=%d", ErrInvalidArgument, page, pageSize)
	}
	rows, err := s.orders.ListOrders(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return s.reconciled(ctx, rows), nil
}

// ListOrdersInBucket returns all reconciled orders whose ledger state maps
// to the given bucket.
func (s *StatisticsService) ListOrdersInBucket(ctx context.Context, bucket analytics.Bucket) ([]OrderRecord, error) {
	tokens := bucket.Tokens()
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: bucket %s has no state filter", ErrInvalidArgument, bucket)
	}
	rows, err := s.orders.ListOrdersByStates(ctx, tokens...)
	if err != nil {
		return nil, err
	}
	return s.reconciled(ctx, rows), nil
}

// Statistics aggregates the whole ledger into one portfolio snapshot.
func (s *StatisticsService) Statistics(ctx context.Context) (analytics.OrderStatistics, error) {
	rows, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return analytics.OrderStatistics{}, err
	}
	canonical := analytics.Canonicalize(rows)
	reconciled := analytics.Reconcile(canonical, s.brokerLookup(ctx))
	return analytics.ComputeStatistics(reconciled), nil
}

// Dashboard assembles engine health plus the year-to-date portfolio figures.
func (s *StatisticsService) Dashboard(ctx context.Context) (DashboardMetrics, error) {
	health, err := s.EngineHealth(ctx)
	if err != nil {
		return DashboardMetrics{}, err
	}
	rows, err := s.orders.ListAllOrders(ctx)
	if err != nil {
		return DashboardMetrics{}, err
	}
	canonical := analytics.Canonicalize(rows)
	reconciled := analytics.Reconcile(canonical, s.brokerLookup(ctx))

	now := s.now().UTC()
	summary := analytics.ComputeDashboard(reconciled, health.SignalCountLast5Minutes, s.startupTime, now)
	return DashboardMetrics{
		EngineHealth:     health,
		GrossPortfolio:   summary.GrossPortfolio,
		YtdPnl:           summary.YtdPnl,
		YtdReturnPercent: summary.YtdReturnPercent,
		TradesPerMinute:  summary.TradesPerMinute,
		ClusterUptime:    summary.Uptime.Round(time.Second).String(),
		LastUpdated:      now,
	}, nil
}

// EngineHealth recomputes the health snapshot from signal/order recency.
func (s *StatisticsService) EngineHealth(ctx context.Context) (analytics.EngineHealth, error) {
	now := s.now().UTC()

	lastSignal, err := s.signals.LatestSignalTimestamp(ctx)
	if err != nil {
		return analytics.EngineHealth{}, err
	}
	lastOrder, err := s.orders.LatestOrderTimestamp(ctx)
	if err != nil {
		return analytics.EngineHealth{}, err
	}
	signalCount, err := s.signals.CountSignalsSince(ctx, now.Add(-5*time.Minute))
	if err != nil {
		return analytics.EngineHealth{}, err
	}
	activeCount, err := s.orders.CountActiveOrders(ctx)
	if err != nil {
		return analytics.EngineHealth{}, err
	}

	return analytics.EvaluateHealth(lastSignal, lastOrder, int(activeCount), int(signalCount), now), nil
}

// LatestSignal returns the newest signal row with the Kalman fields
// extracted from the indicator payload, or nil when the table is empty.
func (s *StatisticsService) LatestSignal(ctx context.Context) (*SignalSummary, error) {
	sig, err := s.signals.LatestSignal(ctx)
	if err != nil || sig == nil {
		return nil, err
	}
	out := &SignalSummary{
		Symbol:    sig.Symbol,
		Timestamp: sig.Timestamp,
		Close:     sig.Close,
	}
	if len(sig.Indicators) > 0 {
		out.KfRegime = gjson.GetBytes(sig.Indicators, "kf_regime").String()
		out.KfSignal = gjson.GetBytes(sig.Indicators, "kf_signal").String()
		if v := gjson.GetBytes(sig.Indicators, "kf_velocity"); v.Exists() {
			f := v.Float()
			out.KfVelocity = &f
		}
	}
	return out, nil
}

// CompletedOrders returns all reconciled orders in the completed bucket,
// oldest first, for the realized-PnL history chart.
func (s *StatisticsService) CompletedOrders(ctx context.Context) ([]OrderRecord, error) {
	records, err := s.ListOrdersInBucket(ctx, analytics.BucketCompleted)
	if err != nil {
		return nil, err
	}
	// Listings come newest-first; the chart wants chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (s *StatisticsService) reconciled(ctx context.Context, rows []analytics.OrderStateRow) []OrderRecord {
	canonical := analytics.Canonicalize(rows)
	reconciled := analytics.Reconcile(canonical, s.brokerLookup(ctx))
	records := make([]OrderRecord, 0, len(reconciled))
	for _, rec := range reconciled {
		records = append(records, toOrderRecord(rec))
	}
	return records
}

// brokerLookup fetches the live broker snapshot. Broker failure is a logged,
// non-fatal degradation: reconciliation proceeds on ledger data alone.
func (s *StatisticsService) brokerLookup(ctx context.Context) map[string]analytics.BrokerOrder {
	if s.broker == nil {
		return nil
	}
	orders, err := s.broker.ListLiveOrders(ctx, s.brokerLimit)
	if err != nil {
		logger.Warnf("statistics: live broker snapshot unavailable, using ledger data only: %v", err)
		return nil
	}
	lookup := make(map[string]analytics.BrokerOrder, len(orders))
	for _, o := range orders {
		if o.ID == "" {
			continue
		}
		lookup[o.ID] = o
	}
	return lookup
}

package analytics

import "time"

// HealthStatus is the engine-health classification. Severity only ever
// increases during a single evaluation; a Critical finding is never
// downgraded by a later Warning rule.
type HealthStatus string

const (
	HealthUnknown  HealthStatus = "Unknown"
	HealthHealthy  HealthStatus = "Healthy"
	HealthWarning  HealthStatus = "Warning"
	HealthCritical HealthStatus = "Critical"
)

func (s HealthStatus) severity() int {
	switch s {
	case HealthHealthy:
		return 1
	case HealthWarning:
		return 2
	case HealthCritical:
		return 3
	default:
		return 0
	}
}

func (s HealthStatus) atLeast(min HealthStatus) HealthStatus {
	if s.severity() < min.severity() {
		return min
	}
	return s
}

// EngineHealth is the full health snapshot returned to callers.
type EngineHealth struct {
	Status                  HealthStatus `json:"status"`
	LastSignalTimestamp     *time.Time   `json:"lastSignalTimestamp"`
	LastOrderTimestamp      *time.Time   `json:"lastOrderTimestamp"`
	ActiveOrderCount        int          `json:"activeOrderCount"`
	SignalCountLast5Minutes int          `json:"signalCountLast5Minutes"`
	HealthIssues            []string     `json:"healthIssues"`
}

const (
	signalStaleAfter = 10 * time.Minute
	orderStaleAfter  = 30 * time.Minute
)

// EvaluateHealth recomputes the engine-health snapshot from the recency of
// the newest signal and order rows. Nil timestamps mean the corresponding
// table is empty.
func EvaluateHealth(lastSignal, lastOrder *time.Time, activeOrders, signalCount5Min int, now time.Time) EngineHealth {
	health := EngineHealth{
		Status:                  HealthHealthy,
		LastSignalTimestamp:     lastSignal,
		LastOrderTimestamp:      lastOrder,
		ActiveOrderCount:        activeOrders,
		SignalCountLast5Minutes: signalCount5Min,
		HealthIssues:            []string{},
	}

	if lastSignal == nil || now.Sub(*lastSignal) > signalStaleAfter {
		health.HealthIssues = append(health.HealthIssues, "No recent signals received")
		health.Status = health.Status.atLeast(HealthWarning)
	}
	if lastOrder == nil || now.Sub(*lastOrder) > orderStaleAfter {
		health.HealthIssues = append(health.HealthIssues, "No recent order activity")
		health.Status = health.Status.atLeast(HealthWarning)
	}
	return health
}

package apihttp

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"tradepulse/internal/analytics"
	"tradepulse/internal/gateway/alpaca"
	"tradepulse/internal/logger"
	"tradepulse/internal/report"
	"tradepulse/internal/service"
	"tradepulse/internal/store/auditlog"

	"github.com/gin-gonic/gin"
)

// AnalyticsService is the reconciliation/aggregation pipeline behind the API.
type AnalyticsService interface {
	ListOrders(ctx context.Context, page, pageSize int) ([]service.OrderRecord, error)
	ListOrdersInBucket(ctx context.Context, bucket analytics.Bucket) ([]service.OrderRecord, error)
	Statistics(ctx context.Context) (analytics.OrderStatistics, error)
	Dashboard(ctx context.Context) (service.DashboardMetrics, error)
	EngineHealth(ctx context.Context) (analytics.EngineHealth, error)
	LatestSignal(ctx context.Context) (*service.SignalSummary, error)
	CompletedOrders(ctx context.Context) ([]service.OrderRecord, error)
}

// AccountGateway is the broker surface exposed under /api/account.
type AccountGateway interface {
	AccountInfo(ctx context.Context) (*alpaca.AccountInfo, error)
	Positions(ctx context.Context) ([]alpaca.Position, error)
	ListLiveOrders(ctx context.Context, limit int) ([]analytics.BrokerOrder, error)
}

// AuditLog reads the execution audit trail written by the engine.
type AuditLog interface {
	ListRecent(ctx context.Context, limit int) ([]auditlog.ExecutionRecord, error)
}

// Router wires the analytics endpoints onto a gin group.
type Router struct {
	analytics   AnalyticsService
	broker      AccountGateway
	audit       AuditLog
	brokerLimit int
}

func NewRouter(svc AnalyticsService, broker AccountGateway, audit AuditLog, brokerLimit int) *Router {
	if brokerLimit <= 0 {
		brokerLimit = 100
	}
	return &Router{analytics: svc, broker: broker, audit: audit, brokerLimit: brokerLimit}
}

// Register mounts all routes under the given group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	orders := group.Group("/orders")
	orders.GET("", r.handleOrders)
	orders.GET("/active", r.bucketHandler(analytics.BucketActive))
	orders.GET("/completed", r.bucketHandler(analytics.BucketCompleted))
	orders.GET("/rejected", r.bucketHandler(analytics.BucketRejected))
	orders.GET("/outstanding", r.bucketHandler(analytics.BucketOutstanding))
	orders.GET("/statistics", r.handleStatistics)
	orders.GET("/audit", r.handleAudit)
	orders.GET("/chart", r.handleChart)

	dashboard := group.Group("/dashboard")
	dashboard.GET("/metrics", r.handleDashboard)
	dashboard.GET("/health", r.handleHealth)

	account := group.Group("/account")
	account.GET("/info", r.handleAccountInfo)
	account.GET("/positions", r.handlePositions)
	account.GET("/broker-orders", r.handleBrokerOrders)

	group.GET("/signals/latest", r.handleLatestSignal)
}

func (r *Router) handleOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if pageSize > 500 {
		pageSize = 500
	}
	records, err := r.analytics.ListOrders(c.Request.Context(), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":    records,
		"count":     len(records),
		"page":      page,
		"page_size": pageSize,
	})
}

func (r *Router) bucketHandler(bucket analytics.Bucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := r.analytics.ListOrdersInBucket(c.Request.Context(), bucket)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orders": records,
			"count":  len(records),
			"bucket": bucket.String(),
		})
	}
}

func (r *Router) handleStatistics(c *gin.Context) {
	stats, err := r.analytics.Statistics(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (r *Router) handleAudit(c *gin.Context) {
	if r.audit == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log not enabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := r.audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"executions": records, "count": len(records)})
}

func (r *Router) handleChart(c *gin.Context) {
	records, err := r.analytics.CompletedOrders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed orders to chart"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.RenderPnlHistory(c.Writer, records); err != nil {
		logger.Errorf("[api] chart render failed ip=%s err=%v", c.ClientIP(), err)
	}
}

func (r *Router) handleDashboard(c *gin.Context) {
	metrics, err := r.analytics.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (r *Router) handleHealth(c *gin.Context) {
	health, err := r.analytics.EngineHealth(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, health)
}

func (r *Router) handleAccountInfo(c *gin.Context) {
	if r.broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "broker gateway not configured"})
		return
	}
	info, err := r.broker.AccountInfo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (r *Router) handlePositions(c *gin.Context) {
	if r.broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "broker gateway not configured"})
		return
	}
	positions, err := r.broker.Positions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions, "count": len(positions)})
}

func (r *Router) handleBrokerOrders(c *gin.Context) {
	if r.broker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "broker gateway not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(r.brokerLimit)))
	orders, err := r.broker.ListLiveOrders(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (r *Router) handleLatestSignal(c *gin.Context) {
	sig, err := r.analytics.LatestSignal(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if sig == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no signals recorded"})
		return
	}
	c.JSON(http.StatusOK, sig)
}

// writeError maps pipeline errors onto HTTP status codes. Caller mistakes
// are 400s, broker outages are 502s, everything else is a 500.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, alpaca.ErrBrokerUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		logger.Errorf("[api] %s %s failed ip=%s err=%v", c.Request.Method, c.Request.URL.Path, c.ClientIP(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

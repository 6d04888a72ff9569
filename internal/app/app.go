// Package app wires the stores, broker gateway, and HTTP server together.
package app

import (
	"context"
	"fmt"

	"tradepulse/internal/config"
	"tradepulse/internal/gateway/alpaca"
	"tradepulse/internal/logger"
	"tradepulse/internal/secrets"
	"tradepulse/internal/service"
	"tradepulse/internal/store/auditlog"
	"tradepulse/internal/store/sqlite"
	apihttp "tradepulse/internal/transport/http"

	"golang.org/x/sync/errgroup"
)

// App owns the application-level lifecycle: open stores, build the
// analytics pipeline, serve HTTP until shutdown.
type App struct {
	cfg    *config.Config
	ledger *sqlite.LedgerStore
	audit  *auditlog.Store
	server *apihttp.Server
}

// NewApp builds the application from config without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)

	ledger, err := sqlite.NewLedgerStore(cfg.Store.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("opening ledger store: %w", err)
	}
	audit, err := auditlog.NewStore(cfg.Store.AuditLogPath)
	if err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("opening audit log: %w", err)
	}

	var broker *alpaca.Client
	if cfg.Broker.Enabled {
		broker = alpaca.NewClient(secrets.NewCache(secrets.EnvProvider{}), cfg.Broker.BaseURL)
	} else {
		logger.Warnf("broker gateway disabled; reconciliation will use ledger data only")
	}

	svc := newStatisticsService(ledger, broker, cfg.Broker.OrderFetchLimit)

	server, err := apihttp.NewServer(apihttp.ServerConfig{
		Addr:        cfg.App.HTTPAddr,
		Analytics:   svc,
		Broker:      brokerGateway(broker),
		Audit:       audit,
		BrokerLimit: cfg.Broker.OrderFetchLimit,
	})
	if err != nil {
		_ = audit.Close()
		_ = ledger.Close()
		return nil, err
	}

	return &App{cfg: cfg, ledger: ledger, audit: audit, server: server}, nil
}

func newStatisticsService(ledger *sqlite.LedgerStore, broker *alpaca.Client, limit int) *service.StatisticsService {
	var gateway service.BrokerGateway
	if broker != nil {
		gateway = broker
	}
	return service.NewStatisticsService(ledger, ledger, gateway, limit)
}

// brokerGateway keeps the server's broker dependency nil when disabled so
// the account endpoints answer 503 instead of hitting a dead client.
func brokerGateway(broker *alpaca.Client) apihttp.AccountGateway {
	if broker == nil {
		return nil
	}
	return broker
}

// Run serves HTTP until ctx is canceled, then closes the stores.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.close()

	logger.Infof("analytics API listening on %s (env=%s)", a.server.Addr(), a.cfg.App.Env)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

func (a *App) close() {
	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			logger.Warnf("closing audit log: %v", err)
		}
	}
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			logger.Warnf("closing ledger store: %v", err)
		}
	}
}

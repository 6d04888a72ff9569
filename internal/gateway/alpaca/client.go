package alpaca

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tradepulse/internal/analytics"
	"tradepulse/internal/logger"
	"tradepulse/internal/pkg/circuit"
	"tradepulse/internal/secrets"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

// ErrBrokerUnavailable marks any failed live-broker call. Callers recover
// from it locally: the reconciliation pipeline proceeds on ledger data.
var ErrBrokerUnavailable = errors.New("broker unavailable")

const (
	secretKeyName    = "ALPACA-KEY"
	secretSecretName = "ALPACA-SECRET"

	defaultOrderLimit = 100
	callTimeout       = 5 * time.Second
)

// tradingAPI is the slice of the Alpaca SDK this service touches.
type tradingAPI interface {
	GetOrders(req alpaca.GetOrdersRequest) ([]alpaca.Order, error)
	GetAccount() (*alpaca.Account, error)
	GetPositions() ([]alpaca.Position, error)
}

// Client wraps the Alpaca trading API behind lazy, single-flight
// construction: credentials are pulled from the secret cache on first use,
// exactly one caller builds the SDK client, and everyone else reuses it.
// A circuit breaker short-circuits calls while the broker is misbehaving.
type Client struct {
	secrets *secrets.Cache
	baseURL string
	breaker *circuit.Breaker

	mu      sync.Mutex
	trading tradingAPI
}

func NewClient(cache *secrets.Cache, baseURL string) *Client {
	return &Client{
		secrets: cache,
		baseURL: baseURL,
		breaker: circuit.NewBreaker("alpaca", 3, 30*time.Second),
	}
}

func (c *Client) api(ctx context.Context) (tradingAPI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.trading != nil {
		return c.trading, nil
	}

	key, err := c.secrets.Get(ctx, secretKeyName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrokerUnavailable, err)
	}
	secret, err := c.secrets.Get(ctx, secretSecretName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrokerUnavailable, err)
	}

	c.trading = alpaca.NewClient(alpaca.ClientOpts{
		APIKey:     key,
		APISecret:  secret,
		BaseURL:    c.baseURL,
		HTTPClient: &http.Client{Timeout: callTimeout},
	})
	logger.Infof("alpaca: trading client initialized (base=%s)", c.baseURL)
	return c.trading, nil
}

func (c *Client) call(ctx context.Context, what string, fn func(api tradingAPI) error) error {
	if !c.breaker.Allow() {
		return fmt.Errorf("%w: circuit open for %s", ErrBrokerUnavailable, what)
	}
	api, err := c.api(ctx)
	if err != nil {
		c.breaker.RecordFailure()
		return err
	}
	if err := fn(api); err != nil {
		c.breaker.RecordFailure()
		return fmt.Errorf("%w: %s: %w", ErrBrokerUnavailable, what, err)
	}
	c.breaker.RecordSuccess()
	return nil
}

// ListLiveOrders returns the newest broker-side orders. An empty account is
// not an error; only transport or auth failures are.
func (c *Client) ListLiveOrders(ctx context.Context, limit int) ([]analytics.BrokerOrder, error) {
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	var orders []alpaca.Order
	err := c.call(ctx, "list orders", func(api tradingAPI) error {
		var err error
		orders, err = api.GetOrders(alpaca.GetOrdersRequest{
			Status:    "all",
			Limit:     limit,
			Direction: "desc",
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]analytics.BrokerOrder, 0, len(orders))
	for i := range orders {
		out = append(out, toBrokerOrder(&orders[i]))
	}
	return out, nil
}

// AccountInfo returns the live account snapshot.
func (c *Client) AccountInfo(ctx context.Context) (*AccountInfo, error) {
	var acct *alpaca.Account
	err := c.call(ctx, "get account", func(api tradingAPI) error {
		var err error
		acct, err = api.GetAccount()
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAccountInfo(acct), nil
}

// Positions returns the live open positions.
func (c *Client) Positions(ctx context.Context) ([]Position, error) {
	var positions []alpaca.Position
	err := c.call(ctx, "list positions", func(api tradingAPI) error {
		var err error
		positions, err = api.GetPositions()
		return err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Position, 0, len(positions))
	for i := range positions {
		out = append(out, toPosition(&positions[i]))
	}
	return out, nil
}

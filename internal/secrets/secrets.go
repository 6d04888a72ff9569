package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"tradepulse/internal/logger"

	"golang.org/x/sync/singleflight"
)

// Provider fetches one named secret from wherever credentials live.
type Provider interface {
	FetchSecret(ctx context.Context, name string) (string, error)
}

// Cache is a read-through cache over a Provider. Each key is populated at
// most once; concurrent first reads of the same key collapse into a single
// provider call. Entries are never invalidated.
type Cache struct {
	provider Provider
	group    singleflight.Group

	mu     sync.RWMutex
	values map[string]string
}

func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		values:   make(map[string]string),
	}
}

func (c *Cache) Get(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	v, ok := c.values[name]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	out, err, _ := c.group.Do(name, func() (any, error) {
		logger.Debugf("secrets: fetching %s", name)
		v, err := c.provider.FetchSecret(ctx, name)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.values[name] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return "", fmt.Errorf("fetching secret %s: %w", name, err)
	}
	return out.(string), nil
}

// EnvProvider resolves secret names against environment variables, mapping
// "ALPACA-KEY" to "ALPACA_KEY".
type EnvProvider struct{}

func (EnvProvider) FetchSecret(_ context.Context, name string) (string, error) {
	key := strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("environment variable %s not set", key)
	}
	return v, nil
}

// StaticProvider serves secrets from a fixed map. Test helper.
type StaticProvider map[string]string

func (p StaticProvider) FetchSecret(_ context.Context, name string) (string, error) {
	v, ok := p[name]
	if !ok {
		return "", fmt.Errorf("secret %s not found", name)
	}
	return v, nil
}

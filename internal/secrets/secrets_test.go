package secrets

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls  atomic.Int64
	values map[string]string
}

func (p *countingProvider) FetchSecret(_ context.Context, name string) (string, error) {
	p.calls.Add(1)
	v, ok := p.values[name]
	if !ok {
		return "", fmt.Errorf("no such secret %s", name)
	}
	return v, nil
}

func TestCache_FetchesOncePerKey(t *testing.T) {
	provider := &countingProvider{values: map[string]string{"ALPACA-KEY": "k", "ALPACA-SECRET": "s"}}
	cache := NewCache(provider)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := cache.Get(ctx, "ALPACA-KEY")
		require.NoError(t, err)
		assert.Equal(t, "k", v)
	}
	v, err := cache.Get(ctx, "ALPACA-SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s", v)

	assert.EqualValues(t, 2, provider.calls.Load())
}

func TestCache_ConcurrentFirstReadSingleFlight(t *testing.T) {
	provider := &countingProvider{values: map[string]string{"ALPACA-KEY": "k"}}
	cache := NewCache(provider)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.Get(context.Background(), "ALPACA-KEY")
			assert.NoError(t, err)
			assert.Equal(t, "k", v)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, provider.calls.Load())
}

func TestCache_ErrorNotCached(t *testing.T) {
	provider := &countingProvider{values: map[string]string{}}
	cache := NewCache(provider)

	_, err := cache.Get(context.Background(), "MISSING")
	require.Error(t, err)

	provider.values["MISSING"] = "late"
	v, err := cache.Get(context.Background(), "MISSING")
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{"A": "1"}
	v, err := p.FetchSecret(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	_, err = p.FetchSecret(context.Background(), "B")
	assert.Error(t, err)
}

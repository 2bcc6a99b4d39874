package darksky

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/forecast-client/internal/domain"
	"github.com/couchcryptid/forecast-client/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingSource struct {
	calls  int
	result domain.Forecast
	err    error
}

func (m *countingSource) Forecast(_ context.Context, _, _ float64) (domain.Forecast, error) {
	m.calls++
	return m.result, m.err
}

func sampleForecast() domain.Forecast {
	temp := 72.5
	icon := domain.IconCloudSun
	tz := "America/Chicago"
	return domain.Forecast{
		Timezone:  &tz,
		Currently: &domain.DataPoint{Time: 1475273839, Temperature: &temp, Icon: &icon},
		Alerts:    []domain.Alert{{Title: "t", Summary: "s", Expires: 1, URI: "https://example.com"}},
	}
}

func newTestCache(inner domain.ForecastSource, size int, ttl time.Duration, clock clockwork.Clock) *CachedSource {
	return NewCachedSource(inner, size, ttl, clock, observability.NewMetricsForTesting(), discardLogger())
}

// --- CachedSource tests ---

func TestCachedSource_HitReturnsEqualForecast(t *testing.T) {
	inner := &countingSource{result: sampleForecast()}
	cached := newTestCache(inner, 10, time.Minute, clockwork.NewFakeClock())

	f1, err := cached.Forecast(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)
	f2, err := cached.Forecast(context.Background(), 30.2672, -97.7431)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.True(t, f1.Equal(f2))
	assert.True(t, f2.Equal(sampleForecast()))
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.Cache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.Cache.WithLabelValues("miss")))
}

func TestCachedSource_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingSource{result: sampleForecast()}
	cached := newTestCache(inner, 10, 5*time.Minute, clock)

	_, err := cached.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	_, err = cached.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	clock.Advance(2 * time.Minute)
	_, err = cached.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "expired entry should be refetched")
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.Cache.WithLabelValues("expired")))
}

func TestCachedSource_DifferentLocationsMiss(t *testing.T) {
	inner := &countingSource{result: sampleForecast()}
	cached := newTestCache(inner, 10, time.Minute, clockwork.NewFakeClock())

	_, _ = cached.Forecast(context.Background(), 1, 2)
	_, _ = cached.Forecast(context.Background(), 2, 1)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("upstream down")}
	cached := newTestCache(inner, 10, time.Minute, clockwork.NewFakeClock())

	_, err := cached.Forecast(context.Background(), 1, 2)
	require.Error(t, err)
	_, err = cached.Forecast(context.Background(), 1, 2)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.cache.len())
}

func TestCachedSource_CorruptEntryRefetched(t *testing.T) {
	clock := clockwork.NewFakeClock()
	inner := &countingSource{result: sampleForecast()}
	cached := newTestCache(inner, 10, time.Minute, clock)

	cached.cache.put(domain.Location{Lat: 1, Lon: 2}.Key(), []byte("garbage"), clock.Now())

	f, err := cached.Forecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, f.Equal(sampleForecast()))
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(cached.metrics.DecodeErrors.WithLabelValues("corrupt_binary")))
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)
	now := time.Now()

	c.put("a", []byte("A"), now)
	c.put("b", []byte("B"), now)

	v, storedAt, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A"), v)
	assert.Equal(t, now, storedAt)

	_, _, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	now := time.Now()

	c.put("a", []byte("A"), now)
	c.put("b", []byte("B"), now)
	c.put("c", []byte("C"), now) // evicts "a"

	_, _, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	v, _, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, []byte("B"), v)

	v, _, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, []byte("C"), v)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)
	now := time.Now()

	c.put("a", []byte("A"), now)
	c.put("b", []byte("B"), now)

	c.get("a")

	// "b" is now least recently used.
	c.put("c", []byte("C"), now)

	_, _, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, _, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)
	t0 := time.Now()
	t1 := t0.Add(time.Minute)

	c.put("a", []byte("A1"), t0)
	c.put("a", []byte("A2"), t1)

	v, storedAt, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A2"), v)
	assert.Equal(t, t1, storedAt)
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_Remove(t *testing.T) {
	c := newLRUCache(3)
	now := time.Now()

	c.put("a", []byte("A"), now)
	c.put("b", []byte("B"), now)
	c.remove("a")
	c.remove("missing")

	_, _, ok := c.get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.len())

	c.put("c", []byte("C"), now)
	c.put("d", []byte("D"), now)
	assert.Equal(t, 3, c.len())
}

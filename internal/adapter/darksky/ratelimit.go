package darksky

import (
	"context"
	"fmt"

	"github.com/couchcryptid/forecast-client/internal/domain"
	"golang.org/x/time/rate"
)

// RateLimitedSource wraps a ForecastSource with a token-bucket limiter so the
// poller stays within the API's request quota.
type RateLimitedSource struct {
	inner   domain.ForecastSource
	limiter *rate.Limiter
}

// NewRateLimitedSource allows rps requests per second (fractional values
// allowed) with the given burst.
func NewRateLimitedSource(inner domain.ForecastSource, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedSource) Forecast(ctx context.Context, lat, lon float64) (domain.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Forecast{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.inner.Forecast(ctx, lat, lon)
}

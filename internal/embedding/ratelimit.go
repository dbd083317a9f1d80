package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimited throttles Encode calls to protect the model backend during
// O(N) backfills. Wait blocks until a token is available or ctx is done.
type rateLimited struct {
	inner   Provider
	limiter *rate.Limiter
}

// RateLimited wraps a provider with a requests-per-second ceiling.
// A non-positive rps returns the provider unchanged.
func RateLimited(p Provider, rps float64) Provider {
	if rps <= 0 {
		return p
	}
	return &rateLimited{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (r *rateLimited) Encode(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Encode(ctx, text)
}

func (r *rateLimited) ModelName() string { return r.inner.ModelName() }

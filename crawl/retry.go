package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitecrawl"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// BackoffDelays returns the delays between fetch attempts for a rate-limited
// URL: initial * 2^n for n in [0, maxRetries). A negative maxRetries yields
// no retries.
func BackoffDelays(initial time.Duration, maxRetries int) []time.Duration {
	if maxRetries <= 0 {
		return nil
	}
	delays := make([]time.Duration, maxRetries)
	for i := range delays {
		delays[i] = initial << i
	}
	return delays
}

// DefaultBackoffDelays returns the delays for the default retry policy: 2s, 4s, 8s.
func DefaultBackoffDelays() []time.Duration {
	return BackoffDelays(sitecrawl.DefaultRetryDelay, sitecrawl.DefaultMaxRetries)
}

// FetchWithBackoff fetches url, retrying with the given delays while the
// fetcher reports rate limiting. Any other error is returned immediately.
// When every retry is rate limited the result is an ERATELIMITED error.
// The logger may be nil.
func FetchWithBackoff(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if !sitecrawl.IsRateLimited(err) {
			return "", err
		}
		if attempt >= len(delays) {
			return "", sitecrawl.Errorf(sitecrawl.ERATELIMITED, "rate limited: %s after %d retries", url, len(delays))
		}

		if logger != nil {
			logger.Debug("rate limited, backing off",
				"url", url,
				"attempt", attempt+1,
				"delay", delays[attempt],
			)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

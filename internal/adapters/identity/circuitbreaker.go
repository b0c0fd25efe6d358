package identity

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// newCircuitBreaker trips after three requests with at least 60% failures.
// Rejections by the provider (4xx) are answers, not outages, so they count as successes.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	var st gobreaker.Settings
	st.Name = name
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}
	st.IsSuccessful = func(err error) bool {
		var apiErr *apiError
		return err == nil || errors.As(err, &apiErr)
	}

	return gobreaker.NewCircuitBreaker[[]byte](st)
}

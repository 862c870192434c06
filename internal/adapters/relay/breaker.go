package relay

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"appinsight/internal/adapters/observability"
	"appinsight/internal/domain"
)

// newBreaker trips a relay after n consecutive failures. While open the relay
// is skipped and counts as failed, so a dead relay stops costing a timeout
// on every request.
func newBreaker(name string, n uint32, cooldown time.Duration) *gobreaker.CircuitBreaker[domain.Payload] {
	observability.ObserveBreaker(name, stateValue(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[domain.Payload](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= n
		},
		// a caller giving up is not the relay's fault
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().
				Str("strategy", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("relay breaker state change")
			observability.ObserveBreaker(name, stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

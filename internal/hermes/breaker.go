package hermes

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerSettings controls when publishing is suspended.
type BreakerSettings struct {
	FailureThreshold int
	Timeout          time.Duration
}

// BreakerClient wraps a Client so that a failing bus stops being called for
// a while instead of slowing down every request.
type BreakerClient struct {
	Client
	cb     *gobreaker.CircuitBreaker[any]
	logger *slog.Logger
}

func NewBreakerClient(inner Client, settings BreakerSettings, logger *slog.Logger) *BreakerClient {
	threshold := uint32(settings.FailureThreshold)
	if threshold == 0 {
		threshold = 5
	}
	b := &BreakerClient{Client: inner, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "hermes-publish",
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return b
}

func (b *BreakerClient) Publish(subject string, data interface{}) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.Client.Publish(subject, data)
	})
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}

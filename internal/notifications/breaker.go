package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"

	"github.com/ambernegi/rha/pkg/config"
	"github.com/ambernegi/rha/pkg/logger"
)

// BreakerSender stops calling a failing channel for a cool-down period
// instead of piling retries onto it.
type BreakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSender wraps next with a breaker that opens after
// cfg.BreakerMaxFails consecutive failures (5 when unset) and probes again
// after cfg.BreakerOpenFor.
func NewBreakerSender(next Sender, cfg config.NotifyConfig, logg *logger.Logger) *BreakerSender {
	maxFails := cfg.BreakerMaxFails
	if maxFails == 0 {
		maxFails = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logg == nil {
				return
			}
			ctx := logg.WithFields(context.Background(), map[string]any{
				"sender": name,
				"from":   from.String(),
				"to":     to.String(),
			})
			logg.Warn(ctx, "notification.breaker_state_changed")
		},
	})
	return &BreakerSender{next: next, cb: cb}
}

// Name reports the wrapped sender's name.
func (b *BreakerSender) Name() string { return b.next.Name() }

// Send delivers through the wrapped sender. While the breaker is open it fails
// fast without calling the channel.
func (b *BreakerSender) Send(ctx context.Context, msg Message) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s sender unavailable: %w", b.next.Name(), err)
	}
	return err
}

// State reports the breaker state, mostly for tests and logs.
func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}

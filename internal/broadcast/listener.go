package broadcast

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/messaging"
)

// Listener pumps tally events from the broker into the hub
type Listener struct {
	subscriber messaging.Subscriber
	hub        *Hub
}

// NewListener creates a listener wiring the broker subscription to the hub
func NewListener(subscriber messaging.Subscriber, hub *Hub) *Listener {
	return &Listener{
		subscriber: subscriber,
		hub:        hub,
	}
}

// Run consumes tally events until the context is canceled, reconnecting with
// exponential backoff when the subscription drops
func (l *Listener) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	b.MaxInterval = 30 * time.Second

	operation := func() error {
		err := l.subscriber.SubscribeTallies(ctx, l.handle)
		if errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}

		logger.Error(err, zap.String("message", "tally subscription dropped, retrying"))
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handle forwards one event to the hub
func (l *Listener) handle(event *domain.TallyEvent) error {
	return l.hub.Dispatch(event)
}

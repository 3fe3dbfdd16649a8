package messaging

import (
	"context"

	"github.com/upravnik/assembly-engine/internal/domain"
)

// TallyHandler processes one delivered tally event. Returning an error makes
// the broker redeliver; delivery is at least once.
type TallyHandler func(event *domain.TallyEvent) error

// Subscriber defines the interface for consuming tally events from the broker
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// SubscribeTallies consumes tally events for all assemblies until the
	// context is canceled
	SubscribeTallies(ctx context.Context, handler TallyHandler) error
	// Close closes the connection
	Close()
}

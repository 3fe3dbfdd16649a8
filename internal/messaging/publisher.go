package messaging

import (
	"context"

	"github.com/upravnik/assembly-engine/internal/domain"
)

// Publisher defines the interface for publishing tally events to the broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishTally publishes a tally event for one assembly
	PublishTally(ctx context.Context, event *domain.TallyEvent) error
	// Close closes the connection
	Close()
}

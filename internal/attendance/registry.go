package attendance

import (
	"context"

	"go.uber.org/zap"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/messaging"
	"github.com/upravnik/assembly-engine/internal/store"
	"github.com/upravnik/assembly-engine/internal/store/schema"
	"github.com/upravnik/assembly-engine/internal/tally"
)

// Registry manages attendee check-in and revocation for an assembly
//
//go:generate mockgen -source=registry.go -destination=../mocks/attendance_registry.go -package=mocks -mock_names=Registry=MockRegistry
type Registry interface {
	// Register checks in an apartment representative with a frozen mills weight
	Register(ctx context.Context, assemblyID, apartmentID uint64, representativeName string, mills int64) (*schema.Attendee, error)
	// Revoke removes an attendee and all their votes, rebroadcasting the
	// tallies of any open items they had voted on
	Revoke(ctx context.Context, assemblyID, attendeeID uint64) error
	// List lists the attendees of an assembly
	List(ctx context.Context, assemblyID uint64) ([]schema.Attendee, error)
}

type registry struct {
	store     store.Store
	engine    tally.Engine
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewRegistry creates an attendance registry
func NewRegistry(st store.Store, engine tally.Engine, publisher messaging.Publisher, clock adapter.Clock) Registry {
	return &registry{
		store:     st,
		engine:    engine,
		publisher: publisher,
		clock:     clock,
	}
}

// Register checks in an apartment representative
func (r *registry) Register(ctx context.Context, assemblyID, apartmentID uint64, representativeName string, mills int64) (*schema.Attendee, error) {
	if mills <= 0 {
		return nil, domain.ErrInvalidMills
	}

	attendee := &schema.Attendee{
		AssemblyID:         assemblyID,
		ApartmentID:        apartmentID,
		RepresentativeName: representativeName,
		Mills:              mills,
		CheckedInAt:        r.clock.Now(),
	}

	if err := r.store.RegisterAttendee(ctx, attendee); err != nil {
		return nil, err
	}

	logger.Info("attendee registered",
		zap.Uint64("assemblyID", assemblyID),
		zap.Uint64("apartmentID", apartmentID),
		zap.Int64("mills", mills),
	)

	return attendee, nil
}

// Revoke removes an attendee and their votes. Tallies of open items the
// attendee had voted on shrink and are rebroadcast.
func (r *registry) Revoke(ctx context.Context, assemblyID, attendeeID uint64) error {
	affectedItemIDs, err := r.store.RevokeAttendee(ctx, assemblyID, attendeeID)
	if err != nil {
		return err
	}

	logger.Info("attendee revoked",
		zap.Uint64("assemblyID", assemblyID),
		zap.Uint64("attendeeID", attendeeID),
		zap.Uint64s("affectedItemIDs", affectedItemIDs),
	)

	for _, itemID := range affectedItemIDs {
		snap, err := r.engine.Snapshot(ctx, itemID)
		if err != nil {
			logger.Error(err, zap.Uint64("itemID", itemID))
			continue
		}

		event := &domain.TallyEvent{
			EventID:    domain.NewEventID(r.clock.Now()),
			AssemblyID: assemblyID,
			Snapshot:   *snap,
		}

		// The revocation is already committed; a failed broadcast only delays
		// the next snapshot
		if err := r.publisher.PublishTally(ctx, event); err != nil {
			logger.Error(err, zap.Uint64("itemID", itemID))
		}
	}

	return nil
}

// List lists the attendees of an assembly
func (r *registry) List(ctx context.Context, assemblyID uint64) ([]schema.Attendee, error) {
	if _, err := r.store.GetAssembly(ctx, assemblyID); err != nil {
		return nil, err
	}

	return r.store.ListAttendees(ctx, assemblyID)
}

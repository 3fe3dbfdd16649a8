package ledger

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

// Service records votes and broadcasts the resulting tallies
//
//go:generate mockgen -source=service.go -destination=../mocks/ledger_service.go -package=mocks -mock_names=Service=MockLedgerService
type Service interface {
	// Cast records the latest vote of an attendee on an open item. Repeating
	// the same cast is a no-op for the tally; a different choice replaces the
	// earlier one entirely.
	Cast(ctx context.Context, assemblyID, itemID, attendeeID uint64, choice domain.Choice) (*schema.Vote, *domain.TallySnapshot, error)
	// Snapshot returns the current live tally of an item without writing
	Snapshot(ctx context.Context, assemblyID, itemID uint64) (*domain.TallySnapshot, error)
}

type service struct {
	store     store.Store
	engine    tally.Engine
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewService creates a vote ledger service
func NewService(st store.Store, engine tally.Engine, publisher messaging.Publisher, clock adapter.Clock) Service {
	return &service{
		store:     st,
		engine:    engine,
		publisher: publisher,
		clock:     clock,
	}
}

// Cast records the latest vote of an attendee on an open item
func (s *service) Cast(ctx context.Context, assemblyID, itemID, attendeeID uint64, choice domain.Choice) (*schema.Vote, *domain.TallySnapshot, error) {
	if !choice.Valid() {
		return nil, nil, domain.ErrInvalidChoice
	}

	vote, version, err := s.store.CastVote(ctx, assemblyID, itemID, attendeeID, choice, s.clock.Now())
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("vote cast",
		zap.Uint64("assemblyID", assemblyID),
		zap.Uint64("itemID", itemID),
		zap.Uint64("attendeeID", attendeeID),
		zap.String("choice", string(choice)),
		zap.Int64("tallyVersion", version),
	)

	snap, err := s.engine.Snapshot(ctx, itemID)
	if err != nil {
		// The vote is committed; responding with it matters more than the
		// broadcast
		logger.Error(err, zap.Uint64("itemID", itemID))
		return vote, nil, nil
	}

	event := &domain.TallyEvent{
		EventID:    domain.NewEventID(s.clock.Now()),
		AssemblyID: assemblyID,
		Snapshot:   *snap,
	}

	if err := s.publisher.PublishTally(ctx, event); err != nil {
		logger.Error(err, zap.Uint64("itemID", itemID))
	}

	return vote, snap, nil
}

// Snapshot returns the current live tally of an item
func (s *service) Snapshot(ctx context.Context, assemblyID, itemID uint64) (*domain.TallySnapshot, error) {
	if _, err := s.store.GetAgendaItem(ctx, assemblyID, itemID); err != nil {
		return nil, err
	}

	return s.engine.Snapshot(ctx, itemID)
}

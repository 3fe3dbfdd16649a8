package decision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/messaging"
	"github.com/upravnik/assembly-engine/internal/store"
	"github.com/upravnik/assembly-engine/internal/store/schema"
	"github.com/upravnik/assembly-engine/internal/tally"
)

// Resolver closes agenda items and freezes their outcomes
//
//go:generate mockgen -source=resolver.go -destination=../mocks/decision_resolver.go -package=mocks -mock_names=Resolver=MockResolver
type Resolver interface {
	// Close transitions an item open -> closed, computes the final tally,
	// freezes the outcome and broadcasts the final event
	Close(ctx context.Context, assemblyID, itemID uint64) (*schema.FinalResult, error)
	// FinalResult retrieves the frozen result of a closed item
	FinalResult(ctx context.Context, assemblyID, itemID uint64) (*schema.FinalResult, error)
}

// Outcome resolves a final snapshot into an outcome. Quorum failure makes the
// vote invalid regardless of the mills comparison; an approve/reject draw, and
// an item nobody voted on, resolve to rejected.
func Outcome(snap *domain.TallySnapshot) domain.Outcome {
	if !snap.IsValid {
		return domain.OutcomeInvalid
	}

	if snap.ApproveMills > snap.RejectMills {
		return domain.OutcomeApproved
	}

	return domain.OutcomeRejected
}

type resolver struct {
	store     store.Store
	engine    tally.Engine
	publisher messaging.Publisher
	clock     adapter.Clock
	json      adapter.JSON
}

// NewResolver creates a decision resolver
func NewResolver(st store.Store, engine tally.Engine, publisher messaging.Publisher, clock adapter.Clock, jsonAdapter adapter.JSON) Resolver {
	return &resolver{
		store:     st,
		engine:    engine,
		publisher: publisher,
		clock:     clock,
		json:      jsonAdapter,
	}
}

// Close transitions an item open -> closed and freezes its outcome. The
// status flip commits first, so a vote racing with the close either lands
// before the final tally or fails with a closed-item error. Never reopens.
//
// The flip and the freeze are separate transactions, so a crash between them
// leaves a closed item without a result. A retried Close detects that state
// and completes the freeze instead of failing on the already-closed item.
func (r *resolver) Close(ctx context.Context, assemblyID, itemID uint64) (*schema.FinalResult, error) {
	item, err := r.store.CloseAgendaItem(ctx, assemblyID, itemID, r.clock.Now())
	if err != nil {
		if !errors.Is(err, domain.ErrAgendaItemAlreadyClosed) {
			return nil, err
		}

		if _, ferr := r.store.GetFinalResult(ctx, itemID); ferr == nil {
			// Closed and frozen; nothing left to do
			return nil, err
		} else if !errors.Is(ferr, domain.ErrFinalResultNotFound) {
			return nil, ferr
		}

		item, err = r.store.GetAgendaItem(ctx, assemblyID, itemID)
		if err != nil {
			return nil, err
		}

		logger.Warn("closed agenda item has no frozen result, repairing",
			zap.Uint64("assemblyID", assemblyID),
			zap.Uint64("itemID", itemID),
		)
	}

	return r.freeze(ctx, assemblyID, item)
}

// freeze computes the final tally of a closed item, persists it and
// broadcasts the final event. Idempotent: the first stored result wins.
func (r *resolver) freeze(ctx context.Context, assemblyID uint64, item *schema.AgendaItem) (*schema.FinalResult, error) {
	itemID := item.ID

	snap, err := r.engine.Snapshot(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute final tally: %w", err)
	}

	outcome := Outcome(snap)

	raw, err := r.json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal final snapshot: %w", err)
	}

	result := &schema.FinalResult{
		AgendaItemID: itemID,
		Outcome:      outcome,
		Snapshot:     datatypes.JSON(raw),
		ClosedAt:     *item.ClosedAt,
	}

	if err := r.store.CreateFinalResult(ctx, result); err != nil {
		return nil, err
	}

	logger.Info("agenda item closed",
		zap.Uint64("assemblyID", assemblyID),
		zap.Uint64("itemID", itemID),
		zap.String("outcome", string(result.Outcome)),
		zap.Int64("participationPercent", snap.ParticipationPercent),
	)

	event := &domain.TallyEvent{
		EventID:    domain.NewEventID(r.clock.Now()),
		AssemblyID: assemblyID,
		Snapshot:   *snap,
		Final:      true,
		Outcome:    result.Outcome,
	}

	if err := r.publisher.PublishTally(ctx, event); err != nil {
		logger.Error(err, zap.Uint64("itemID", itemID))
	}

	return result, nil
}

// FinalResult retrieves the frozen result of a closed item
func (r *resolver) FinalResult(ctx context.Context, assemblyID, itemID uint64) (*schema.FinalResult, error) {
	if _, err := r.store.GetAgendaItem(ctx, assemblyID, itemID); err != nil {
		return nil, err
	}

	return r.store.GetFinalResult(ctx, itemID)
}

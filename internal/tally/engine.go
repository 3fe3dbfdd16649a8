package tally

import (
	"context"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/store"
)

// Engine computes on-demand tally snapshots from the ledger
//
//go:generate mockgen -source=engine.go -destination=../mocks/tally_engine.go -package=mocks -mock_names=Engine=MockTallyEngine
type Engine interface {
	// Snapshot recomputes the current tally of an agenda item. Safe to call
	// at arbitrary frequency; a no-votes ledger yields a zeroed snapshot,
	// never an error.
	Snapshot(ctx context.Context, itemID uint64) (*domain.TallySnapshot, error)
}

type engine struct {
	store store.Store
	clock adapter.Clock
}

// NewEngine creates a tally engine backed by the given store
func NewEngine(st store.Store, clock adapter.Clock) Engine {
	return &engine{store: st, clock: clock}
}

// Snapshot recomputes the current tally of an agenda item
func (e *engine) Snapshot(ctx context.Context, itemID uint64) (*domain.TallySnapshot, error) {
	inputs, err := e.store.GetTallyInputs(ctx, itemID)
	if err != nil {
		return nil, err
	}

	snap := Compute(inputs.Assembly, inputs.Item, inputs.Attendees, inputs.Votes, e.clock.Now())
	return &snap, nil
}

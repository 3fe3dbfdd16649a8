package store

import (
	"context"
	"time"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/store/schema"
)

// TallyInputs is a consistent snapshot of everything the tally engine needs
// for one agenda item, read inside a single transaction
type TallyInputs struct {
	Assembly  schema.Assembly
	Item      schema.AgendaItem
	Attendees []schema.Attendee
	Votes     []schema.Vote
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreateAssembly persists a new assembly
	CreateAssembly(ctx context.Context, assembly *schema.Assembly) error
	// GetAssembly retrieves an assembly by ID
	GetAssembly(ctx context.Context, assemblyID uint64) (*schema.Assembly, error)

	// CreateAgendaItem persists a new pending agenda item
	CreateAgendaItem(ctx context.Context, item *schema.AgendaItem) error
	// GetAgendaItem retrieves an agenda item scoped to its assembly
	GetAgendaItem(ctx context.Context, assemblyID, itemID uint64) (*schema.AgendaItem, error)
	// ListAgendaItems lists the agenda of an assembly ordered by position
	ListAgendaItems(ctx context.Context, assemblyID uint64) ([]schema.AgendaItem, error)
	// ListOpenAgendaItems lists the currently open items of an assembly
	ListOpenAgendaItems(ctx context.Context, assemblyID uint64) ([]schema.AgendaItem, error)
	// ListExpiredOpenItems lists open items whose deadline passed
	ListExpiredOpenItems(ctx context.Context, now time.Time, limit int) ([]schema.AgendaItem, error)

	// OpenAgendaItem transitions an item pending -> open, enforcing the
	// single-open-item rule unless the assembly allows concurrent items,
	// and flips the assembly to in_progress on its first open
	OpenAgendaItem(ctx context.Context, assemblyID, itemID uint64, now time.Time) (*schema.AgendaItem, error)
	// CloseAgendaItem transitions an item open -> closed. The status flip
	// commits before any result is computed, so racing casts fail cleanly.
	CloseAgendaItem(ctx context.Context, assemblyID, itemID uint64, now time.Time) (*schema.AgendaItem, error)

	// RegisterAttendee checks in an apartment with its frozen mills weight
	RegisterAttendee(ctx context.Context, attendee *schema.Attendee) error
	// GetAttendee retrieves an attendee scoped to its assembly
	GetAttendee(ctx context.Context, assemblyID, attendeeID uint64) (*schema.Attendee, error)
	// ListAttendees lists the attendees of an assembly
	ListAttendees(ctx context.Context, assemblyID uint64) ([]schema.Attendee, error)
	// RevokeAttendee removes an attendee and their votes; returns the IDs of
	// open agenda items whose tallies changed
	RevokeAttendee(ctx context.Context, assemblyID, attendeeID uint64) ([]uint64, error)

	// CastVote records the latest vote of an attendee on an open item as an
	// idempotent upsert, bumping the item's tally version in the same
	// transaction. Returns the stored vote and the new version.
	CastVote(ctx context.Context, assemblyID, itemID, attendeeID uint64, choice domain.Choice, now time.Time) (*schema.Vote, int64, error)

	// GetTallyInputs reads the assembly, item, attendees and votes in one
	// transaction so the tally never observes a partially applied write
	GetTallyInputs(ctx context.Context, itemID uint64) (*TallyInputs, error)

	// CreateFinalResult freezes the outcome of a closed item
	CreateFinalResult(ctx context.Context, result *schema.FinalResult) error
	// GetFinalResult retrieves the frozen result of a closed item
	GetFinalResult(ctx context.Context, itemID uint64) (*schema.FinalResult, error)
}

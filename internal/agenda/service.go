package agenda

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

// Service manages assemblies and the agenda item lifecycle up to the open
// transition. Closing is the decision resolver's job.
//
//go:generate mockgen -source=service.go -destination=../mocks/agenda_service.go -package=mocks -mock_names=Service=MockService
type Service interface {
	// CreateAssembly persists a new scheduled assembly
	CreateAssembly(ctx context.Context, assembly *schema.Assembly) error
	// GetAssembly retrieves an assembly by ID
	GetAssembly(ctx context.Context, assemblyID uint64) (*schema.Assembly, error)
	// CreateAgendaItem appends a pending item to the assembly agenda
	CreateAgendaItem(ctx context.Context, item *schema.AgendaItem) error
	// ListAgendaItems lists the agenda of an assembly ordered by position
	ListAgendaItems(ctx context.Context, assemblyID uint64) ([]schema.AgendaItem, error)
	// OpenAgendaItem transitions an item pending -> open and broadcasts the
	// initial zero-vote snapshot
	OpenAgendaItem(ctx context.Context, assemblyID, itemID uint64) (*schema.AgendaItem, error)
}

type service struct {
	store     store.Store
	engine    tally.Engine
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewService creates an agenda service
func NewService(st store.Store, engine tally.Engine, publisher messaging.Publisher, clock adapter.Clock) Service {
	return &service{
		store:     st,
		engine:    engine,
		publisher: publisher,
		clock:     clock,
	}
}

// CreateAssembly persists a new scheduled assembly
func (s *service) CreateAssembly(ctx context.Context, assembly *schema.Assembly) error {
	if assembly.TotalBuildingMills <= 0 {
		return domain.ErrInvalidMills
	}

	assembly.Status = schema.AssemblyStatusScheduled
	assembly.CreatedAt = s.clock.Now()

	if err := s.store.CreateAssembly(ctx, assembly); err != nil {
		return err
	}

	logger.Info("assembly created",
		zap.Uint64("assemblyID", assembly.ID),
		zap.Uint64("buildingID", assembly.BuildingID),
		zap.Int64("totalBuildingMills", assembly.TotalBuildingMills),
	)

	return nil
}

// GetAssembly retrieves an assembly by ID
func (s *service) GetAssembly(ctx context.Context, assemblyID uint64) (*schema.Assembly, error) {
	return s.store.GetAssembly(ctx, assemblyID)
}

// CreateAgendaItem appends a pending item to the assembly agenda
func (s *service) CreateAgendaItem(ctx context.Context, item *schema.AgendaItem) error {
	assembly, err := s.store.GetAssembly(ctx, item.AssemblyID)
	if err != nil {
		return err
	}

	if assembly.Status == schema.AssemblyStatusClosed {
		return domain.ErrAssemblyClosed
	}

	if item.MinParticipationPercent < 0 || item.MinParticipationPercent > 100 {
		return domain.ErrInvalidQuorum
	}

	item.Status = schema.AgendaItemStatusPending
	item.CreatedAt = s.clock.Now()

	if err := s.store.CreateAgendaItem(ctx, item); err != nil {
		return err
	}

	logger.Info("agenda item created",
		zap.Uint64("assemblyID", item.AssemblyID),
		zap.Uint64("itemID", item.ID),
		zap.Int("position", item.Position),
	)

	return nil
}

// ListAgendaItems lists the agenda of an assembly ordered by position
func (s *service) ListAgendaItems(ctx context.Context, assemblyID uint64) ([]schema.AgendaItem, error) {
	if _, err := s.store.GetAssembly(ctx, assemblyID); err != nil {
		return nil, err
	}

	return s.store.ListAgendaItems(ctx, assemblyID)
}

// OpenAgendaItem transitions an item pending -> open
func (s *service) OpenAgendaItem(ctx context.Context, assemblyID, itemID uint64) (*schema.AgendaItem, error) {
	item, err := s.store.OpenAgendaItem(ctx, assemblyID, itemID, s.clock.Now())
	if err != nil {
		return nil, err
	}

	logger.Info("agenda item opened",
		zap.Uint64("assemblyID", assemblyID),
		zap.Uint64("itemID", itemID),
	)

	// Announce the item with an all-zero snapshot so live clients render it
	// before the first vote lands
	snap, err := s.engine.Snapshot(ctx, itemID)
	if err != nil {
		logger.Error(err, zap.Uint64("itemID", itemID))
		return item, nil
	}

	event := &domain.TallyEvent{
		EventID:    domain.NewEventID(s.clock.Now()),
		AssemblyID: assemblyID,
		Snapshot:   *snap,
	}

	if err := s.publisher.PublishTally(ctx, event); err != nil {
		logger.Error(err, zap.Uint64("itemID", itemID))
	}

	return item, nil
}

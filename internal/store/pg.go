package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to reasonable defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// CreateAssembly persists a new assembly
func (s *pgStore) CreateAssembly(ctx context.Context, assembly *schema.Assembly) error {
	if err := s.db.WithContext(ctx).Create(assembly).Error; err != nil {
		return fmt.Errorf("failed to create assembly: %w", err)
	}
	return nil
}

// GetAssembly retrieves an assembly by ID
func (s *pgStore) GetAssembly(ctx context.Context, assemblyID uint64) (*schema.Assembly, error) {
	var assembly schema.Assembly
	err := s.db.WithContext(ctx).Where("id = ?", assemblyID).First(&assembly).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAssemblyNotFound
		}
		return nil, fmt.Errorf("failed to get assembly: %w", err)
	}
	return &assembly, nil
}

// CreateAgendaItem persists a new pending agenda item
func (s *pgStore) CreateAgendaItem(ctx context.Context, item *schema.AgendaItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create agenda item: %w", err)
	}
	return nil
}

// GetAgendaItem retrieves an agenda item scoped to its assembly
func (s *pgStore) GetAgendaItem(ctx context.Context, assemblyID, itemID uint64) (*schema.AgendaItem, error) {
	var item schema.AgendaItem
	err := s.db.WithContext(ctx).
		Where("id = ? AND assembly_id = ?", itemID, assemblyID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAgendaItemNotFound
		}
		return nil, fmt.Errorf("failed to get agenda item: %w", err)
	}
	return &item, nil
}

// ListAgendaItems lists the agenda of an assembly ordered by position
func (s *pgStore) ListAgendaItems(ctx context.Context, assemblyID uint64) ([]schema.AgendaItem, error) {
	var items []schema.AgendaItem
	err := s.db.WithContext(ctx).
		Where("assembly_id = ?", assemblyID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda items: %w", err)
	}
	return items, nil
}

// ListOpenAgendaItems lists the currently open items of an assembly
func (s *pgStore) ListOpenAgendaItems(ctx context.Context, assemblyID uint64) ([]schema.AgendaItem, error) {
	var items []schema.AgendaItem
	err := s.db.WithContext(ctx).
		Where("assembly_id = ? AND status = ?", assemblyID, schema.AgendaItemStatusOpen).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list open agenda items: %w", err)
	}
	return items, nil
}

// ListExpiredOpenItems lists open items whose deadline passed
func (s *pgStore) ListExpiredOpenItems(ctx context.Context, now time.Time, limit int) ([]schema.AgendaItem, error) {
	var items []schema.AgendaItem
	err := s.db.WithContext(ctx).
		Where("status = ? AND deadline IS NOT NULL AND deadline <= ?", schema.AgendaItemStatusOpen, now).
		Order("deadline ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired open items: %w", err)
	}
	return items, nil
}

// OpenAgendaItem transitions an item pending -> open
func (s *pgStore) OpenAgendaItem(ctx context.Context, assemblyID, itemID uint64, now time.Time) (*schema.AgendaItem, error) {
	var opened schema.AgendaItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the assembly row to serialize open transitions per assembly
		var assembly schema.Assembly
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", assemblyID).
			First(&assembly).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAssemblyNotFound
			}
			return fmt.Errorf("failed to lock assembly: %w", err)
		}
		if assembly.Status == schema.AssemblyStatusClosed {
			return domain.ErrAssemblyClosed
		}

		var item schema.AgendaItem
		err = tx.Where("id = ? AND assembly_id = ?", itemID, assemblyID).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAgendaItemNotFound
			}
			return fmt.Errorf("failed to get agenda item: %w", err)
		}
		if item.Status != schema.AgendaItemStatusPending {
			return domain.ErrAgendaItemNotPending
		}

		if !assembly.AllowConcurrentItems {
			var openCount int64
			err = tx.Model(&schema.AgendaItem{}).
				Where("assembly_id = ? AND status = ?", assemblyID, schema.AgendaItemStatusOpen).
				Count(&openCount).Error
			if err != nil {
				return fmt.Errorf("failed to count open items: %w", err)
			}
			if openCount > 0 {
				return domain.ErrAnotherItemOpen
			}

			var earlierPending int64
			err = tx.Model(&schema.AgendaItem{}).
				Where("assembly_id = ? AND position < ? AND status <> ?",
					assemblyID, item.Position, schema.AgendaItemStatusClosed).
				Count(&earlierPending).Error
			if err != nil {
				return fmt.Errorf("failed to count earlier items: %w", err)
			}
			if earlierPending > 0 {
				return domain.ErrPreviousItemNotClosed
			}
		}

		item.Status = schema.AgendaItemStatusOpen
		item.OpenedAt = &now
		if err := tx.Model(&schema.AgendaItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{"status": item.Status, "opened_at": now}).Error; err != nil {
			return fmt.Errorf("failed to open agenda item: %w", err)
		}

		if assembly.Status == schema.AssemblyStatusScheduled {
			if err := tx.Model(&schema.Assembly{}).
				Where("id = ?", assemblyID).
				UpdateColumn("status", schema.AssemblyStatusInProgress).Error; err != nil {
				return fmt.Errorf("failed to update assembly status: %w", err)
			}
		}

		opened = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &opened, nil
}

// CloseAgendaItem transitions an item open -> closed. The item row lock makes
// close and cast mutually exclusive; once this transaction commits every
// racing cast observes the flipped status and fails cleanly.
func (s *pgStore) CloseAgendaItem(ctx context.Context, assemblyID, itemID uint64, now time.Time) (*schema.AgendaItem, error) {
	var closed schema.AgendaItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item schema.AgendaItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND assembly_id = ?", itemID, assemblyID).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAgendaItemNotFound
			}
			return fmt.Errorf("failed to lock agenda item: %w", err)
		}

		switch item.Status {
		case schema.AgendaItemStatusClosed:
			return domain.ErrAgendaItemAlreadyClosed
		case schema.AgendaItemStatusPending:
			return domain.ErrAgendaItemNotOpen
		}

		item.Status = schema.AgendaItemStatusClosed
		item.ClosedAt = &now
		if err := tx.Model(&schema.AgendaItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{"status": item.Status, "closed_at": now}).Error; err != nil {
			return fmt.Errorf("failed to close agenda item: %w", err)
		}

		closed = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &closed, nil
}

// RegisterAttendee checks in an apartment with its frozen mills weight
func (s *pgStore) RegisterAttendee(ctx context.Context, attendee *schema.Attendee) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the assembly row to serialize registrations against each other
		var assembly schema.Assembly
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", attendee.AssemblyID).
			First(&assembly).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAssemblyNotFound
			}
			return fmt.Errorf("failed to lock assembly: %w", err)
		}
		if assembly.Status == schema.AssemblyStatusClosed {
			return domain.ErrAssemblyClosed
		}
		if attendee.Mills <= 0 || attendee.Mills > assembly.TotalBuildingMills {
			return domain.ErrInvalidMills
		}

		var existing int64
		err = tx.Model(&schema.Attendee{}).
			Where("assembly_id = ? AND apartment_id = ?", attendee.AssemblyID, attendee.ApartmentID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check existing attendee: %w", err)
		}
		if existing > 0 {
			return domain.ErrDuplicateAttendee
		}

		var registeredMills int64
		err = tx.Model(&schema.Attendee{}).
			Where("assembly_id = ?", attendee.AssemblyID).
			Select("COALESCE(SUM(mills), 0)").
			Scan(&registeredMills).Error
		if err != nil {
			return fmt.Errorf("failed to sum attendee mills: %w", err)
		}
		if registeredMills+attendee.Mills > assembly.TotalBuildingMills {
			return domain.ErrMillsExceedTotal
		}

		if err := tx.Create(attendee).Error; err != nil {
			return fmt.Errorf("failed to create attendee: %w", err)
		}
		return nil
	})
}

// GetAttendee retrieves an attendee scoped to its assembly
func (s *pgStore) GetAttendee(ctx context.Context, assemblyID, attendeeID uint64) (*schema.Attendee, error) {
	var attendee schema.Attendee
	err := s.db.WithContext(ctx).
		Where("id = ? AND assembly_id = ?", attendeeID, assemblyID).
		First(&attendee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAttendeeNotFound
		}
		return nil, fmt.Errorf("failed to get attendee: %w", err)
	}
	return &attendee, nil
}

// ListAttendees lists the attendees of an assembly
func (s *pgStore) ListAttendees(ctx context.Context, assemblyID uint64) ([]schema.Attendee, error) {
	var attendees []schema.Attendee
	err := s.db.WithContext(ctx).
		Where("assembly_id = ?", assemblyID).
		Order("checked_in_at ASC").
		Find(&attendees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	return attendees, nil
}

// RevokeAttendee removes an attendee and their votes. Frozen final results
// are untouched; only open items are reported back for recomputation.
func (s *pgStore) RevokeAttendee(ctx context.Context, assemblyID, attendeeID uint64) ([]uint64, error) {
	var affected []uint64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attendee schema.Attendee
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND assembly_id = ?", attendeeID, assemblyID).
			First(&attendee).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAttendeeNotFound
			}
			return fmt.Errorf("failed to lock attendee: %w", err)
		}

		// Open items this attendee voted on need a recompute and rebroadcast
		err = tx.Model(&schema.Vote{}).
			Joins("JOIN agenda_items ON agenda_items.id = votes.agenda_item_id").
			Where("votes.attendee_id = ? AND agenda_items.status = ?", attendeeID, schema.AgendaItemStatusOpen).
			Pluck("votes.agenda_item_id", &affected).Error
		if err != nil {
			return fmt.Errorf("failed to find affected items: %w", err)
		}

		if err := tx.Where("attendee_id = ?", attendeeID).Delete(&schema.Vote{}).Error; err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if err := tx.Delete(&schema.Attendee{}, attendee.ID).Error; err != nil {
			return fmt.Errorf("failed to delete attendee: %w", err)
		}

		if len(affected) > 0 {
			err = tx.Model(&schema.AgendaItem{}).
				Where("id IN ?", affected).
				UpdateColumn("tally_version", gorm.Expr("tally_version + 1")).Error
			if err != nil {
				return fmt.Errorf("failed to bump tally versions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return affected, nil
}

// CastVote records the latest vote of an attendee on an open item. The item
// row lock serializes writes per item and makes the open check race-free
// against CloseAgendaItem; the unique (attendee_id, agenda_item_id) index
// backs the upsert.
func (s *pgStore) CastVote(ctx context.Context, assemblyID, itemID, attendeeID uint64, choice domain.Choice, now time.Time) (*schema.Vote, int64, error) {
	var vote schema.Vote
	var version int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item schema.AgendaItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND assembly_id = ?", itemID, assemblyID).
			First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAgendaItemNotFound
			}
			return fmt.Errorf("failed to lock agenda item: %w", err)
		}
		// Checked at the moment of write, not at request time
		if item.Status != schema.AgendaItemStatusOpen {
			return domain.ErrAgendaItemClosed
		}

		var attendee schema.Attendee
		err = tx.Where("id = ?", attendeeID).First(&attendee).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAttendeeNotFound
			}
			return fmt.Errorf("failed to get attendee: %w", err)
		}
		if attendee.AssemblyID != item.AssemblyID {
			return domain.ErrAttendeeNotFound
		}

		vote = schema.Vote{
			AttendeeID:   attendeeID,
			AgendaItemID: itemID,
			Choice:       choice,
			CastAt:       now,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "attendee_id"}, {Name: "agenda_item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"choice":     string(choice),
				"revised_at": now,
			}),
		}).Create(&vote).Error
		if err != nil {
			return fmt.Errorf("failed to upsert vote: %w", err)
		}

		// Reload the winning row; on conflict the insert returns the
		// placeholder struct, not the updated row
		err = tx.Where("attendee_id = ? AND agenda_item_id = ?", attendeeID, itemID).
			First(&vote).Error
		if err != nil {
			return fmt.Errorf("failed to reload vote: %w", err)
		}

		err = tx.Model(&schema.AgendaItem{}).
			Where("id = ?", itemID).
			UpdateColumn("tally_version", gorm.Expr("tally_version + 1")).Error
		if err != nil {
			return fmt.Errorf("failed to bump tally version: %w", err)
		}
		version = item.TallyVersion + 1
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &vote, version, nil
}

// GetTallyInputs reads everything the tally engine needs inside one
// repeatable-read transaction, so the computation never observes a partially
// applied write
func (s *pgStore) GetTallyInputs(ctx context.Context, itemID uint64) (*TallyInputs, error) {
	var inputs TallyInputs
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", itemID).First(&inputs.Item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAgendaItemNotFound
			}
			return fmt.Errorf("failed to get agenda item: %w", err)
		}

		err = tx.Where("id = ?", inputs.Item.AssemblyID).First(&inputs.Assembly).Error
		if err != nil {
			return fmt.Errorf("failed to get assembly: %w", err)
		}

		err = tx.Where("assembly_id = ?", inputs.Item.AssemblyID).Find(&inputs.Attendees).Error
		if err != nil {
			return fmt.Errorf("failed to list attendees: %w", err)
		}

		err = tx.Where("agenda_item_id = ?", itemID).Find(&inputs.Votes).Error
		if err != nil {
			return fmt.Errorf("failed to list votes: %w", err)
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return &inputs, nil
}

// CreateFinalResult freezes the outcome of a closed item. The first writer
// wins; a concurrent or repeated freeze leaves the stored result untouched and
// loads it back into result, so the call is idempotent.
func (s *pgStore) CreateFinalResult(ctx context.Context, result *schema.FinalResult) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "agenda_item_id"}},
			DoNothing: true,
		}).
		Create(result)
	if res.Error != nil {
		return fmt.Errorf("failed to create final result: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var existing schema.FinalResult
		err := s.db.WithContext(ctx).
			Where("agenda_item_id = ?", result.AgendaItemID).
			First(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to load frozen final result: %w", err)
		}
		*result = existing
	}

	return nil
}

// GetFinalResult retrieves the frozen result of a closed item
func (s *pgStore) GetFinalResult(ctx context.Context, itemID uint64) (*schema.FinalResult, error) {
	var result schema.FinalResult
	err := s.db.WithContext(ctx).Where("agenda_item_id = ?", itemID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFinalResultNotFound
		}
		return nil, fmt.Errorf("failed to get final result: %w", err)
	}
	return &result, nil
}

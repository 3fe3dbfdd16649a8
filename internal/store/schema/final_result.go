package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/upravnik/assembly-engine/internal/domain"
)

// FinalResult represents the final_results table - the tally snapshot frozen
// at the moment an agenda item closed, together with the resolved outcome
type FinalResult struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AgendaItemID references the closed agenda item; one result per item
	AgendaItemID uint64 `gorm:"column:agenda_item_id;not null;uniqueIndex"`
	// Outcome is approved, rejected or invalid (no quorum)
	Outcome domain.Outcome `gorm:"column:outcome;not null;type:text"`
	// Snapshot is the frozen TallySnapshot as JSON; later ledger changes
	// (e.g. attendee revocation) never touch it
	Snapshot datatypes.JSON `gorm:"column:snapshot;not null"`
	// ClosedAt is when the item closed
	ClosedAt time.Time `gorm:"column:closed_at;not null"`
}

// TableName specifies the table name for the FinalResult model
func (FinalResult) TableName() string {
	return "final_results"
}

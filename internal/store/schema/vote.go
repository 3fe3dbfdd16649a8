package schema

import (
	"time"

	"github.com/upravnik/assembly-engine/internal/domain"
)

// Vote represents the votes table - at most one row per (attendee, agenda
// item). A repeated cast overwrites the prior row; no history is kept.
type Vote struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AttendeeID references the voting attendee
	AttendeeID uint64 `gorm:"column:attendee_id;not null;uniqueIndex:idx_votes_attendee_item,priority:1"`
	// AgendaItemID references the voted agenda item
	AgendaItemID uint64 `gorm:"column:agenda_item_id;not null;uniqueIndex:idx_votes_attendee_item,priority:2;index"`
	// Choice is the latest ballot option of the attendee
	Choice domain.Choice `gorm:"column:choice;not null;type:text"`
	// CastAt is when the first vote of this key was recorded
	CastAt time.Time `gorm:"column:cast_at;not null"`
	// RevisedAt is set when a later cast overwrote the earlier one
	RevisedAt *time.Time `gorm:"column:revised_at"`
}

// TableName specifies the table name for the Vote model
func (Vote) TableName() string {
	return "votes"
}

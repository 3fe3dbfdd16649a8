package schema

import "time"

// AgendaItemStatus represents the voting lifecycle state of an agenda item
type AgendaItemStatus string

const (
	// AgendaItemStatusPending means the item was created but voting has not started
	AgendaItemStatusPending AgendaItemStatus = "pending"
	// AgendaItemStatusOpen means votes are being accepted
	AgendaItemStatusOpen AgendaItemStatus = "open"
	// AgendaItemStatusClosed is terminal; reopening is disallowed and
	// corrections require a new agenda item
	AgendaItemStatusClosed AgendaItemStatus = "closed"
)

// AgendaItem represents the agenda_items table - one independently-voted topic
// within an assembly
type AgendaItem struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssemblyID references the owning assembly
	AssemblyID uint64 `gorm:"column:assembly_id;not null;uniqueIndex:idx_agenda_items_assembly_position,priority:1"`
	// Position orders items within the assembly agenda
	Position int `gorm:"column:position;not null;uniqueIndex:idx_agenda_items_assembly_position,priority:2"`
	// Title is the voted question
	Title string `gorm:"column:title;not null;type:text"`
	// VotingType labels the decision rule of the item (e.g. simple majority);
	// the external business rule, not interpreted by the engine
	VotingType string `gorm:"column:voting_type;not null;type:text;default:simple_majority"`
	// MinParticipationPercent is the quorum threshold in whole percents of
	// total building mills
	MinParticipationPercent int64 `gorm:"column:min_participation_percent;not null"`
	// Status is the item lifecycle state
	Status AgendaItemStatus `gorm:"column:status;not null;type:text;default:pending;index"`
	// Deadline, when set, is the moment the sweeper closes the item automatically
	Deadline *time.Time `gorm:"column:deadline"`
	// OpenedAt is when the item transitioned pending -> open
	OpenedAt *time.Time `gorm:"column:opened_at"`
	// ClosedAt is when the item transitioned open -> closed
	ClosedAt *time.Time `gorm:"column:closed_at"`
	// TallyVersion increases by one in the same transaction as every ledger
	// mutation of this item, giving broadcast snapshots a strict per-item order
	TallyVersion int64 `gorm:"column:tally_version;not null;default:0"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`

	// Associations
	Votes       []Vote       `gorm:"foreignKey:AgendaItemID;constraint:OnDelete:CASCADE"`
	FinalResult *FinalResult `gorm:"foreignKey:AgendaItemID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the AgendaItem model
func (AgendaItem) TableName() string {
	return "agenda_items"
}

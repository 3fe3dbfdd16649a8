package schema

import "time"

// AssemblyStatus represents the lifecycle state of an assembly
type AssemblyStatus string

const (
	// AssemblyStatusScheduled means the assembly was created by building staff
	// but the live session has not started
	AssemblyStatusScheduled AssemblyStatus = "scheduled"
	// AssemblyStatusInProgress means the live session is running
	AssemblyStatusInProgress AssemblyStatus = "in_progress"
	// AssemblyStatusClosed means the session ended; no further registrations
	AssemblyStatusClosed AssemblyStatus = "closed"
)

// Assembly represents the assemblies table - one general meeting of a building
type Assembly struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// BuildingID references the building in the external building service
	BuildingID uint64 `gorm:"column:building_id;not null;index"`
	// Title is the human-readable name of the meeting
	Title string `gorm:"column:title;not null;type:text"`
	// ScheduledAt is when the live session is planned to start
	ScheduledAt time.Time `gorm:"column:scheduled_at;not null"`
	// Status is the assembly lifecycle state
	Status AssemblyStatus `gorm:"column:status;not null;type:text;default:scheduled"`
	// TotalBuildingMills is the fixed total of all apartments' ownership
	// shares. Invariant: constant for the assembly's duration; all
	// participation percentages are computed against it.
	TotalBuildingMills int64 `gorm:"column:total_building_mills;not null"`
	// AllowConcurrentItems permits more than one agenda item to be open at a time
	AllowConcurrentItems bool `gorm:"column:allow_concurrent_items;not null;default:false"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`

	// Associations
	AgendaItems []AgendaItem `gorm:"foreignKey:AssemblyID;constraint:OnDelete:CASCADE"`
	Attendees   []Attendee   `gorm:"foreignKey:AssemblyID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Assembly model
func (Assembly) TableName() string {
	return "assemblies"
}

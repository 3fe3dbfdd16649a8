package schema

import "time"

// Attendee represents the attendees table - a checked-in apartment
// representative for one assembly, carrying a frozen mills weight
type Attendee struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssemblyID references the owning assembly
	AssemblyID uint64 `gorm:"column:assembly_id;not null;uniqueIndex:idx_attendees_assembly_apartment,priority:1"`
	// ApartmentID references the apartment in the external building service;
	// an apartment checks in at most once per assembly
	ApartmentID uint64 `gorm:"column:apartment_id;not null;uniqueIndex:idx_attendees_assembly_apartment,priority:2"`
	// RepresentativeName is the person voting on behalf of the apartment
	RepresentativeName string `gorm:"column:representative_name;not null;type:text"`
	// Mills is the apartment's per-mille ownership share copied at check-in.
	// Invariant: never recalculated afterward, even if ownership changes
	// mid-assembly.
	Mills int64 `gorm:"column:mills;not null"`
	// CheckedInAt is the check-in timestamp
	CheckedInAt time.Time `gorm:"column:checked_in_at;not null;default:now()"`

	// Associations
	Votes []Vote `gorm:"foreignKey:AttendeeID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Attendee model
func (Attendee) TableName() string {
	return "attendees"
}

package dto

import (
	"time"

	"github.com/upravnik/assembly-engine/internal/domain"
)

// AssemblyResponse represents an assembly
type AssemblyResponse struct {
	ID                   uint64    `json:"id"`
	BuildingID           uint64    `json:"building_id"`
	Title                string    `json:"title"`
	ScheduledAt          time.Time `json:"scheduled_at"`
	Status               string    `json:"status"`
	TotalBuildingMills   int64     `json:"total_building_mills"`
	AllowConcurrentItems bool      `json:"allow_concurrent_items"`
	CreatedAt            time.Time `json:"created_at"`
	// AgendaItemCount and AttendeeCount summarize the current session state;
	// RepresentedMills is the registered share of TotalBuildingMills
	AgendaItemCount  int   `json:"agenda_item_count"`
	AttendeeCount    int   `json:"attendee_count"`
	RepresentedMills int64 `json:"represented_mills"`
}

// AttendeeResponse represents a checked-in apartment representative
type AttendeeResponse struct {
	ID                 uint64    `json:"id"`
	AssemblyID         uint64    `json:"assembly_id"`
	ApartmentID        uint64    `json:"apartment_id"`
	RepresentativeName string    `json:"representative_name"`
	Mills              int64     `json:"mills"`
	CheckedInAt        time.Time `json:"checked_in_at"`
}

// AttendeeListResponse represents the attendee roster of an assembly
type AttendeeListResponse struct {
	Attendees []AttendeeResponse `json:"items"`
	// TotalMills is the sum of registered mills, i.e. the represented share
	TotalMills int64 `json:"total_mills"`
}

// AgendaItemResponse represents one agenda item
type AgendaItemResponse struct {
	ID                      uint64     `json:"id"`
	AssemblyID              uint64     `json:"assembly_id"`
	Position                int        `json:"position"`
	Title                   string     `json:"title"`
	VotingType              string     `json:"voting_type"`
	MinParticipationPercent int64      `json:"min_participation_percent"`
	Status                  string     `json:"status"`
	Deadline                *time.Time `json:"deadline,omitempty"`
	OpenedAt                *time.Time `json:"opened_at,omitempty"`
	ClosedAt                *time.Time `json:"closed_at,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
}

// AgendaListResponse represents the ordered agenda of an assembly
type AgendaListResponse struct {
	Items []AgendaItemResponse `json:"items"`
}

// CastVoteResponse echoes the recorded vote together with the tally that
// includes it. Snapshot may be absent when the tally read failed after the
// vote committed; the vote itself still counted.
type CastVoteResponse struct {
	AttendeeID   uint64                `json:"attendee_id"`
	AgendaItemID uint64                `json:"agenda_item_id"`
	Choice       string                `json:"choice"`
	CastAt       time.Time             `json:"cast_at"`
	RevisedAt    *time.Time            `json:"revised_at,omitempty"`
	Snapshot     *domain.TallySnapshot `json:"snapshot,omitempty"`
}

// FinalResultResponse represents the frozen outcome of a closed item
type FinalResultResponse struct {
	AgendaItemID uint64                `json:"agenda_item_id"`
	Outcome      domain.Outcome        `json:"outcome"`
	Snapshot     *domain.TallySnapshot `json:"snapshot"`
	ClosedAt     time.Time             `json:"closed_at"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

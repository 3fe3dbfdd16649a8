package dto

import "time"

// CreateAssemblyRequest is the payload for scheduling a new assembly
type CreateAssemblyRequest struct {
	BuildingID  uint64    `json:"building_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	// TotalBuildingMills is fixed for the assembly's whole duration
	TotalBuildingMills   int64 `json:"total_building_mills" binding:"required"`
	AllowConcurrentItems bool  `json:"allow_concurrent_items"`
}

// RegisterAttendeeRequest is the payload for checking in an apartment
type RegisterAttendeeRequest struct {
	ApartmentID        uint64 `json:"apartment_id" binding:"required"`
	RepresentativeName string `json:"representative_name" binding:"required"`
	// Mills is the apartment's per-mille share, frozen at check-in
	Mills int64 `json:"mills" binding:"required"`
}

// CreateAgendaItemRequest is the payload for appending an agenda item
type CreateAgendaItemRequest struct {
	Position   int    `json:"position" binding:"required"`
	Title      string `json:"title" binding:"required"`
	VotingType string `json:"voting_type"`
	// MinParticipationPercent is the quorum threshold in whole percents
	MinParticipationPercent int64 `json:"min_participation_percent"`
	// Deadline, when set, auto-closes the item once passed
	Deadline *time.Time `json:"deadline"`
}

// CastVoteRequest is the payload for casting or revising a vote
type CastVoteRequest struct {
	AttendeeID uint64 `json:"attendee_id" binding:"required"`
	Choice     string `json:"choice" binding:"required"`
}

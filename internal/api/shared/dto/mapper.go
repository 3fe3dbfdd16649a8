package dto

import (
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/store/schema"
)

// AssemblyToResponse converts an assembly row to its API representation
func AssemblyToResponse(a *schema.Assembly) *AssemblyResponse {
	return &AssemblyResponse{
		ID:                   a.ID,
		BuildingID:           a.BuildingID,
		Title:                a.Title,
		ScheduledAt:          a.ScheduledAt,
		Status:               string(a.Status),
		TotalBuildingMills:   a.TotalBuildingMills,
		AllowConcurrentItems: a.AllowConcurrentItems,
		CreatedAt:            a.CreatedAt,
	}
}

// AttendeeToResponse converts an attendee row to its API representation
func AttendeeToResponse(a *schema.Attendee) *AttendeeResponse {
	return &AttendeeResponse{
		ID:                 a.ID,
		AssemblyID:         a.AssemblyID,
		ApartmentID:        a.ApartmentID,
		RepresentativeName: a.RepresentativeName,
		Mills:              a.Mills,
		CheckedInAt:        a.CheckedInAt,
	}
}

// AttendeesToListResponse converts the roster with its mills sum
func AttendeesToListResponse(attendees []schema.Attendee) *AttendeeListResponse {
	resp := &AttendeeListResponse{
		Attendees: make([]AttendeeResponse, 0, len(attendees)),
	}
	for i := range attendees {
		resp.Attendees = append(resp.Attendees, *AttendeeToResponse(&attendees[i]))
		resp.TotalMills += attendees[i].Mills
	}
	return resp
}

// AgendaItemToResponse converts an agenda item row to its API representation
func AgendaItemToResponse(item *schema.AgendaItem) *AgendaItemResponse {
	return &AgendaItemResponse{
		ID:                      item.ID,
		AssemblyID:              item.AssemblyID,
		Position:                item.Position,
		Title:                   item.Title,
		VotingType:              item.VotingType,
		MinParticipationPercent: item.MinParticipationPercent,
		Status:                  string(item.Status),
		Deadline:                item.Deadline,
		OpenedAt:                item.OpenedAt,
		ClosedAt:                item.ClosedAt,
		CreatedAt:               item.CreatedAt,
	}
}

// AgendaItemsToListResponse converts an ordered agenda
func AgendaItemsToListResponse(items []schema.AgendaItem) *AgendaListResponse {
	resp := &AgendaListResponse{
		Items: make([]AgendaItemResponse, 0, len(items)),
	}
	for i := range items {
		resp.Items = append(resp.Items, *AgendaItemToResponse(&items[i]))
	}
	return resp
}

// VoteToResponse converts a vote row and its snapshot to the cast response
func VoteToResponse(vote *schema.Vote, snap *domain.TallySnapshot) *CastVoteResponse {
	return &CastVoteResponse{
		AttendeeID:   vote.AttendeeID,
		AgendaItemID: vote.AgendaItemID,
		Choice:       string(vote.Choice),
		CastAt:       vote.CastAt,
		RevisedAt:    vote.RevisedAt,
		Snapshot:     snap,
	}
}

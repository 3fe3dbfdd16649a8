package tally

import (
	"time"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/store/schema"
)

// Compute aggregates the vote ledger of one agenda item into a TallySnapshot.
// It is a pure function over a consistent read of the ledger; no counters are
// maintained anywhere else, which rules out drift between writes and reads.
// Cost is bounded by the number of attendees, never by ledger history.
func Compute(assembly schema.Assembly, item schema.AgendaItem, attendees []schema.Attendee, votes []schema.Vote, computedAt time.Time) domain.TallySnapshot {
	millsByAttendee := make(map[uint64]int64, len(attendees))
	for _, a := range attendees {
		millsByAttendee[a.ID] = a.Mills
	}

	snap := domain.TallySnapshot{
		AgendaItemID:  item.ID,
		AssemblyID:    item.AssemblyID,
		LeadingChoice: domain.LeadingDraw,
		Version:       item.TallyVersion,
		ComputedAt:    computedAt,
	}

	for _, v := range votes {
		mills, ok := millsByAttendee[v.AttendeeID]
		if !ok {
			// Vote of a revoked attendee; excluded from the tally
			continue
		}
		switch v.Choice {
		case domain.ChoiceApprove:
			snap.ApproveMills += mills
			snap.ApproveCount++
		case domain.ChoiceReject:
			snap.RejectMills += mills
			snap.RejectCount++
		case domain.ChoiceAbstain:
			snap.AbstainMills += mills
			snap.AbstainCount++
		}
	}

	snap.TotalVotedMills = snap.ApproveMills + snap.RejectMills + snap.AbstainMills

	if assembly.TotalBuildingMills > 0 {
		// Integer division floors, matching the quorum boundary rule
		snap.ParticipationPercent = snap.TotalVotedMills * 100 / assembly.TotalBuildingMills
	}

	// Per-choice percentages are over votes cast, abstain included, so the
	// three of them sum to 100 whenever any vote exists
	if snap.TotalVotedMills > 0 {
		total := float64(snap.TotalVotedMills)
		snap.ApprovePercent = float64(snap.ApproveMills) / total * 100
		snap.RejectPercent = float64(snap.RejectMills) / total * 100
		snap.AbstainPercent = float64(snap.AbstainMills) / total * 100
	}

	snap.IsValid = snap.ParticipationPercent >= item.MinParticipationPercent

	switch {
	case snap.ApproveMills > snap.RejectMills:
		snap.LeadingChoice = domain.LeadingApprove
	case snap.RejectMills > snap.ApproveMills:
		snap.LeadingChoice = domain.LeadingReject
	default:
		snap.LeadingChoice = domain.LeadingDraw
	}

	return snap
}

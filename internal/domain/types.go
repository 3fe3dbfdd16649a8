package domain

import "time"

// Choice is a closed enum of ballot options. Anything else is rejected at the
// system boundary.
type Choice string

const (
	ChoiceApprove Choice = "approve"
	ChoiceReject  Choice = "reject"
	ChoiceAbstain Choice = "abstain"
)

// Valid reports whether the choice is one of the known ballot options
func (c Choice) Valid() bool {
	switch c {
	case ChoiceApprove, ChoiceReject, ChoiceAbstain:
		return true
	}
	return false
}

// Leading identifies which binding choice currently carries the most mills
type Leading string

const (
	LeadingApprove Leading = "approve"
	LeadingReject  Leading = "reject"
	// LeadingDraw is reported when approve and reject mills are equal.
	// Abstain never leads.
	LeadingDraw Leading = "draw"
)

// Outcome is the frozen result of a closed agenda item
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
	// OutcomeInvalid means the participation quorum was not reached,
	// irrespective of the mills comparison
	OutcomeInvalid Outcome = "invalid"
)

// TallySnapshot is a computed, versioned, point-in-time aggregation of the
// vote ledger for one agenda item. It is always recomputed from the ledger,
// never incrementally maintained.
type TallySnapshot struct {
	AgendaItemID uint64 `json:"agenda_item_id"`
	AssemblyID   uint64 `json:"assembly_id"`

	ApproveMills int64 `json:"approve_mills"`
	RejectMills  int64 `json:"reject_mills"`
	AbstainMills int64 `json:"abstain_mills"`

	ApproveCount int `json:"approve_count"`
	RejectCount  int `json:"reject_count"`
	AbstainCount int `json:"abstain_count"`

	// TotalVotedMills is the sum of the three mills buckets
	TotalVotedMills int64 `json:"total_voted_mills"`

	// ParticipationPercent is floor(total_voted_mills / total_building_mills * 100)
	ParticipationPercent int64 `json:"participation_percent"`

	// Per-choice percentages are computed over votes cast, not over total
	// building mills, so the three of them sum to 100 whenever any vote exists
	ApprovePercent float64 `json:"approve_percent"`
	RejectPercent  float64 `json:"reject_percent"`
	AbstainPercent float64 `json:"abstain_percent"`

	IsValid       bool    `json:"is_valid"`
	LeadingChoice Leading `json:"leading_choice"`

	// Version increases monotonically with every ledger mutation of the item;
	// clients replace older snapshots, never merge
	Version    int64     `json:"version"`
	ComputedAt time.Time `json:"computed_at"`
}

// TallyEvent is the payload published to the tally stream whenever the ledger
// of an open item changes, and once more when the item closes
type TallyEvent struct {
	// EventID is a ULID; the broker delivers at least once and subscribers may
	// use it to deduplicate
	EventID    string        `json:"event_id"`
	AssemblyID uint64        `json:"assembly_id"`
	Snapshot   TallySnapshot `json:"snapshot"`

	// Final marks the close event; Outcome is set only when Final is true
	Final   bool    `json:"final"`
	Outcome Outcome `json:"outcome,omitempty"`
}

package reward

import "time"

const (
	BaseXP           = 100
	OnTimeBonusXP    = 25
	EvidenceBonusXP  = 20
	LeaderPerMember  = 10
	OnTimeTolerance  = 5 * time.Minute
	ShowdownMultiple = 2
)

// Input is everything ComputeXP needs. It is assembled by the finalize step
// from the verification outcome, the quest schedule and a live squad
// snapshot; the calculator itself touches no external state.
type Input struct {
	OnTime           bool
	HasEvidence      bool
	Skipped          bool
	IsLeader         bool
	SquadSize        int
	MultiplierActive bool
}

// Outcome is attached to the completion response so the client can render
// the celebration with the right breakdown flags.
type Outcome struct {
	XP               int  `json:"xp"`
	MultiplierActive bool `json:"multiplierActive"`
	HasEvidence      bool `json:"hasEvidence"`
}

// ComputeXP applies the reward rules in a fixed order: base award, on-time
// bonus, evidence bonus, leader squad bonus, then the showdown multiplier on
// the accumulated total.
//
// Skipping evidence forfeits the entire award, including the on-time bonus.
// The product copy only promises "reduced XP", so this reads like a bug, but
// it is the shipped behavior and changing it is a product decision; the
// regression test pins it down.
func ComputeXP(in Input) int {
	xp := BaseXP

	if in.OnTime {
		xp += OnTimeBonusXP
	}

	if in.Skipped {
		return 0
	}
	if in.HasEvidence {
		xp += EvidenceBonusXP
	}

	if in.HasEvidence && in.IsLeader && in.SquadSize > 1 {
		xp += (in.SquadSize - 1) * LeaderPerMember
	}

	if in.MultiplierActive {
		xp *= ShowdownMultiple
	}

	if xp < 0 {
		xp = 0
	}
	return xp
}

// OnTime reports whether a verification timestamp counts as punctual:
// no later than the scheduled start plus the tolerance. Arriving early is
// always on time.
func OnTime(verifiedAt, scheduledAt time.Time) bool {
	return !verifiedAt.After(scheduledAt.Add(OnTimeTolerance))
}

package quest

import (
	"strings"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/utils"
)

// QuestStatus represents the lifecycle state of a quest
type QuestStatus string

const (
	StatusOpen      QuestStatus = "open"
	StatusCompleted QuestStatus = "completed"
	StatusCancelled QuestStatus = "cancelled"
)

// Quest is a scheduled group activity tied to a hub. Completion fields are
// mutated only through the verification finalize step.
type Quest struct {
	ID                string      `firestore:"id" json:"id"`
	Title             string      `firestore:"title" json:"title"`
	ScheduledAt       time.Time   `firestore:"scheduledAt" json:"scheduledAt"`
	HostID            string      `firestore:"hostId" json:"hostId"`
	Status            QuestStatus `firestore:"status" json:"status"`
	GenderRequirement string      `firestore:"genderRequirement,omitempty" json:"genderRequirement,omitempty"`
	MemberCount       int         `firestore:"memberCount" json:"memberCount"`
	HubID             string      `firestore:"hubId,omitempty" json:"hubId,omitempty"`
	HubName           string      `firestore:"hubName,omitempty" json:"hubName,omitempty"`
	Vibe              string      `firestore:"vibe,omitempty" json:"vibe,omitempty"`
	CompletedAt       *time.Time  `firestore:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt         time.Time   `firestore:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time   `firestore:"updatedAt" json:"updatedAt"`
}

// SquadMember is a participant record in the quest's member subcollection.
// The document ID is the member's uid.
type SquadMember struct {
	UID      string    `firestore:"uid" json:"uid"`
	IsLeader bool      `firestore:"isLeader" json:"isLeader"`
	JoinedAt time.Time `firestore:"joinedAt" json:"joinedAt"`
}

// CreateQuestInput represents input for creating a quest
type CreateQuestInput struct {
	Title             string `json:"title"`
	ScheduledAt       string `json:"scheduledAt"`
	HubID             string `json:"hubId,omitempty"`
	HubName           string `json:"hubName,omitempty"`
	GenderRequirement string `json:"genderRequirement,omitempty"`
	Vibe              string `json:"vibe,omitempty"`
}

func (in *CreateQuestInput) Trim() {
	in.Title = utils.TrimMax(in.Title, 120)
	in.ScheduledAt = strings.TrimSpace(in.ScheduledAt)
	in.HubID = strings.TrimSpace(in.HubID)
	in.HubName = strings.TrimSpace(in.HubName)
	in.GenderRequirement = strings.TrimSpace(in.GenderRequirement)
	in.Vibe = strings.TrimSpace(in.Vibe)
}

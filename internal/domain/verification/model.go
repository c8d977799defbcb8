package verification

import (
	"strings"
	"time"

	"github.com/Ayuu1305/squad-quest-sub002/internal/utils"
)

// Record is the persisted outcome of a verification attempt, one per
// (quest, user). The document ID is the user's uid, which makes the
// at-most-one invariant structural: a retried write after a failed finalize
// lands on the same document.
type Record struct {
	QuestID          string    `firestore:"-" json:"questId"`
	UID              string    `firestore:"uid" json:"uid"`
	LocationVerified bool      `firestore:"locationVerified" json:"locationVerified"`
	CodeVerified     bool      `firestore:"codeVerified" json:"codeVerified"`
	PhotoPath        string    `firestore:"photoPath,omitempty" json:"photoPath,omitempty"`
	VerifiedAt       time.Time `firestore:"verifiedAt" json:"verifiedAt"`
}

// PeerReview is a post-quest review of one squadmate by another.
type PeerReview struct {
	RevieweeUID string `json:"revieweeUid"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment,omitempty"`
}

func (p *PeerReview) Trim() {
	p.RevieweeUID = strings.TrimSpace(p.RevieweeUID)
	p.Comment = utils.TrimMax(p.Comment, 500)
}

// LocationReport is what the client sends after its geolocation scan: either
// a fix or the reason there is none.
type LocationReport struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Failure   string   `json:"failure,omitempty"`
}

package profile

import (
	"strings"
	"time"
)

// UserProfile is the per-user document. The three XP balances are bumped by
// atomic increments from the verification finalize step; this package never
// computes them.
type UserProfile struct {
	UID              string    `firestore:"uid" json:"uid"`
	Email            string    `firestore:"email,omitempty" json:"email,omitempty"`
	DisplayName      string    `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL         string    `firestore:"photoURL,omitempty" json:"photoURL,omitempty"`
	City             string    `firestore:"city,omitempty" json:"city,omitempty"`
	Gender           string    `firestore:"gender,omitempty" json:"gender,omitempty"`
	XP               int64     `firestore:"xp" json:"xp"`
	ThisWeekXP       int64     `firestore:"thisWeekXP" json:"thisWeekXP"`
	LifetimeXP       int64     `firestore:"lifetimeXP" json:"lifetimeXP"`
	ReliabilityScore int64     `firestore:"reliabilityScore" json:"reliabilityScore"`
	CreatedAt        time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt        time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UpdateProfileInput represents input for updating a profile
type UpdateProfileInput struct {
	DisplayName *string `json:"displayName,omitempty"`
	PhotoURL    *string `json:"photoURL,omitempty"`
	City        *string `json:"city,omitempty"`
}

func (in *UpdateProfileInput) Trim() {
	if in.DisplayName != nil {
		*in.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.PhotoURL != nil {
		*in.PhotoURL = strings.TrimSpace(*in.PhotoURL)
	}
	if in.City != nil {
		*in.City = strings.TrimSpace(*in.City)
	}
}

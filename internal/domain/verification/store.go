package verification

import (
	"context"

	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/evidence"
)

// Store is the persistence boundary for the finalize step. The document
// store supports atomic point-writes and consistent point-reads but no
// cross-collection transactions: SaveRecord is the durability boundary,
// while MarkCompleted and AwardXP are independent calls that may fail after
// it succeeds (logged, not fatal).
type Store interface {
	// SquadSize counts the quest's members at call time. Finalize must use
	// this, never a value cached earlier in the session.
	SquadSize(ctx context.Context, questID string) (int, error)

	// IsLeader reports whether uid carries the quest's leader flag.
	IsLeader(ctx context.Context, questID, uid string) (bool, error)

	// HasRecord reports whether a verification record already exists for
	// (quest, user). Start uses it to refuse a second full pipeline run,
	// which would award XP again.
	HasRecord(ctx context.Context, questID, uid string) (bool, error)

	// SaveRecord persists the verification record. Keyed by (quest, user),
	// so attempting it again after a genuine failure is a correction, not a
	// duplicate reward.
	SaveRecord(ctx context.Context, rec Record) error

	// MarkCompleted flips the quest's completion fields.
	MarkCompleted(ctx context.Context, questID, uid string) error

	// AwardXP bumps the user's XP balances by server-side atomic increments.
	AwardXP(ctx context.Context, uid string, xp int) error

	// SubmitReviews writes the reviewer's peer reviews for the quest.
	SubmitReviews(ctx context.Context, questID, reviewerUID string, reviews []PeerReview) error
}

// Uploader stores a compressed evidence photo and returns its object path.
type Uploader interface {
	Upload(ctx context.Context, questID, uid string, p *evidence.Payload) (string, error)
}

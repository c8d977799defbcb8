package verification

import (
	"context"
	"fmt"

	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/quest"

	"cloud.google.com/go/firestore"
)

// Repo is the Firestore-backed Store. Member reads and quest completion
// delegate to the quest repo; records, XP and reviews are owned here.
type Repo struct {
	client    *firestore.Client
	questRepo *quest.Repo
}

func NewRepo(client *firestore.Client, questRepo *quest.Repo) *Repo {
	return &Repo{client: client, questRepo: questRepo}
}

func (r *Repo) recordsCol(questID string) *firestore.CollectionRef {
	return r.client.Collection("quests").Doc(questID).Collection("verifications")
}

func (r *Repo) SquadSize(ctx context.Context, questID string) (int, error) {
	return r.questRepo.SquadSize(ctx, questID)
}

func (r *Repo) IsLeader(ctx context.Context, questID, uid string) (bool, error) {
	m, err := r.questRepo.GetMember(ctx, questID, uid)
	if err != nil {
		return false, err
	}
	return m.IsLeader, nil
}

// HasRecord checks for an existing verification record. A missing document
// is a normal outcome, not an error.
func (r *Repo) HasRecord(ctx context.Context, questID, uid string) (bool, error) {
	doc, err := r.recordsCol(questID).Doc(uid).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return false, nil
		}
		return false, fmt.Errorf("failed to read verification record: %w", err)
	}
	return true, nil
}

// SaveRecord writes the verification record keyed by uid. Set (not Create)
// on purpose: a retry after a failed finalize must be able to land on the
// same document.
func (r *Repo) SaveRecord(ctx context.Context, rec Record) error {
	_, err := r.recordsCol(rec.QuestID).Doc(rec.UID).Set(ctx, map[string]interface{}{
		"uid":              rec.UID,
		"locationVerified": rec.LocationVerified,
		"codeVerified":     rec.CodeVerified,
		"photoPath":        rec.PhotoPath,
		"verifiedAt":       firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to save verification record: %w", err)
	}
	return nil
}

func (r *Repo) MarkCompleted(ctx context.Context, questID, uid string) error {
	return r.questRepo.MarkCompleted(ctx, questID, uid)
}

// AwardXP bumps all three balances atomically server-side; no read-modify-
// write, so concurrent awards to the same user cannot lose updates.
func (r *Repo) AwardXP(ctx context.Context, uid string, xp int) error {
	if xp <= 0 {
		return nil
	}
	_, err := r.client.Collection("users").Doc(uid).Set(ctx, map[string]interface{}{
		"xp":         firestore.Increment(xp),
		"thisWeekXP": firestore.Increment(xp),
		"lifetimeXP": firestore.Increment(xp),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to award xp: %w", err)
	}
	return nil
}

// SubmitReviews writes one review doc per squadmate in a single batch. The
// doc ID is reviewer_reviewee, so re-submitting overwrites rather than
// duplicating.
func (r *Repo) SubmitReviews(ctx context.Context, questID, reviewerUID string, reviews []PeerReview) error {
	if len(reviews) == 0 {
		return nil
	}

	col := r.client.Collection("quests").Doc(questID).Collection("reviews")
	batch := r.client.Batch()
	for _, rev := range reviews {
		rev.Trim()
		if rev.RevieweeUID == "" || rev.RevieweeUID == reviewerUID {
			continue
		}
		docID := reviewerUID + "_" + rev.RevieweeUID
		batch.Set(col.Doc(docID), map[string]interface{}{
			"reviewerUid": reviewerUID,
			"revieweeUid": rev.RevieweeUID,
			"rating":      rev.Rating,
			"comment":     rev.Comment,
			"createdAt":   firestore.ServerTimestamp,
		})
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to submit reviews: %w", err)
	}
	return nil
}

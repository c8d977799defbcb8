package quest

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
)

type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.client.Collection("quests")
}

func (r *Repo) membersCol(questID string) *firestore.CollectionRef {
	return r.col().Doc(questID).Collection("members")
}

// Get retrieves a quest by ID
func (r *Repo) Get(ctx context.Context, questID string) (*Quest, error) {
	doc, err := r.col().Doc(questID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: quest not found", ErrNotFound)
	}

	var q Quest
	if err := doc.DataTo(&q); err != nil {
		return nil, fmt.Errorf("failed to decode quest: %w", err)
	}
	q.ID = doc.Ref.ID
	return &q, nil
}

// Create creates a quest with its host as the first (leader) member.
func (r *Repo) Create(ctx context.Context, hostUID string, q Quest) (*Quest, error) {
	ref := r.col().NewDoc()

	batch := r.client.Batch()
	batch.Set(ref, map[string]interface{}{
		"title":             q.Title,
		"scheduledAt":       q.ScheduledAt,
		"hostId":            hostUID,
		"status":            StatusOpen,
		"genderRequirement": q.GenderRequirement,
		"memberCount":       1,
		"hubId":             q.HubID,
		"hubName":           q.HubName,
		"vibe":              q.Vibe,
		"createdAt":         firestore.ServerTimestamp,
		"updatedAt":         firestore.ServerTimestamp,
	})
	batch.Set(r.membersCol(ref.ID).Doc(hostUID), map[string]interface{}{
		"uid":      hostUID,
		"isLeader": true,
		"joinedAt": firestore.ServerTimestamp,
	})

	if _, err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create quest: %w", err)
	}

	q.ID = ref.ID
	q.HostID = hostUID
	q.Status = StatusOpen
	q.MemberCount = 1
	return &q, nil
}

// Members lists the quest's squad, leader first by join order.
func (r *Repo) Members(ctx context.Context, questID string) ([]SquadMember, error) {
	iter := r.membersCol(questID).OrderBy("joinedAt", firestore.Asc).Documents(ctx)

	var members []SquadMember
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}

		var m SquadMember
		if err := doc.DataTo(&m); err != nil {
			continue
		}
		m.UID = doc.Ref.ID
		members = append(members, m)
	}
	return members, nil
}

// GetMember fetches one member record, or ErrNotFound if the user never joined.
func (r *Repo) GetMember(ctx context.Context, questID, uid string) (*SquadMember, error) {
	doc, err := r.membersCol(questID).Doc(uid).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: not a squad member", ErrNotFound)
	}
	var m SquadMember
	if err := doc.DataTo(&m); err != nil {
		return nil, fmt.Errorf("failed to decode member: %w", err)
	}
	m.UID = doc.Ref.ID
	return &m, nil
}

// Join adds a member. Members can join right up to the verification window,
// so the reward path never trusts a cached count; see SquadSize.
func (r *Repo) Join(ctx context.Context, questID, uid string) error {
	batch := r.client.Batch()
	batch.Set(r.membersCol(questID).Doc(uid), map[string]interface{}{
		"uid":      uid,
		"isLeader": false,
		"joinedAt": firestore.ServerTimestamp,
	})
	batch.Set(r.col().Doc(questID), map[string]interface{}{
		"memberCount": firestore.Increment(1),
		"updatedAt":   firestore.ServerTimestamp,
	}, firestore.MergeAll)

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to join quest: %w", err)
	}
	return nil
}

// SquadSize counts the member subcollection server-side. Finalize calls this
// at the moment of submission rather than reusing a session-cached value.
func (r *Repo) SquadSize(ctx context.Context, questID string) (int, error) {
	agg, err := r.membersCol(questID).NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count squad members: %w", err)
	}

	v, ok := agg["count"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count aggregation missing from result")
	}
	return int(v.GetIntegerValue()), nil
}

// MarkCompleted sets the quest's completion fields. Invoked only by the
// verification finalize step; tolerant of being applied twice.
func (r *Repo) MarkCompleted(ctx context.Context, questID, uid string) error {
	_, err := r.col().Doc(questID).Set(ctx, map[string]interface{}{
		"status":      StatusCompleted,
		"completedAt": firestore.ServerTimestamp,
		"completedBy": uid,
		"updatedAt":   firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to mark quest completed: %w", err)
	}
	return nil
}

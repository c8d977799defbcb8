package rank

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

func (r *Repo) users() *firestore.CollectionRef {
	return r.client.Collection("users")
}

// CountAbove counts peers in the city whose score for the field is strictly
// greater than score, using a server-side COUNT aggregation.
func (r *Repo) CountAbove(ctx context.Context, city, field string, score int64) (int, error) {
	q := r.users().
		Where("city", "==", city).
		Where(field, ">", score)
	agg, err := q.NewAggregationQuery().
		WithCount("count").
		Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count peers: %w", err)
	}

	v, ok := agg["count"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count aggregation missing from result")
	}
	return int(v.GetIntegerValue()), nil
}

// TopN returns the highest-N users in the city for the field, descending.
// This is the public leaderboard listing; it is never used to derive an
// individual's rank because the two reads can race and transiently disagree.
func (r *Repo) TopN(ctx context.Context, city, field string, n int) ([]Entry, error) {
	iter := r.users().
		Where("city", "==", city).
		OrderBy(field, firestore.Desc).
		Limit(n).
		Documents(ctx)

	var entries []Entry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list leaderboard: %w", err)
		}

		data := doc.Data()
		e := Entry{UID: doc.Ref.ID}
		if v, ok := data["displayName"].(string); ok {
			e.DisplayName = v
		}
		if v, ok := data["photoURL"].(string); ok {
			e.PhotoURL = v
		}
		if v, ok := data[field].(int64); ok {
			e.Score = v
		}
		entries = append(entries, e)
	}
	return entries, nil
}

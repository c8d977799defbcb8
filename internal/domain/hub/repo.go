package hub

import (
	"context"
	"fmt"

	"github.com/Ayuu1305/squad-quest-sub002/internal/utils"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	client *firestore.Client
}

func NewRepo(client *firestore.Client) *Repo {
	return &Repo{client: client}
}

func (r *Repo) col() *firestore.CollectionRef {
	return r.client.Collection("hubs")
}

// Get retrieves a hub by document ID. Coordinates are resolved from the raw
// document data so callers never re-implement the legacy field fallback.
func (r *Repo) Get(ctx context.Context, hubID string) (*Hub, error) {
	doc, err := r.col().Doc(hubID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: hub not found", ErrNotFound)
	}
	return fromDoc(doc.Ref.ID, doc.Data())
}

// GetByName retrieves a hub by normalized display name. Quests created by
// older app versions reference their hub by name instead of ID.
func (r *Repo) GetByName(ctx context.Context, name string) (*Hub, error) {
	nameLower := utils.NormalizeNameLower(name)
	if nameLower == "" {
		return nil, fmt.Errorf("%w: hub name is required", ErrBadRequest)
	}

	iter := r.col().Where("nameLower", "==", nameLower).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("%w: no hub named %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query hub by name: %w", err)
	}
	return fromDoc(doc.Ref.ID, doc.Data())
}

func fromDoc(id string, data map[string]interface{}) (*Hub, error) {
	h := &Hub{ID: id}
	if v, ok := data["name"].(string); ok {
		h.Name = v
	}
	if v, ok := data["nameLower"].(string); ok {
		h.NameLower = v
	} else {
		h.NameLower = utils.NormalizeNameLower(h.Name)
	}
	if v, ok := data["secretCode"].(string); ok {
		h.Secret = v
	}

	// A missing pair is not fatal here; the geofence layer surfaces it as a
	// distinct data-integrity failure when the hub is actually used.
	if c, err := ResolveCoordinates(data); err == nil {
		h.Coords = &c
	}
	return h, nil
}

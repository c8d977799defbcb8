package evidence

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store uploads compressed evidence photos to the Cloud Storage bucket and
// hands back the object path persisted on the verification record.
type Store struct {
	client *storage.Client
	bucket string
}

func NewStore(client *storage.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Upload writes the payload under the quest's evidence prefix. The object
// name carries a UUID so a re-captured photo never overwrites an earlier one.
func (s *Store) Upload(ctx context.Context, questID, uid string, p *Payload) (string, error) {
	if s.bucket == "" {
		return "", fmt.Errorf("storage bucket is not configured")
	}

	objectPath := fmt.Sprintf("quests/%s/evidence/%s-%s.jpg", questID, uid, uuid.NewString())

	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = "image/jpeg"
	if _, err := w.Write(p.JPEG); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload evidence photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish evidence upload: %w", err)
	}

	return objectPath, nil
}

package profile

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
)

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid)
}

// Get gets a user's profile
func (s *Service) Get(ctx context.Context, uid string) (*UserProfile, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	doc, err := s.doc(uid).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	var p UserProfile
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	p.UID = uid
	return &p, nil
}

// UpsertMinimal makes sure a profile document exists after first sign-in.
func (s *Service) UpsertMinimal(ctx context.Context, uid, email string) error {
	_, err := s.doc(uid).Set(ctx, map[string]interface{}{
		"uid":       uid,
		"email":     email,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	return err
}

// Update applies the user-editable profile fields.
func (s *Service) Update(ctx context.Context, uid string, input UpdateProfileInput) error {
	if uid == "" {
		return fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	input.Trim()

	updates := map[string]interface{}{
		"updatedAt": time.Now().UTC(),
	}
	if input.DisplayName != nil {
		updates["displayName"] = *input.DisplayName
	}
	if input.PhotoURL != nil {
		updates["photoURL"] = *input.PhotoURL
	}
	if input.City != nil {
		updates["city"] = *input.City
	}

	if _, err := s.doc(uid).Set(ctx, updates, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

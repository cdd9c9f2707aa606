package gateway

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"filmora/pkg/models"
)

// CreateProfile writes the profile document under the identity's uid,
// which makes one-profile-per-identity structural.
func (s *Store) CreateProfile(ctx context.Context, p models.UserProfile) error {
	if _, err := s.client.Collection(usersCollection).Doc(p.ID).Set(ctx, p); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetProfile looks a profile up by uid. ErrNotFound signals the
// expected first-sign-in state, not a failure.
func (s *Store) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	doc, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.UserProfile{}, ErrNotFound
		}
		return models.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	var p models.UserProfile
	if err := doc.DataTo(&p); err != nil {
		return models.UserProfile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	p.ID = doc.Ref.ID
	return p, nil
}

// UpdateProfile applies a partial owner edit; updatedAt is assigned by
// the store.
func (s *Store) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := s.client.Collection(usersCollection).Doc(userID).Update(ctx, updates); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

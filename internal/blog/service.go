// Package blog manages user-authored posts: published at creation,
// editable and deletable by their author only.
package blog

import (
	"context"
	"errors"
	"fmt"

	"filmora/internal/gateway"
	"filmora/internal/state"
	"filmora/pkg/models"
)

var (
	// ErrNotFound reports a post id that does not exist.
	ErrNotFound = errors.New("blog post not found")
	// ErrNotAuthor rejects an edit or delete by anyone but the author.
	ErrNotAuthor = errors.New("not the author of this post")
)

// Gateway is the slice of the remote data gateway the blog needs.
type Gateway interface {
	AddBlogPost(ctx context.Context, p models.BlogPost) (string, error)
	GetBlogPost(ctx context.Context, postID string) (models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, postID, title, content string, tags []string) error
	DeleteBlogPost(ctx context.Context, postID string) error
	ListBlogPosts(ctx context.Context, authorID string) ([]models.BlogPost, error)
}

type Service struct {
	Gateway Gateway
	State   *state.Store
}

func NewService(gw Gateway, st *state.Store) *Service {
	return &Service{Gateway: gw, State: st}
}

// Publish creates a post under the author's name. Status is forced to
// published by the gateway.
func (s *Service) Publish(ctx context.Context, p models.BlogPost) (models.BlogPost, error) {
	gen := s.State.Generation()
	id, err := s.Gateway.AddBlogPost(ctx, p)
	if err != nil {
		return models.BlogPost{}, err
	}
	p.ID = id
	p.Status = models.StatusPublished
	s.State.DispatchAt(gen, state.BlogAdded{Post: p})
	return p, nil
}

// Update applies an author's edit. The stored post's author is checked,
// not the caller's claim about it.
func (s *Service) Update(ctx context.Context, authorID, postID, title, content string, tags []string) (models.BlogPost, error) {
	existing, err := s.Gateway.GetBlogPost(ctx, postID)
	if errors.Is(err, gateway.ErrNotFound) {
		return models.BlogPost{}, ErrNotFound
	}
	if err != nil {
		return models.BlogPost{}, err
	}
	if existing.AuthorID != authorID {
		return models.BlogPost{}, ErrNotAuthor
	}

	gen := s.State.Generation()
	if err := s.Gateway.UpdateBlogPost(ctx, postID, title, content, tags); err != nil {
		return models.BlogPost{}, err
	}

	// Read back so the server-assigned updatedAt is reflected.
	updated, err := s.Gateway.GetBlogPost(ctx, postID)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("read back blog post: %w", err)
	}
	ev := state.BlogUpdated{
		AuthorID: authorID,
		PostID:   postID,
		Title:    updated.Title,
		Content:  updated.Content,
		Tags:     updated.Tags,
	}
	if updated.UpdatedAt != nil {
		ev.At = *updated.UpdatedAt
	}
	s.State.DispatchAt(gen, ev)
	return updated, nil
}

// Delete removes a post after verifying the caller wrote it.
func (s *Service) Delete(ctx context.Context, authorID, postID string) error {
	existing, err := s.Gateway.GetBlogPost(ctx, postID)
	if errors.Is(err, gateway.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if existing.AuthorID != authorID {
		return ErrNotAuthor
	}

	gen := s.State.Generation()
	if err := s.Gateway.DeleteBlogPost(ctx, postID); err != nil {
		return err
	}
	s.State.DispatchAt(gen, state.BlogDeleted{AuthorID: authorID, PostID: postID})
	return nil
}

// List reads posts, all of them or one author's, and refreshes that
// author's mirror when scoped.
func (s *Service) List(ctx context.Context, authorID string) ([]models.BlogPost, error) {
	gen := s.State.Generation()
	posts, err := s.Gateway.ListBlogPosts(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if authorID != "" {
		s.State.DispatchAt(gen, state.BlogLoaded{UserID: authorID, Posts: posts})
	}
	return posts, nil
}

// Get reads one post.
func (s *Service) Get(ctx context.Context, postID string) (models.BlogPost, error) {
	p, err := s.Gateway.GetBlogPost(ctx, postID)
	if errors.Is(err, gateway.ErrNotFound) {
		return models.BlogPost{}, ErrNotFound
	}
	return p, err
}

package gateway

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"filmora/pkg/models"
)

// AddBlogPost creates a post with status forced to published.
func (s *Store) AddBlogPost(ctx context.Context, p models.BlogPost) (string, error) {
	p.Status = models.StatusPublished
	p.UpdatedAt = nil

	ref, _, err := s.client.Collection(blogCollection).Add(ctx, p)
	if err != nil {
		return "", fmt.Errorf("add blog post: %w", err)
	}
	return ref.ID, nil
}

// GetBlogPost reads one post; ErrNotFound when it does not exist.
func (s *Store) GetBlogPost(ctx context.Context, postID string) (models.BlogPost, error) {
	doc, err := s.client.Collection(blogCollection).Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.BlogPost{}, ErrNotFound
		}
		return models.BlogPost{}, fmt.Errorf("get blog post: %w", err)
	}
	var p models.BlogPost
	if err := doc.DataTo(&p); err != nil {
		return models.BlogPost{}, fmt.Errorf("decode blog post %s: %w", postID, err)
	}
	p.ID = doc.Ref.ID
	return p, nil
}

// UpdateBlogPost applies an author's edit to title, content and tags;
// updatedAt is assigned by the store.
func (s *Store) UpdateBlogPost(ctx context.Context, postID, title, content string, tags []string) error {
	_, err := s.client.Collection(blogCollection).Doc(postID).Update(ctx, []firestore.Update{
		{Path: "title", Value: title},
		{Path: "content", Value: content},
		{Path: "tags", Value: tags},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("update blog post: %w", err)
	}
	return nil
}

// DeleteBlogPost removes a post.
func (s *Store) DeleteBlogPost(ctx context.Context, postID string) error {
	if _, err := s.client.Collection(blogCollection).Doc(postID).Delete(ctx); err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}

// ListBlogPosts reads posts newest first, optionally filtered to one
// author.
func (s *Store) ListBlogPosts(ctx context.Context, authorID string) ([]models.BlogPost, error) {
	q := s.client.Collection(blogCollection).Query
	if authorID != "" {
		q = q.Where("authorId", "==", authorID)
	}
	q = q.OrderBy("publishedAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []models.BlogPost
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list blog posts: %w", err)
		}
		var p models.BlogPost
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode blog post %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		out = append(out, p)
	}
	return out, nil
}

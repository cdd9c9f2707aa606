package state

import (
	"sync"

	"filmora/pkg/models"
)

// Store is the single in-process application state container: a
// possibly-stale local mirror of the remote document store, scoped to
// the sessions this process has seen. All mutations are serialized
// through Dispatch; readers get copies.
//
// The mirror is refreshed on the read path and patched locally after
// each successful mutation. A concurrent external writer (for example a
// second admin deciding the same rating) can desynchronize it until the
// next full reload; that staleness window is part of the design.
type Store struct {
	mu  sync.Mutex
	gen uint64

	pending  []models.Rating
	approved []models.Rating
	rejected []models.Rating
	comments []models.Comment

	profiles   map[string]models.UserProfile
	watchlists map[string][]models.WatchlistEntry
	blogPosts  map[string][]models.BlogPost
}

func New() *Store {
	return &Store{
		profiles:   make(map[string]models.UserProfile),
		watchlists: make(map[string][]models.WatchlistEntry),
		blogPosts:  make(map[string][]models.BlogPost),
	}
}

// Generation returns the current state generation. Callers that start a
// remote read capture it first and apply the result with DispatchAt, so
// a response that lands after the relevant state was cleared is dropped
// instead of resurrecting it.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Dispatch applies one event. This is the only mutation entry point.
func (s *Store) Dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(ev)
}

// DispatchAt applies ev only if the store is still at generation gen.
// It reports whether the event was applied.
func (s *Store) DispatchAt(gen uint64, ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.apply(ev)
	return true
}

func (s *Store) apply(ev Event) {
	switch e := ev.(type) {
	case ProfileLoaded:
		s.profiles[e.Profile.ID] = e.Profile
	case ProfileCreated:
		s.profiles[e.Profile.ID] = e.Profile

	case RatingsLoaded:
		s.pending = append([]models.Rating(nil), e.Pending...)
		s.approved = append([]models.Rating(nil), e.Approved...)
		s.rejected = append([]models.Rating(nil), e.Rejected...)
	case RatingSubmitted:
		s.pending = append(s.pending, e.Rating)
	case RatingApproved:
		if r, ok := s.takePending(e.RatingID); ok {
			at := e.At
			r.Status = models.StatusApproved
			r.ApprovedAt = &at
			s.approved = append(s.approved, r)
		}
	case RatingRejected:
		if r, ok := s.takePending(e.RatingID); ok {
			at := e.At
			r.Status = models.StatusRejected
			r.RejectedAt = &at
			s.rejected = append(s.rejected, r)
		}

	case CommentsLoaded:
		s.comments = append([]models.Comment(nil), e.Comments...)
	case CommentAdded:
		s.comments = append(s.comments, e.Comment)

	case WatchlistLoaded:
		s.watchlists[e.UserID] = append([]models.WatchlistEntry(nil), e.Entries...)
	case WatchlistAdded:
		s.watchlists[e.Entry.UserID] = append(s.watchlists[e.Entry.UserID], e.Entry)
	case WatchlistRemoved:
		kept := s.watchlists[e.UserID][:0]
		for _, it := range s.watchlists[e.UserID] {
			if it.MovieID != e.MovieID {
				kept = append(kept, it)
			}
		}
		s.watchlists[e.UserID] = kept

	case BlogLoaded:
		s.blogPosts[e.UserID] = append([]models.BlogPost(nil), e.Posts...)
	case BlogAdded:
		s.blogPosts[e.Post.AuthorID] = append(s.blogPosts[e.Post.AuthorID], e.Post)
	case BlogUpdated:
		posts := s.blogPosts[e.AuthorID]
		for i := range posts {
			if posts[i].ID == e.PostID {
				at := e.At
				posts[i].Title = e.Title
				posts[i].Content = e.Content
				posts[i].Tags = e.Tags
				posts[i].UpdatedAt = &at
				break
			}
		}
	case BlogDeleted:
		kept := s.blogPosts[e.AuthorID][:0]
		for _, p := range s.blogPosts[e.AuthorID] {
			if p.ID != e.PostID {
				kept = append(kept, p)
			}
		}
		s.blogPosts[e.AuthorID] = kept

	case UserCleared:
		delete(s.profiles, e.UserID)
		delete(s.watchlists, e.UserID)
		delete(s.blogPosts, e.UserID)
		s.pending = dropUserRatings(s.pending, e.UserID)
		s.approved = dropUserRatings(s.approved, e.UserID)
		s.rejected = dropUserRatings(s.rejected, e.UserID)
		kept := s.comments[:0]
		for _, cm := range s.comments {
			if cm.UserID != e.UserID {
				kept = append(kept, cm)
			}
		}
		s.comments = kept
		s.gen++
	}
}

// takePending removes and returns the pending rating with the given id.
// Absence means the rating was never loaded or already decided.
func (s *Store) takePending(id string) (models.Rating, bool) {
	for i, r := range s.pending {
		if r.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return r, true
		}
	}
	return models.Rating{}, false
}

func dropUserRatings(in []models.Rating, userID string) []models.Rating {
	kept := in[:0]
	for _, r := range in {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	return kept
}

// Partitions returns copies of the three rating partitions.
func (s *Store) Partitions() (pending, approved, rejected []models.Rating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Rating(nil), s.pending...),
		append([]models.Rating(nil), s.approved...),
		append([]models.Rating(nil), s.rejected...)
}

// InPending reports whether a rating id is currently in the pending
// partition. The moderation state machine checks this before a decide
// so an already-decided rating cannot transition twice.
func (s *Store) InPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.pending {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Comments returns a copy of the comment collection.
func (s *Store) Comments() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Comment(nil), s.comments...)
}

// Profile returns the mirrored profile for a user, if loaded.
func (s *Store) Profile(userID string) (models.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	return p, ok
}

// IsAdmin reports the administrator flag from the mirrored profile.
func (s *Store) IsAdmin(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID].IsAdmin
}

// Watchlist returns a copy of one user's mirrored watchlist.
func (s *Store) Watchlist(userID string) []models.WatchlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WatchlistEntry(nil), s.watchlists[userID]...)
}

// BlogPosts returns a copy of one user's mirrored blog posts.
func (s *Store) BlogPosts(userID string) []models.BlogPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BlogPost(nil), s.blogPosts[userID]...)
}

package bookmarks

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the in-memory bookmark repository. It is safe for concurrent use
// and survives for the life of the container (registered as a Singleton with
// Close as its disposer).
type Store struct {
	mu     sync.RWMutex
	items  map[string]*Bookmark
	logger *zap.Logger
	closed bool
}

// NewStore creates an empty store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		items:  make(map[string]*Bookmark),
		logger: logger,
	}
}

// Put inserts or replaces a bookmark.
func (s *Store) Put(b *Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	cp := *b
	s.items[b.ID] = &cp
	return nil
}

// Get returns the bookmark with the given id.
func (s *Store) Get(id string) (*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	b, ok := s.items[id]
	if !ok {
		return nil, NotFoundError{ID: id}
	}
	cp := *b
	return &cp, nil
}

// Delete removes the bookmark with the given id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.items[id]; !ok {
		return NotFoundError{ID: id}
	}
	delete(s.items, id)
	return nil
}

// List returns bookmarks newest first, optionally filtered by tag and a
// case-insensitive title/URL substring, capped at limit (0 = no cap).
func (s *Store) List(tag, query string, limit int) ([]*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	query = strings.ToLower(query)
	out := make([]*Bookmark, 0, len(s.items))
	for _, b := range s.items {
		if tag != "" && !hasTag(b, tag) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(b.Title), query) &&
			!strings.Contains(strings.ToLower(b.URL), query) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Tags returns all tags with usage counts, alphabetically.
func (s *Store) Tags() ([]TagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	counts := make(map[string]int)
	for _, b := range s.items {
		for _, t := range b.Tags {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Len returns the number of stored bookmarks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Close marks the store unusable and drops its contents. Invoked by the
// container at teardown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("bookmark store closed", zap.Int("bookmarks", len(s.items)))
	s.items = nil
	return nil
}

func hasTag(b *Bookmark, tag string) bool {
	for _, t := range b.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// now is stubbed in tests.
var now = time.Now

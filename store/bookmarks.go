package store

import (
	"context"

	"campus_share/apperr"
	"campus_share/models"
	"campus_share/persist"
)

// ToggleBookmark flips id in owner's bookmark set and reports whether it is
// now bookmarked.
func (s *Store) ToggleBookmark(ctx context.Context, owner, id string) (bool, error) {
	const op = "toggle bookmark"
	if owner == "" {
		return false, apperr.Validation(op, "owner is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) < 0 {
		return false, apperr.NotFound(op, "resource", id)
	}
	b, ok := s.bookmarks[owner]
	if !ok {
		b = models.NewBookmarks()
		s.bookmarks[owner] = b
	}
	on := b.Toggle(id)
	s.obs.Mutated("toggle_bookmark")
	if err := s.persistLocked(ctx, op, persist.Bookmarks); err != nil {
		return false, err
	}
	return on, nil
}

func (s *Store) IsBookmarked(owner, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookmarks[owner]
	return ok && b.Has(id)
}

// BookmarkedResources returns owner's bookmarked resources in the order they
// were bookmarked.
func (s *Store) BookmarkedResources(owner string) []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Resource{}
	b, ok := s.bookmarks[owner]
	if !ok {
		return out
	}
	for _, id := range b.IDs() {
		if i := s.indexLocked(id); i >= 0 {
			out = append(out, s.resources[i].Clone())
		}
	}
	return out
}

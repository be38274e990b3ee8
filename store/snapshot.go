package store

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"campus_share/apperr"
	"campus_share/models"
	"campus_share/persist"
)

// Snapshot is a full copy of the store's collections.
type Snapshot struct {
	Resources []models.Resource   `json:"resources"`
	Reviews   []models.Review     `json:"reviews"`
	Bookmarks map[string][]string `json:"bookmarks"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Resources: cloneResources(nonNil(s.resources)),
		Reviews:   append([]models.Review{}, s.reviews...),
		Bookmarks: s.bookmarksDocLocked(),
	}
}

// Restore replaces every collection with snap and persists them. A record
// that breaks a collection invariant rejects the whole snapshot. Duplicate
// resource ids keep their first record; reviews and bookmarks that point at
// missing resources are dropped.
func (s *Store) Restore(ctx context.Context, snap Snapshot) error {
	resources := cloneResources(snap.Resources)
	if err := checkSnapshot(resources, snap.Reviews); err != nil {
		return err
	}
	resources = lo.UniqBy(resources, func(r models.Resource) string { return r.ID })
	sort.SliceStable(resources, func(i, j int) bool { return resources[i].CreatedAt.After(resources[j].CreatedAt) })
	known := lo.SliceToMap(resources, func(r models.Resource) (string, struct{}) { return r.ID, struct{}{} })

	reviews := lo.Filter(snap.Reviews, func(r models.Review, _ int) bool {
		_, ok := known[r.ResourceID]
		return ok
	})
	reviews = lo.UniqBy(reviews, func(r models.Review) [2]string { return [2]string{r.ResourceID, r.UserID} })

	bookmarks := make(map[string]*models.Bookmarks, len(snap.Bookmarks))
	for owner, ids := range snap.Bookmarks {
		b := models.NewBookmarks(lo.Filter(ids, func(id string, _ int) bool {
			_, ok := known[id]
			return ok
		})...)
		if b.Len() > 0 {
			bookmarks[owner] = b
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.resources = resources
	s.reviews = reviews
	s.bookmarks = bookmarks
	s.obs.Mutated("restore")
	if err := s.persistLocked(ctx, "restore", persist.Resources, persist.Reviews, persist.Bookmarks); err != nil {
		return err
	}
	s.log.Info("Store restored",
		zap.Int("resources", len(resources)),
		zap.Int("reviews", len(reviews)),
	)
	return nil
}

// checkSnapshot validates every record and normalizes resources in place.
func checkSnapshot(resources []models.Resource, reviews []models.Review) error {
	const op = "restore"

	for i := range resources {
		r := &resources[i]
		switch {
		case r.ID == "":
			return apperr.Validation(op, "resource %d has no id", i)
		case r.Title == "":
			return apperr.Validation(op, "resource %s has no title", r.ID)
		case !r.Type.Valid():
			return apperr.Validation(op, "resource %s has unknown type %q", r.ID, r.Type)
		case r.Likes < 0 || r.Downloads < 0 || r.FileSize < 0:
			return apperr.Validation(op, "resource %s has a negative counter", r.ID)
		}
		if r.Privacy == "" {
			r.Privacy = models.PrivacyPublic
		}
		if !r.Privacy.Valid() {
			return apperr.Validation(op, "resource %s has unknown privacy %q", r.ID, r.Privacy)
		}
		tags, err := checkTags(op, r.Tags)
		if err != nil {
			return err
		}
		r.Tags = tags
	}

	for i, rv := range reviews {
		switch {
		case rv.ID == "" || rv.ResourceID == "" || rv.UserID == "":
			return apperr.Validation(op, "review %d is missing an id", i)
		case rv.Rating < models.MinRating || rv.Rating > models.MaxRating:
			return apperr.Validation(op, "review %s rating %d outside %d-%d", rv.ID, rv.Rating, models.MinRating, models.MaxRating)
		}
	}
	return nil
}

package store

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"campus_share/apperr"
	"campus_share/models"
	"campus_share/persist"
	"campus_share/query"
)

// AddResource validates in, assigns an id and creation time, zeroes the
// counters and inserts the record at the head of the collection.
func (s *Store) AddResource(ctx context.Context, in models.ResourceInput) (models.Resource, error) {
	const op = "add resource"

	title := strings.TrimSpace(in.Title)
	subject := strings.TrimSpace(in.Subject)
	switch {
	case title == "":
		return models.Resource{}, apperr.Validation(op, "title is required")
	case subject == "":
		return models.Resource{}, apperr.Validation(op, "subject is required")
	case in.Type == "":
		return models.Resource{}, apperr.Validation(op, "type is required")
	case !in.Type.Valid():
		return models.Resource{}, apperr.Validation(op, "unknown type %q", in.Type)
	case in.FileSize < 0:
		return models.Resource{}, apperr.Validation(op, "file size must not be negative")
	}
	privacy := in.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}
	if !privacy.Valid() {
		return models.Resource{}, apperr.Validation(op, "unknown privacy %q", privacy)
	}
	tags, err := checkTags(op, in.Tags)
	if err != nil {
		return models.Resource{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := models.Resource{
		ID:            s.newID(),
		Title:         title,
		Subject:       subject,
		Description:   strings.TrimSpace(in.Description),
		Type:          in.Type,
		Semester:      strings.TrimSpace(in.Semester),
		Year:          strings.TrimSpace(in.Year),
		Branch:        strings.TrimSpace(in.Branch),
		Tags:          tags,
		Privacy:       privacy,
		Link:          strings.TrimSpace(in.Link),
		FileName:      in.FileName,
		FileSize:      in.FileSize,
		Author:        in.Author.Name,
		AuthorID:      in.Author.ID,
		AuthorCollege: in.Author.College,
		CreatedAt:     s.now(),
	}
	s.resources = append([]models.Resource{r}, s.resources...)
	s.obs.Mutated("add_resource")

	if err := s.persistLocked(ctx, op, persist.Resources); err != nil {
		return models.Resource{}, err
	}
	s.log.Info("Resource added", zap.String("resource_id", r.ID), zap.String("author_id", r.AuthorID))
	return r.Clone(), nil
}

// UpdateResource merges patch into the resource. Identity, counters and
// creation time cannot be patched.
func (s *Store) UpdateResource(ctx context.Context, id string, patch models.ResourcePatch) (models.Resource, error) {
	const op = "update resource"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Resource{}, apperr.NotFound(op, "resource", id)
	}
	r := s.resources[i].Clone()

	if patch.Title != nil {
		if r.Title = strings.TrimSpace(*patch.Title); r.Title == "" {
			return models.Resource{}, apperr.Validation(op, "title is required")
		}
	}
	if patch.Subject != nil {
		if r.Subject = strings.TrimSpace(*patch.Subject); r.Subject == "" {
			return models.Resource{}, apperr.Validation(op, "subject is required")
		}
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return models.Resource{}, apperr.Validation(op, "unknown type %q", *patch.Type)
		}
		r.Type = *patch.Type
	}
	if patch.Privacy != nil {
		if !patch.Privacy.Valid() {
			return models.Resource{}, apperr.Validation(op, "unknown privacy %q", *patch.Privacy)
		}
		r.Privacy = *patch.Privacy
	}
	if patch.Tags != nil {
		tags, err := checkTags(op, *patch.Tags)
		if err != nil {
			return models.Resource{}, err
		}
		r.Tags = tags
	}
	if patch.Description != nil {
		r.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Semester != nil {
		r.Semester = strings.TrimSpace(*patch.Semester)
	}
	if patch.Year != nil {
		r.Year = strings.TrimSpace(*patch.Year)
	}
	if patch.Branch != nil {
		r.Branch = strings.TrimSpace(*patch.Branch)
	}
	if patch.Link != nil {
		r.Link = strings.TrimSpace(*patch.Link)
	}

	s.resources[i] = r
	s.obs.Mutated("update_resource")
	if err := s.persistLocked(ctx, op, persist.Resources); err != nil {
		return models.Resource{}, err
	}
	return r.Clone(), nil
}

// DeleteResource removes the resource, its reviews and every bookmark of it
// under one lock.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	const op = "delete resource"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return apperr.NotFound(op, "resource", id)
	}
	s.resources = append(s.resources[:i:i], s.resources[i+1:]...)

	before := len(s.reviews)
	s.reviews = lo.Reject(s.reviews, func(r models.Review, _ int) bool { return r.ResourceID == id })
	removedReviews := before - len(s.reviews)

	names := []string{persist.Resources, persist.Reviews}
	unmarked := 0
	for _, b := range s.bookmarks {
		if b.Remove(id) {
			unmarked++
		}
	}
	if unmarked > 0 {
		names = append(names, persist.Bookmarks)
	}
	s.obs.Mutated("delete_resource")

	if err := s.persistLocked(ctx, op, names...); err != nil {
		return err
	}
	s.log.Info("Resource deleted",
		zap.String("resource_id", id),
		zap.Int("reviews_removed", removedReviews),
		zap.Int("bookmarks_removed", unmarked),
	)
	return nil
}

// LikeResource adds one like. A missing id is reported as NotFound and leaves
// the collection untouched.
func (s *Store) LikeResource(ctx context.Context, id string) (models.Resource, error) {
	return s.bump(ctx, "like resource", "like_resource", id, func(r *models.Resource) { r.Likes++ })
}

// DownloadResource adds one download.
func (s *Store) DownloadResource(ctx context.Context, id string) (models.Resource, error) {
	return s.bump(ctx, "download resource", "download_resource", id, func(r *models.Resource) { r.Downloads++ })
}

func (s *Store) bump(ctx context.Context, op, metric, id string, inc func(*models.Resource)) (models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Resource{}, apperr.NotFound(op, "resource", id)
	}
	inc(&s.resources[i])
	s.obs.Mutated(metric)
	if err := s.persistLocked(ctx, op, persist.Resources); err != nil {
		return models.Resource{}, err
	}
	return s.resources[i].Clone(), nil
}

func (s *Store) GetResourceByID(id string) (models.Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return models.Resource{}, false
	}
	return s.resources[i].Clone(), true
}

// Resources returns the whole collection, newest first.
func (s *Store) Resources() []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneResources(s.resources)
}

// UploadsBy returns the resources created by the given user id.
func (s *Store) UploadsBy(authorID string) []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mine := lo.Filter(s.resources, func(r models.Resource, _ int) bool { return r.AuthorID == authorID })
	return cloneResources(mine)
}

// Search runs the query engine over the current collections.
func (s *Store) Search(p query.Params) []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Run(s.resources, s.reviews, p)
}

// Tags lists every distinct tag in use, sorted.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags := lo.Uniq(lo.FlatMap(s.resources, func(r models.Resource, _ int) []string { return r.Tags }))
	sort.Strings(tags)
	return tags
}

func (s *Store) indexLocked(id string) int {
	for i := range s.resources {
		if s.resources[i].ID == id {
			return i
		}
	}
	return -1
}

func checkTags(op string, tags []string) ([]string, error) {
	out := models.NormalizeTags(tags)
	if len(out) > models.MaxTags {
		return nil, apperr.Validation(op, "at most %d tags allowed, got %d", models.MaxTags, len(out))
	}
	return out, nil
}

// Package store owns the resource, review and bookmark collections and writes
// them through a persist.Persister after every mutation.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus_share/apperr"
	"campus_share/models"
	"campus_share/persist"
)

// Observer is told about every mutation and every failed write.
type Observer interface {
	Mutated(op string)
	PersistFailed(collection string)
}

type nopObserver struct{}

func (nopObserver) Mutated(string)       {}
func (nopObserver) PersistFailed(string) {}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDs(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.obs = o }
}

// WithSeed sets the resources Load inserts when nothing was persisted yet.
func WithSeed(rs []models.Resource) Option {
	return func(s *Store) { s.seed = rs }
}

// Store is safe for concurrent use. Mutations hold the write lock until their
// persistence writes return, so readers never see a half-applied change.
type Store struct {
	mu    sync.RWMutex
	p     persist.Persister
	log   *zap.Logger
	obs   Observer
	now   func() time.Time
	newID func() string
	seed  []models.Resource

	resources []models.Resource // newest first
	reviews   []models.Review
	bookmarks map[string]*models.Bookmarks // by user id
}

func New(p persist.Persister, log *zap.Logger, opts ...Option) *Store {
	s := &Store{
		p:         p,
		log:       log,
		obs:       nopObserver{},
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		bookmarks: make(map[string]*models.Bookmarks),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory collections with the persisted ones. An empty
// store is seeded and the seed is written back.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resources []models.Resource
	found, err := s.p.Load(ctx, persist.Resources, &resources)
	if err != nil {
		return apperr.Persistence("load resources", err)
	}
	seeded := false
	if !found && len(s.seed) > 0 {
		resources = cloneResources(s.seed)
		seeded = true
	}

	var reviews []models.Review
	if _, err := s.p.Load(ctx, persist.Reviews, &reviews); err != nil {
		return apperr.Persistence("load reviews", err)
	}

	var marks map[string][]string
	if _, err := s.p.Load(ctx, persist.Bookmarks, &marks); err != nil {
		return apperr.Persistence("load bookmarks", err)
	}

	s.resources = resources
	s.reviews = reviews
	s.bookmarks = make(map[string]*models.Bookmarks, len(marks))
	for owner, ids := range marks {
		s.bookmarks[owner] = models.NewBookmarks(ids...)
	}

	s.log.Info("Store loaded",
		zap.Int("resources", len(s.resources)),
		zap.Int("reviews", len(s.reviews)),
		zap.Int("bookmark_owners", len(s.bookmarks)),
		zap.Bool("seeded", seeded),
	)

	if seeded {
		return s.persistLocked(ctx, "seed", persist.Resources)
	}
	return nil
}

// Save writes every collection.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, "save", persist.Resources, persist.Reviews, persist.Bookmarks)
}

// persistLocked writes the named collections wholesale. The in-memory change
// is kept even when a write fails.
func (s *Store) persistLocked(ctx context.Context, op string, names ...string) error {
	for _, name := range names {
		var v any
		switch name {
		case persist.Resources:
			v = nonNil(s.resources)
		case persist.Reviews:
			v = nonNil(s.reviews)
		case persist.Bookmarks:
			v = s.bookmarksDocLocked()
		}
		if err := s.p.Save(ctx, name, v); err != nil {
			s.obs.PersistFailed(name)
			s.log.Error("Failed to persist collection",
				zap.String("op", op),
				zap.String("collection", name),
				zap.Error(err),
			)
			return apperr.Persistence(op, err)
		}
	}
	return nil
}

func (s *Store) bookmarksDocLocked() map[string][]string {
	doc := make(map[string][]string, len(s.bookmarks))
	for owner, b := range s.bookmarks {
		if b.Len() > 0 {
			doc[owner] = b.IDs()
		}
	}
	return doc
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cloneResources(rs []models.Resource) []models.Resource {
	out := make([]models.Resource, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

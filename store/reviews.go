package store

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"campus_share/apperr"
	"campus_share/models"
	"campus_share/persist"
	"campus_share/rating"
)

// UpsertReview records the reviewer's rating of a resource. A second
// submission by the same user replaces the rating and comment of the existing
// review and stamps UpdatedAt.
func (s *Store) UpsertReview(ctx context.Context, in models.ReviewInput) (models.Review, error) {
	const op = "upsert review"

	switch {
	case in.Rating < models.MinRating || in.Rating > models.MaxRating:
		return models.Review{}, apperr.Validation(op, "rating must be between %d and %d, got %d",
			models.MinRating, models.MaxRating, in.Rating)
	case in.ResourceID == "":
		return models.Review{}, apperr.Validation(op, "resource id is required")
	case in.Reviewer.ID == "":
		return models.Review{}, apperr.Validation(op, "user id is required")
	}
	comment := strings.TrimSpace(in.Comment)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(in.ResourceID) < 0 {
		return models.Review{}, apperr.NotFound(op, "resource", in.ResourceID)
	}

	now := s.now()
	_, i, ok := lo.FindIndexOf(s.reviews, func(r models.Review) bool {
		return r.ResourceID == in.ResourceID && r.UserID == in.Reviewer.ID
	})
	var out models.Review
	if ok {
		s.reviews[i].Rating = in.Rating
		s.reviews[i].Comment = comment
		s.reviews[i].UpdatedAt = &now
		out = s.reviews[i]
		s.obs.Mutated("update_review")
	} else {
		out = models.Review{
			ID:          s.newID(),
			ResourceID:  in.ResourceID,
			UserID:      in.Reviewer.ID,
			UserName:    in.Reviewer.Name,
			UserCollege: in.Reviewer.College,
			Rating:      in.Rating,
			Comment:     comment,
			CreatedAt:   now,
		}
		s.reviews = append(s.reviews, out)
		s.obs.Mutated("add_review")
	}

	if err := s.persistLocked(ctx, op, persist.Reviews); err != nil {
		return models.Review{}, err
	}
	s.log.Debug("Review stored",
		zap.String("review_id", out.ID),
		zap.String("resource_id", out.ResourceID),
		zap.Bool("updated", ok),
	)
	return out, nil
}

// DeleteReview removes one review. An unknown id is a no-op.
func (s *Store) DeleteReview(ctx context.Context, reviewID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i, ok := lo.FindIndexOf(s.reviews, func(r models.Review) bool { return r.ID == reviewID })
	if !ok {
		return nil
	}
	s.reviews = append(s.reviews[:i:i], s.reviews[i+1:]...)
	s.obs.Mutated("delete_review")
	return s.persistLocked(ctx, "delete review", persist.Reviews)
}

func (s *Store) ReviewByID(id string) (models.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.reviews, func(r models.Review) bool { return r.ID == id })
}

// ReviewsFor returns the reviews of one resource in submission order.
func (s *Store) ReviewsFor(resourceID string) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.reviews, func(r models.Review, _ int) bool { return r.ResourceID == resourceID })
}

func (s *Store) UserReview(resourceID, userID string) (models.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Find(s.reviews, func(r models.Review) bool {
		return r.ResourceID == resourceID && r.UserID == userID
	})
}

// Rating aggregates the current reviews of one resource.
func (s *Store) Rating(resourceID string) rating.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rating.Summarize(resourceID, s.reviews)
}

// Ratings aggregates every reviewed resource at once.
func (s *Store) Ratings() map[string]rating.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rating.Averages(s.reviews)
}

// Package rating reduces a resource's reviews into an aggregate score.
package rating

import (
	"math"

	"campus_share/models"
)

// Summary is the aggregate of one resource's reviews.
type Summary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Summarize averages the ratings of the reviews that belong to resourceID,
// rounded to one decimal. Average is 0 when there are none.
func Summarize(resourceID string, reviews []models.Review) Summary {
	var sum, n int
	for _, r := range reviews {
		if r.ResourceID != resourceID {
			continue
		}
		sum += r.Rating
		n++
	}
	if n == 0 {
		return Summary{}
	}
	return Summary{Average: round1(float64(sum) / float64(n)), Count: n}
}

// Averages summarizes every resource in one pass over reviews, keyed by
// resource id. Resources without reviews are absent.
func Averages(reviews []models.Review) map[string]Summary {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range reviews {
		sums[r.ResourceID] += r.Rating
		counts[r.ResourceID]++
	}
	out := make(map[string]Summary, len(counts))
	for id, n := range counts {
		out[id] = Summary{Average: round1(float64(sums[id]) / float64(n)), Count: n}
	}
	return out
}

// Display returns the average to show for a resource: the aggregate once any
// review exists, otherwise the resource's seed rating.
func Display(s Summary, seed float64) float64 {
	if s.Count > 0 {
		return s.Average
	}
	return seed
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

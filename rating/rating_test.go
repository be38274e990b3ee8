package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus_share/models"
)

func reviews(resourceID string, ratings ...int) []models.Review {
	out := make([]models.Review, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, models.Review{ResourceID: resourceID, Rating: r})
	}
	return out
}

func TestSummarize(t *testing.T) {
	all := append(reviews("r1", 3, 4, 5), reviews("r2", 1, 2)...)

	tests := []struct {
		name     string
		resource string
		want     Summary
	}{
		{"mean of three", "r1", Summary{Average: 4.0, Count: 3}},
		{"rounded to one decimal", "r2", Summary{Average: 1.5, Count: 2}},
		{"no reviews", "r3", Summary{Average: 0, Count: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.resource, all))
		})
	}
}

func TestSummarizeRounding(t *testing.T) {
	// 4+4+5 = 13/3 = 4.333...
	assert.Equal(t, 4.3, Summarize("r", reviews("r", 4, 4, 5)).Average)
	// 5+5+4 = 14/3 = 4.666...
	assert.Equal(t, 4.7, Summarize("r", reviews("r", 5, 5, 4)).Average)
}

func TestAveragesMatchesSummarize(t *testing.T) {
	all := append(reviews("a", 1, 5, 4), reviews("b", 2)...)
	got := Averages(all)
	assert.Equal(t, Summarize("a", all), got["a"])
	assert.Equal(t, Summarize("b", all), got["b"])
	_, ok := got["c"]
	assert.False(t, ok)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, 4.5, Display(Summary{}, 4.5))
	assert.Equal(t, 2.0, Display(Summary{Average: 2, Count: 1}, 4.5))
}

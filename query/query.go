// Package query filters and orders a resource collection without mutating it.
package query

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"campus_share/models"
	"campus_share/rating"
)

type SortKey string

const (
	SortLatest    SortKey = "latest"
	SortPopular   SortKey = "popular"
	SortDownloads SortKey = "downloads"
	SortRating    SortKey = "rating"
)

// ParseSort maps a client sort key to a SortKey; unknown or empty keys sort by latest.
func ParseSort(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortPopular, SortDownloads, SortRating:
		return k
	default:
		return SortLatest
	}
}

// Filters restrict results to exact field matches. Empty fields do not restrict.
type Filters struct {
	Type     models.ResourceType `form:"type" json:"type"`
	Subject  string              `form:"subject" json:"subject"`
	Semester string              `form:"semester" json:"semester"`
	Year     string              `form:"year" json:"year"`
	Branch   string              `form:"branch" json:"branch"`
	Privacy  models.Privacy      `form:"privacy" json:"privacy"`
}

type Params struct {
	Query   string
	Filters Filters
	Sort    SortKey
}

// Run returns a new slice holding the resources that match p, ordered by
// p.Sort. Equal sort keys keep their input order. reviews feeds the rating sort.
func Run(resources []models.Resource, reviews []models.Review, p Params) []models.Resource {
	q := strings.ToLower(strings.TrimSpace(p.Query))
	out := lo.Filter(resources, func(r models.Resource, _ int) bool {
		return matchesText(r, q) && p.Filters.match(r)
	})
	out = lo.Map(out, func(r models.Resource, _ int) models.Resource { return r.Clone() })

	switch ParseSort(string(p.Sort)) {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Likes > out[j].Likes })
	case SortDownloads:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Downloads > out[j].Downloads })
	case SortRating:
		avg := rating.Averages(reviews)
		sort.SliceStable(out, func(i, j int) bool {
			return avg[out[i].ID].Average > avg[out[j].ID].Average
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func matchesText(r models.Resource, q string) bool {
	if q == "" {
		return true
	}
	fields := []string{r.Title, r.Subject, r.Description, r.Author, r.Branch}
	if lo.SomeBy(fields, func(f string) bool { return strings.Contains(strings.ToLower(f), q) }) {
		return true
	}
	return lo.SomeBy(r.Tags, func(t string) bool { return strings.Contains(strings.ToLower(t), q) })
}

func (f Filters) match(r models.Resource) bool {
	switch {
	case f.Type != "" && r.Type != f.Type:
		return false
	case f.Subject != "" && r.Subject != f.Subject:
		return false
	case f.Semester != "" && r.Semester != f.Semester:
		return false
	case f.Year != "" && r.Year != f.Year:
		return false
	case f.Branch != "" && r.Branch != f.Branch:
		return false
	case f.Privacy != "" && r.Privacy != f.Privacy:
		return false
	}
	return true
}

package query

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"campus_share/models"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ids(rs []models.Resource) []string {
	return lo.Map(rs, func(r models.Resource, _ int) string { return r.ID })
}

func fixture() []models.Resource {
	return []models.Resource{
		{ID: "ds", Title: "Data Structures Notes", Subject: "CS201", Type: models.TypeNotes, Semester: "3",
			Branch: "Computer Science", Tags: []string{"trees"}, Author: "Asha", Privacy: models.PrivacyPublic,
			Likes: 2, Downloads: 10, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "os", Title: "Operating Systems Guide", Subject: "CS301", Type: models.TypeBooks, Semester: "5",
			Branch: "Computer Science", Tags: []string{"kernels"}, Author: "Ravi", Privacy: models.PrivacyPrivate,
			Likes: 9, Downloads: 4, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "ma", Title: "Linear Algebra Papers", Subject: "MA101", Type: models.TypePapers, Semester: "3",
			Branch: "Mathematics", Description: "past exams with solutions", Author: "Meera", Privacy: models.PrivacyPublic,
			Likes: 5, Downloads: 7, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestTextSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title substring is case-insensitive", "data", []string{"ds"}},
		{"subject", "cs3", []string{"os"}},
		{"description", "SOLUTIONS", []string{"ma"}},
		{"author", "ravi", []string{"os"}},
		{"tag", "kern", []string{"os"}},
		{"branch", "mathem", []string{"ma"}},
		{"empty matches everything newest first", "", []string{"os", "ma", "ds"}},
		{"no match", "chemistry", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Run(fixture(), nil, Params{Query: tt.query})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFiltersComposeWithAnd(t *testing.T) {
	got := Run(fixture(), nil, Params{Filters: Filters{Type: models.TypeNotes, Semester: "3"}})
	assert.Equal(t, []string{"ds"}, ids(got))
	for _, r := range got {
		assert.Equal(t, models.TypeNotes, r.Type)
		assert.Equal(t, "3", r.Semester)
	}

	got = Run(fixture(), nil, Params{Filters: Filters{Semester: "3"}})
	assert.ElementsMatch(t, []string{"ds", "ma"}, ids(got))

	got = Run(fixture(), nil, Params{Filters: Filters{Privacy: models.PrivacyPrivate}})
	assert.Equal(t, []string{"os"}, ids(got))

	// Exact match only.
	got = Run(fixture(), nil, Params{Filters: Filters{Subject: "CS"}})
	assert.Empty(t, got)
}

func TestSortKeys(t *testing.T) {
	reviews := []models.Review{
		{ResourceID: "ma", Rating: 5},
		{ResourceID: "ds", Rating: 3},
		{ResourceID: "ds", Rating: 4},
	}
	tests := []struct {
		sort SortKey
		want []string
	}{
		{SortLatest, []string{"os", "ma", "ds"}},
		{SortPopular, []string{"os", "ma", "ds"}},
		{SortDownloads, []string{"ds", "ma", "os"}},
		{SortRating, []string{"ma", "ds", "os"}},
		{"bogus", []string{"os", "ma", "ds"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Run(fixture(), reviews, Params{Sort: tt.sort})))
		})
	}
}

func TestPopularSortIsStable(t *testing.T) {
	rs := []models.Resource{
		{ID: "a", Likes: 2}, {ID: "b", Likes: 9}, {ID: "c", Likes: 5},
		{ID: "d", Likes: 5}, {ID: "e", Likes: 2},
	}
	got := Run(rs, nil, Params{Sort: SortPopular})
	assert.Equal(t, []string{"b", "c", "d", "a", "e"}, ids(got))
	assert.Equal(t, []int64{9, 5, 5, 2, 2}, lo.Map(got, func(r models.Resource, _ int) int64 { return r.Likes }))
}

func TestRunDoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := ids(in)
	out := Run(in, nil, Params{Sort: SortPopular})
	out[0].Tags[0] = "changed"
	out[0].Title = "changed"

	assert.Equal(t, before, ids(in))
	assert.Equal(t, "kernels", in[1].Tags[0])

	first := Run(in, nil, Params{Query: "cs", Filters: Filters{Branch: "Computer Science"}})
	second := Run(in, nil, Params{Query: "cs", Filters: Filters{Branch: "Computer Science"}})
	assert.Equal(t, first, second)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortRating, ParseSort(" Rating "))
	assert.Equal(t, SortLatest, ParseSort(""))
	assert.Equal(t, SortDownloads, ParseSort("downloads"))
}

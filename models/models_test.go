package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" DSA ", "dsa", "", "Trees", "  ", "graphs"})
	assert.Equal(t, []string{"dsa", "trees", "graphs"}, got)
	assert.Empty(t, NormalizeTags(nil))
}

func TestResourceTypeRegistry(t *testing.T) {
	assert.True(t, TypeNotes.Valid())
	assert.True(t, TypeOther.Valid())
	assert.False(t, ResourceType("slides").Valid())
	assert.Equal(t, "Question Papers", TypePapers.Label())
	assert.Equal(t, "slides", ResourceType("slides").Label())
	assert.Len(t, ResourceTypes, 7)
}

func TestBookmarksToggle(t *testing.T) {
	b := NewBookmarks("a", "a", "b")
	assert.Equal(t, []string{"a", "b"}, b.IDs())

	assert.True(t, b.Toggle("r1"))
	assert.True(t, b.Has("r1"))
	assert.False(t, b.Toggle("r1"))
	assert.False(t, b.Has("r1"))

	assert.True(t, b.Remove("a"))
	assert.False(t, b.Remove("a"))
	assert.Equal(t, 1, b.Len())
}

func TestResourceCloneDoesNotShareTags(t *testing.T) {
	r := Resource{ID: "1", Tags: []string{"x"}}
	c := r.Clone()
	c.Tags[0] = "y"
	assert.Equal(t, "x", r.Tags[0])
}

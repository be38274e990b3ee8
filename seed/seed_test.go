package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourcesAreValidAndNewestFirst(t *testing.T) {
	rs, err := Resources()
	require.NoError(t, err)
	require.NotEmpty(t, rs)

	seen := map[string]bool{}
	for i, r := range rs {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
		assert.True(t, r.Type.Valid(), r.ID)
		assert.True(t, r.Privacy.Valid(), r.ID)
		assert.NotEmpty(t, r.Title)
		assert.NotEmpty(t, r.Subject)
		if i > 0 {
			assert.False(t, r.CreatedAt.After(rs[i-1].CreatedAt), "seed set must be newest first")
		}
	}
}

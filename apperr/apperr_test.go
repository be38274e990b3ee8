package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("add", "title is required"), KindValidation},
		{"wrapped not found", fmt.Errorf("outer: %w", NotFound("like", "resource", "r1")), KindNotFound},
		{"persistence", Persistence("save", errors.New("disk full")), KindPersistence},
		{"plain", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := NotFound("delete", "review", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)

	cause := errors.New("quota exceeded")
	perr := Persistence("save resources", cause)
	assert.ErrorIs(t, perr, ErrPersistence)
	assert.ErrorIs(t, perr, cause)
	assert.Equal(t, "save resources: persistence failed: quota exceeded", perr.Error())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "duplicate", KindDuplicate.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/dvdrental/pkg/errors"
)

func TestTerm(t *testing.T) {
	got, err := Term("  academy ")
	require.NoError(t, err)
	assert.Equal(t, "academy", got)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := Term(q)
		assert.ErrorIs(t, err, apperrors.ErrEmptyQuery)
	}
}

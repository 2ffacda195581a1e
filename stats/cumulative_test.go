package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulativeSumByGroup(t *testing.T) {
	got, err := CumulativeSumByGroup([]float64{1, 2, 3, 4, 5}, []int{7, 7, 8, 8, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 3, 7, 5}, got)
}

func TestCumulativeSumByGroupLengthMismatch(t *testing.T) {
	_, err := CumulativeSumByGroup([]float64{1}, []string{"a", "b"})
	assert.Error(t, err)
}

package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSeries(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "row %d: want undefined, got %v", i, got[i])
			continue
		}
		assert.InDelta(t, want[i], got[i], 1e-9, "row %d", i)
	}
}

var nan = math.NaN()

func TestRollingMean(t *testing.T) {
	got, err := RollingMean([]float64{10, 11, 12, 13, 14}, 3)
	require.NoError(t, err)
	assertSeries(t, []float64{nan, nan, 11, 12, 13}, got)
}

func TestRollingMeanWarmupBoundary(t *testing.T) {
	values := []float64{5, 4, 3, 2, 1, 0, 1, 2}
	for n := 1; n <= len(values); n++ {
		got, err := RollingMean(values, n)
		require.NoError(t, err)
		for i := range got {
			if i < n-1 {
				assert.True(t, math.IsNaN(got[i]), "n=%d row %d", n, i)
			} else {
				assert.False(t, math.IsNaN(got[i]), "n=%d row %d", n, i)
			}
		}
	}
}

func TestRollingMeanUndefinedInput(t *testing.T) {
	got, err := RollingMean([]float64{1, nan, 3, 4, 5}, 2)
	require.NoError(t, err)
	assertSeries(t, []float64{nan, nan, nan, 3.5, 4.5}, got)
}

func TestRollingBadPeriod(t *testing.T) {
	_, err := RollingMean([]float64{1}, 0)
	assert.Error(t, err)
	_, err = RollingStd([]float64{1}, -1)
	assert.Error(t, err)
}

func TestRollingStd(t *testing.T) {
	got, err := RollingStd([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got[7], 1e-12)

	got, err = RollingStd([]float64{1, 1, 1}, 2)
	require.NoError(t, err)
	assertSeries(t, []float64{nan, 0, 0}, got)
}

func TestRollingMaxMinSum(t *testing.T) {
	in := []float64{3, 1, 4, 1, 5, 9, 2}

	hi, err := RollingMax(in, 3)
	require.NoError(t, err)
	assertSeries(t, []float64{nan, nan, 4, 4, 5, 9, 9}, hi)

	lo, err := RollingMin(in, 3)
	require.NoError(t, err)
	assertSeries(t, []float64{nan, nan, 1, 1, 1, 1, 2}, lo)

	sum, err := RollingSum(in, 2)
	require.NoError(t, err)
	assertSeries(t, []float64{nan, 4, 5, 5, 6, 14, 11}, sum)
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 0), 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 1), 1e-12)
	assert.True(t, IsUndefined(StdDev([]float64{3}, 1)))
	assert.True(t, IsUndefined(StdDev(nil, 0)))
	assert.True(t, IsUndefined(Mean([]float64{nan})))
}

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rustyeddy/ind/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	t.Parallel()
	m := New()

	m.ObserveIndicator("SMA", time.Millisecond, nil)
	m.ObserveIndicator("SMA", time.Millisecond, errors.New("short"))
	m.ObserveIndicator("RSI", time.Millisecond, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndicatorErrors.WithLabelValues("SMA")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.IndicatorDuration))

	m.ObserveIngest(&market.BuildReport{Rows: 10, Kept: 7, Duplicates: 1, Dropped: make([]market.DroppedRow, 2)})
	m.ObserveIngest(nil)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RowsIngested))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsDuplicated))

	m.ObserveFile(nil, time.Second)
	m.ObserveFile(nil, time.Second)
	m.ObserveFile(errors.New("bad"), time.Second)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesTotal.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesTotal.WithLabelValues(StatusFailed)))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()
	m := New()
	m.ObserveFile(nil, time.Second)
	m.MarkRun(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "ind.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `ind_files_total{status="ok"} 1`), text)
	assert.Contains(t, text, "ind_last_run_timestamp_seconds 1.7e+09")
}

func TestIndependentRegistries(t *testing.T) {
	t.Parallel()
	a, b := New(), New()
	a.ObserveFile(nil, 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FilesTotal.WithLabelValues(StatusOK)))
}

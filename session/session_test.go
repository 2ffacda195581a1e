package session

import (
	"testing"
	"time"

	"github.com/rustyeddy/ind/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intraday(t *testing.T, times ...time.Time) *market.Series {
	t.Helper()
	candles := make([]market.Candle, len(times))
	for i, ts := range times {
		v := float64(i + 1)
		candles[i] = market.Candle{Time: ts, Open: v, High: v + 1, Low: v - 1, Close: v + 0.5, Volume: 10 * v}
	}
	s, err := market.NewSeries("T", candles)
	require.NoError(t, err)
	return s
}

func at(d, h int) time.Time {
	return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC)
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, Day, g)

	g, err = ParseGranularity("WEEK")
	require.NoError(t, err)
	assert.Equal(t, Week, g)

	_, err = ParseGranularity("fortnight")
	assert.Error(t, err)
}

func TestKeyDay(t *testing.T) {
	var p Partitioner
	assert.Equal(t, p.Key(at(2, 9)), p.Key(at(2, 23)))
	assert.NotEqual(t, p.Key(at(2, 23)), p.Key(at(3, 0)))
	assert.Equal(t, at(2, 0), p.Key(at(2, 15)).Time())
}

func TestKeyOffset(t *testing.T) {
	p := Partitioner{Offset: 17 * time.Hour}
	// 18:00 on the 2nd belongs with 10:00 on the 3rd.
	assert.Equal(t, p.Key(at(2, 18)), p.Key(at(3, 10)))
	assert.NotEqual(t, p.Key(at(2, 16)), p.Key(at(2, 18)))
}

func TestKeyWeekMonthHour(t *testing.T) {
	w := Partitioner{Granularity: Week}
	// 2024-01-01 is a Monday.
	assert.Equal(t, w.Key(at(1, 0)), w.Key(at(7, 23)))
	assert.NotEqual(t, w.Key(at(7, 23)), w.Key(at(8, 0)))

	m := Partitioner{Granularity: Month}
	assert.Equal(t, m.Key(at(1, 0)), m.Key(at(31, 5)))

	h := Partitioner{Granularity: Hour}
	assert.Equal(t, h.Key(at(1, 5)), h.Key(at(1, 5).Add(59*time.Minute)))
}

func TestKeyHourFallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	h := Partitioner{Granularity: Hour, Location: ny}

	// 01:30 EDT and 01:30 EST on 2024-11-03 are an hour apart.
	edt := time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC)
	est := edt.Add(time.Hour)
	assert.Equal(t, "01:30 EDT", edt.In(ny).Format("15:04 MST"))
	assert.Equal(t, "01:30 EST", est.In(ny).Format("15:04 MST"))

	assert.NotEqual(t, h.Key(edt), h.Key(est))
	assert.Equal(t, Key(edt.Add(-30*time.Minute).Unix()), h.Key(edt))
	assert.Equal(t, Key(est.Add(-30*time.Minute).Unix()), h.Key(est))
	assert.Equal(t, h.Key(est), h.Key(est.Add(29*time.Minute)))

	// Half-hour zones keep their local hour boundaries.
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	ist := Partitioner{Granularity: Hour, Location: kolkata}
	ts := time.Date(2024, 1, 1, 4, 40, 0, 0, time.UTC) // 10:10 IST
	assert.Equal(t, Key(time.Date(2024, 1, 1, 4, 30, 0, 0, time.UTC).Unix()), ist.Key(ts))
}

func TestKeyMonotonic(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	for _, p := range []Partitioner{
		{}, {Location: ny}, {Granularity: Week, Location: ny}, {Granularity: Hour, Location: ny},
		{Granularity: Month}, {Offset: 17 * time.Hour, Location: ny},
	} {
		ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		prev := p.Key(ts)
		for i := 0; i < 24*40; i++ {
			ts = ts.Add(time.Hour)
			k := p.Key(ts)
			assert.GreaterOrEqual(t, int64(k), int64(prev))
			prev = k
		}
	}
}

func TestIndex(t *testing.T) {
	s := intraday(t, at(2, 9), at(2, 10), at(3, 9), at(3, 10), at(3, 11), at(5, 9))
	idx := Partitioner{}.Index(s)

	require.Len(t, idx.Sessions, 3)
	assert.Equal(t, Session{Key: Partitioner{}.Key(at(2, 0)), Start: 0, End: 2}, idx.Sessions[0])
	assert.Equal(t, 3, idx.Sessions[1].Len())
	assert.Equal(t, []int{0, 0, 1, 1, 1, 2}, idx.RowSession)

	c := idx.Column("Session")
	v, ok := c.At(2)
	assert.True(t, ok)
	assert.Equal(t, float64(at(3, 0).Unix()), v)
}

func TestIndexEmpty(t *testing.T) {
	s := intraday(t)
	idx := Partitioner{}.Index(s)
	assert.Empty(t, idx.Sessions)
}

package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/ind/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// bar is a compact candle literal: time offset in hours from day0.
type bar struct {
	h            int
	o, hi, lo, c float64
	v            float64
}

func series(t *testing.T, bars ...bar) *market.Series {
	t.Helper()
	candles := make([]market.Candle, len(bars))
	for i, b := range bars {
		candles[i] = market.Candle{
			Time: day0.Add(time.Duration(b.h) * time.Hour),
			Open: b.o, High: b.hi, Low: b.lo, Close: b.c, Volume: b.v,
		}
	}
	s, err := market.NewSeries("TEST", candles)
	require.NoError(t, err)
	return s
}

// closes builds daily bars whose OHLC all equal the given closes.
func closes(t *testing.T, cs ...float64) *market.Series {
	t.Helper()
	bars := make([]bar, len(cs))
	for i, c := range cs {
		bars[i] = bar{h: 24 * i, o: c, hi: c, lo: c, c: c, v: 100}
	}
	return series(t, bars...)
}

// walk builds n hourly bars over several days with a deterministic
// zig-zag price path.
func walk(t *testing.T, n int) *market.Series {
	t.Helper()
	bars := make([]bar, n)
	price := 100.0
	for i := 0; i < n; i++ {
		step := math.Sin(float64(i)*0.7)*2 + math.Cos(float64(i)*0.13)
		o := price
		price += step
		hi := math.Max(o, price) + 0.5 + float64(i%3)*0.25
		lo := math.Min(o, price) - 0.5 - float64(i%4)*0.2
		bars[i] = bar{h: i * 3, o: o, hi: hi, lo: lo, c: price, v: float64(100 + (i*37)%250)}
	}
	return series(t, bars...)
}

func compute(t *testing.T, s *market.Series, p Params) []*market.Column {
	t.Helper()
	def, err := Get(p.Kind())
	require.NoError(t, err)
	cols, err := def.Compute(Input{Series: s}, p)
	require.NoError(t, err)
	return cols
}

func col(t *testing.T, cols []*market.Column, name string) *market.Column {
	t.Helper()
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %s not found", name)
	return nil
}

// assertColumn compares a column against want, where NaN means undefined.
func assertColumn(t *testing.T, want []float64, c *market.Column) {
	t.Helper()
	require.Equal(t, len(want), c.Len(), c.Name)
	for i, w := range want {
		v, ok := c.At(i)
		if math.IsNaN(w) {
			assert.False(t, ok, "%s row %d: want undefined, got %v", c.Name, i, v)
			continue
		}
		if assert.True(t, ok, "%s row %d: want %v, got undefined", c.Name, i, w) {
			assert.InDelta(t, w, v, 1e-9, "%s row %d", c.Name, i)
		}
	}
}

var nan = math.NaN()

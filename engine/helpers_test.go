package engine

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/ind/market"
	"github.com/stretchr/testify/require"
)

// hourly returns n hourly candles starting 2024-01-02, spanning several
// days when n > 24.
func hourly(t *testing.T, n int) *market.Series {
	t.Helper()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, n)
	price := 50.0
	for i := range candles {
		o := price
		price += math.Sin(float64(i)/3) + 0.1
		candles[i] = market.Candle{
			Time:   start.Add(time.Duration(i) * time.Hour),
			Open:   o,
			High:   math.Max(o, price) + 0.4,
			Low:    math.Min(o, price) - 0.3,
			Close:  price,
			Volume: float64(1000 + i%17*10),
		}
	}
	s, err := market.NewSeries("TEST", candles)
	require.NoError(t, err)
	return s
}

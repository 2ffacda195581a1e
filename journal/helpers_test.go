package journal

import (
	"testing"
	"time"

	"github.com/rustyeddy/ind/market"
	"github.com/stretchr/testify/require"
)

// enriched returns a three-day series with one numeric and one text
// column, the first row of each undefined.
func enriched(t *testing.T) *market.Series {
	t.Helper()
	candles := []market.Candle{
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 100, High: 103, Low: 99, Close: 101.5, AdjClose: 101.25, HasAdjClose: true, Volume: 1000},
		{Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 102, High: 106, Low: 101, Close: 104, AdjClose: 104, HasAdjClose: true, Volume: 1200},
		{Time: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Open: 104, High: 108, Low: 103, Close: 107, AdjClose: 107, HasAdjClose: true, Volume: 900},
	}
	s, err := market.NewSeries("SPY", candles)
	require.NoError(t, err)

	sma := market.NewColumn("SMA_2", 3)
	sma.Set(1, 102.75)
	sma.Set(2, 1.0/3+105)

	kind := market.NewTextColumn("Gap_Type", 3)
	kind.SetText(1, "Common")
	kind.SetText(2, "Breakaway")

	out, err := s.WithColumns(sma, kind)
	require.NoError(t, err)
	return out
}

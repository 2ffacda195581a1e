package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/stats"
)

// trueRanges returns max(H-L, |H-prevC|, |L-prevC|) per row. Row 0 has no
// previous close and is undefined.
func trueRanges(candles []market.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		if i == 0 {
			out[i] = stats.Undefined
			continue
		}
		cur, prev := candles[i], candles[i-1]
		out[i] = math.Max(cur.High-cur.Low,
			math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
	}
	return out
}

// computeATR smooths the true range over Period rows; the first value
// lands on row Period.
func computeATR(in Input, p ATRParams) ([]*market.Column, error) {
	tr := trueRanges(in.Series.Candles)

	var (
		atr []float64
		err error
	)
	if p.Smoothing == SmoothSMA {
		atr, err = stats.RollingMean(tr, p.Period)
	} else {
		atr, err = stats.WilderMean(tr, p.Period)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return []*market.Column{market.ColumnFrom(fmt.Sprintf("ATR_%d", p.Period), atr)}, nil
}

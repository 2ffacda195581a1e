package indicators

import "github.com/rustyeddy/ind/market"

// computeFVG flags three-bar imbalances. A bullish gap (low[i] > high[i-2])
// is the positive distance, a bearish gap (high[i] < low[i-2]) the negative
// distance, and anything else 0.
func computeFVG(in Input, _ FVGParams) ([]*market.Column, error) {
	candles := in.Series.Candles
	out := market.NewColumn("FVG", len(candles))

	for i := range candles {
		v := 0.0
		if i >= 2 {
			cur, back := candles[i], candles[i-2]
			switch {
			case cur.Low > back.High:
				v = cur.Low - back.High
			case cur.High < back.Low:
				v = cur.High - back.Low
			}
		}
		out.Set(i, v)
	}
	return []*market.Column{out}, nil
}

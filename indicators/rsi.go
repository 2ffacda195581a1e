package indicators

import (
	"fmt"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/stats"
)

// computeRSI uses Wilder-smoothed average gains and losses. A window with
// no losses reads 100; a window with no movement at all reads 50.
func computeRSI(in Input, p RSIParams) ([]*market.Column, error) {
	closes := in.Series.Closes()
	n := len(closes)

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := range closes {
		if i == 0 {
			gains[i], losses[i] = stats.Undefined, stats.Undefined
			continue
		}
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain, err := stats.WilderMean(gains, p.Period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	avgLoss, err := stats.WilderMean(losses, p.Period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	out := market.NewColumn(fmt.Sprintf("RSI_%d", p.Period), n)
	for i := 0; i < n; i++ {
		g, l := avgGain[i], avgLoss[i]
		if stats.IsUndefined(g) || stats.IsUndefined(l) {
			continue
		}
		switch {
		case l == 0 && g == 0:
			out.Set(i, 50)
		case l == 0:
			out.Set(i, 100)
		default:
			out.Set(i, 100-100/(1+g/l))
		}
	}
	return []*market.Column{out}, nil
}

package indicators

import (
	"fmt"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/stats"
)

// stochFlat is %K when the lookback range is zero: the close sits at the
// middle of a range of width zero.
const stochFlat = 50.0

// computeStoch is the slow stochastic: raw %K over FastK rows, smoothed by
// an SMA of SlowK rows into Stoch_K, and Stoch_D as the SMA of Stoch_K over
// SlowD rows.
func computeStoch(in Input, p StochParams) ([]*market.Column, error) {
	s := in.Series
	closes := s.Closes()

	hh, err := stats.RollingMax(s.Highs(), p.FastK)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	ll, err := stats.RollingMin(s.Lows(), p.FastK)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	raw := make([]float64, len(closes))
	for i := range closes {
		rng := hh[i] - ll[i]
		switch {
		case stats.IsUndefined(rng):
			raw[i] = stats.Undefined
		case rng == 0:
			raw[i] = stochFlat
		default:
			raw[i] = 100 * (closes[i] - ll[i]) / rng
		}
	}

	k, err := stats.RollingMean(raw, p.SlowK)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	d, err := stats.RollingMean(k, p.SlowD)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	suffix := fmt.Sprintf("%d_%d_%d", p.FastK, p.SlowK, p.SlowD)
	return []*market.Column{
		market.ColumnFrom("Stoch_K_"+suffix, k),
		market.ColumnFrom("Stoch_D_"+suffix, d),
	}, nil
}

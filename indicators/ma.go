package indicators

import (
	"fmt"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/stats"
)

func computeSMA(in Input, p SMAParams) ([]*market.Column, error) {
	sma, err := stats.RollingMean(in.Series.Closes(), p.Period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return []*market.Column{market.ColumnFrom(fmt.Sprintf("SMA_%d", p.Period), sma)}, nil
}

func computeEMA(in Input, p EMAParams) ([]*market.Column, error) {
	ema, err := stats.ExponentialMean(in.Series.Closes(), p.Period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return []*market.Column{market.ColumnFrom(fmt.Sprintf("EMA_%d", p.Period), ema)}, nil
}

// computeBollinger builds the middle band as SMA(period) and the outer bands
// at ±StdDev population standard deviations.
func computeBollinger(in Input, p BollingerParams) ([]*market.Column, error) {
	closes := in.Series.Closes()
	mid, err := stats.RollingMean(closes, p.Period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	sd, err := stats.RollingStd(closes, p.Period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	n := len(closes)
	upper := market.NewColumn("BB_Upper", n)
	middle := market.NewColumn("BB_Middle", n)
	lower := market.NewColumn("BB_Lower", n)
	for i := 0; i < n; i++ {
		upper.Set(i, mid[i]+p.StdDev*sd[i])
		middle.Set(i, mid[i])
		lower.Set(i, mid[i]-p.StdDev*sd[i])
	}
	return []*market.Column{upper, middle, lower}, nil
}

package indicators

import (
	"fmt"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/stats"
)

func computeMACD(in Input, p MACDParams) ([]*market.Column, error) {
	closes := in.Series.Closes()
	fast, err := stats.ExponentialMean(closes, p.Fast)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	slow, err := stats.ExponentialMean(closes, p.Slow)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	line := make([]float64, len(closes))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	signal, err := stats.ExponentialMean(line, p.Signal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	suffix := fmt.Sprintf("%d_%d_%d", p.Fast, p.Slow, p.Signal)
	n := len(closes)
	macd := market.NewColumn("MACD_"+suffix, n)
	sig := market.NewColumn("MACD_Signal_"+suffix, n)
	hist := market.NewColumn("MACD_Hist_"+suffix, n)
	for i := 0; i < n; i++ {
		macd.Set(i, line[i])
		sig.Set(i, signal[i])
		hist.Set(i, line[i]-signal[i])
	}
	return []*market.Column{macd, sig, hist}, nil
}

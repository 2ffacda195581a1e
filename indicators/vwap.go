package indicators

import (
	"fmt"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/stats"
)

// computeVWAP accumulates typical price × volume and volume from the start
// of each session. Rows where the session has seen no volume yet are
// undefined.
func computeVWAP(in Input, _ VWAPParams) ([]*market.Column, error) {
	s := in.Series
	n := s.Len()

	tpv := make([]float64, n)
	vol := s.Volumes()
	for i, c := range s.Candles {
		tpv[i] = c.TypicalPrice() * c.Volume
	}

	num, err := stats.CumulativeSumByGroup(tpv, in.Sessions.Keys)
	if err != nil {
		return nil, fmt.Errorf("VWAP: %w", err)
	}
	den, err := stats.CumulativeSumByGroup(vol, in.Sessions.Keys)
	if err != nil {
		return nil, fmt.Errorf("VWAP: %w", err)
	}

	out := market.NewColumn("VWAP", n)
	for i := 0; i < n; i++ {
		if den[i] == 0 {
			continue
		}
		out.Set(i, num[i]/den[i])
	}
	return []*market.Column{out}, nil
}

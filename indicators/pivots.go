package indicators

import (
	"fmt"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/session"
)

var pivotAggs = []session.Agg{
	{Field: market.FieldHigh, Op: session.Max},
	{Field: market.FieldLow, Op: session.Min},
	{Field: market.FieldClose, Op: session.Last},
}

// computePivots applies the previous session's floor pivots to every row of
// the current session. The first session has no pivots.
func computePivots(in Input, _ PivotParams) ([]*market.Column, error) {
	daily, err := session.Aggregate(in.Series, in.Sessions, pivotAggs)
	if err != nil {
		return nil, fmt.Errorf("PIVOT_POINTS: %w", err)
	}
	prev, err := session.ShiftPrevious(daily, 1)
	if err != nil {
		return nil, fmt.Errorf("PIVOT_POINTS: %w", err)
	}

	n := in.Series.Len()
	pp := market.NewColumn("PP", n)
	r1 := market.NewColumn("R1", n)
	s1 := market.NewColumn("S1", n)
	r2 := market.NewColumn("R2", n)
	s2 := market.NewColumn("S2", n)

	for _, sum := range prev {
		if !sum.Defined {
			continue
		}
		h, l, c := sum.Values[0], sum.Values[1], sum.Values[2]
		p := (h + l + c) / 3
		for i := sum.Session.Start; i < sum.Session.End; i++ {
			pp.Set(i, p)
			r1.Set(i, 2*p-l)
			s1.Set(i, 2*p-h)
			r2.Set(i, p+(h-l))
			s2.Set(i, p-(h-l))
		}
	}
	return []*market.Column{pp, r1, s1, r2, s2}, nil
}

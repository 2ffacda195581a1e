package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/session"
	"github.com/rustyeddy/ind/stats"
)

const (
	GapBreakaway = "Breakaway"
	GapCommon    = "Common"
)

var gapAggs = []session.Agg{
	{Field: market.FieldOpen, Op: session.First},
	{Field: market.FieldClose, Op: session.Last},
}

// computeGaps reports, on every row of a session, the distance between the
// session's first open and the previous session's last close.
//
// A gap is Breakaway when its magnitude exceeds the sample standard
// deviation of every gap in the series, Common otherwise. That threshold
// uses the whole history, so adding data can reclassify earlier sessions.
// The first session has no gap and is labelled Common.
func computeGaps(in Input, _ GapsParams) ([]*market.Column, error) {
	daily, err := session.Aggregate(in.Series, in.Sessions, gapAggs)
	if err != nil {
		return nil, fmt.Errorf("GAPS: %w", err)
	}

	gaps := make([]float64, len(daily))
	for i := range daily {
		if i == 0 {
			gaps[i] = stats.Undefined
			continue
		}
		gaps[i] = daily[i].Values[0] - daily[i-1].Values[1]
	}
	threshold := stats.StdDev(gaps, 1)

	n := in.Series.Len()
	gap := market.NewColumn("Gap", n)
	kind := market.NewTextColumn("Gap_Type", n)

	for si, sum := range daily {
		g := gaps[si]
		label := GapCommon
		if !stats.IsUndefined(g) && !stats.IsUndefined(threshold) && math.Abs(g) > threshold {
			label = GapBreakaway
		}
		for i := sum.Session.Start; i < sum.Session.End; i++ {
			gap.Set(i, g)
			kind.SetText(i, label)
		}
	}
	return []*market.Column{gap, kind}, nil
}

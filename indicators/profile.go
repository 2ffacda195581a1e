package indicators

import (
	"math"
	"sort"

	"github.com/rustyeddy/ind/market"
)

// computeVolumeProfile buckets each session's closes into Bins equal-width
// price bins, sums the volume per bin and reports the midpoint of the
// heaviest bin (the point of control) on every row of the session. Ties go
// to the lowest bin.
//
// The value uses the whole session, so rows see later rows of their own
// session.
func computeVolumeProfile(in Input, p VolumeProfileParams) ([]*market.Column, error) {
	candles := in.Series.Candles
	out := market.NewColumn("POC", len(candles))

	for _, sess := range in.Sessions.Sessions {
		if sess.Len() == 0 {
			continue
		}
		poc := pointOfControl(candles[sess.Start:sess.End], p.Bins)
		for i := sess.Start; i < sess.End; i++ {
			out.Set(i, poc)
		}
	}
	return []*market.Column{out}, nil
}

func pointOfControl(candles []market.Candle, bins int) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range candles {
		lo = math.Min(lo, c.Close)
		hi = math.Max(hi, c.Close)
	}
	edges := binEdges(lo, hi, bins)

	vol := make([]float64, bins)
	for _, c := range candles {
		// Bins are closed on the right: (edges[j], edges[j+1]].
		j := sort.SearchFloat64s(edges[1:], c.Close)
		if j >= bins {
			j = bins - 1
		}
		vol[j] += c.Volume
	}

	best := 0
	for j := 1; j < bins; j++ {
		if vol[j] > vol[best] {
			best = j
		}
	}
	return (edges[best] + edges[best+1]) / 2
}

// binEdges spreads bins+1 edges evenly over [lo, hi]. The lowest edge is
// pulled down by 0.1% of the range so the minimum falls inside the first
// bin. A degenerate range is widened by 0.1% on each side.
func binEdges(lo, hi float64, bins int) []float64 {
	degenerate := lo == hi
	if degenerate {
		lo -= widen(lo)
		hi += widen(hi)
	}
	edges := make([]float64, bins+1)
	step := (hi - lo) / float64(bins)
	for k := range edges {
		edges[k] = lo + float64(k)*step
	}
	edges[bins] = hi
	if !degenerate {
		edges[0] -= (hi - lo) * 0.001
	}
	return edges
}

func widen(v float64) float64 {
	if v == 0 {
		return 0.001
	}
	return 0.001 * math.Abs(v)
}

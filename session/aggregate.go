package session

import (
	"fmt"
	"math"

	"github.com/rustyeddy/ind/market"
)

// Op is a per-session aggregation.
type Op string

const (
	First Op = "first"
	Last  Op = "last"
	Max   Op = "max"
	Min   Op = "min"
	Sum   Op = "sum"
)

// Agg asks for Op applied to Field over each session.
type Agg struct {
	Field market.Field
	Op    Op
}

// Summary holds one value per requested Agg for a single session.
type Summary struct {
	Session Session
	Values  []float64
	// Defined is false for shifted summaries with no source session.
	Defined bool
}

// Aggregate computes spec over every session of idx, in session order.
func Aggregate(s *market.Series, idx *Index, spec []Agg) ([]Summary, error) {
	getters := make([]func(market.Candle) float64, len(spec))
	for i, a := range spec {
		g, err := fieldGetter(a.Field)
		if err != nil {
			return nil, err
		}
		switch a.Op {
		case First, Last, Max, Min, Sum:
		default:
			return nil, fmt.Errorf("unknown aggregate %q", a.Op)
		}
		getters[i] = g
	}

	out := make([]Summary, len(idx.Sessions))
	for si, sess := range idx.Sessions {
		vals := make([]float64, len(spec))
		for ai, a := range spec {
			vals[ai] = reduce(s.Candles[sess.Start:sess.End], getters[ai], a.Op)
		}
		out[si] = Summary{Session: sess, Values: vals, Defined: sess.Len() > 0}
	}
	return out, nil
}

// ShiftPrevious returns, for every session, the values of the session n
// places earlier. The first n results are undefined.
func ShiftPrevious(summaries []Summary, n int) ([]Summary, error) {
	if n <= 0 {
		return nil, fmt.Errorf("shift must be positive, got %d", n)
	}
	out := make([]Summary, len(summaries))
	for i, cur := range summaries {
		out[i] = Summary{Session: cur.Session}
		if i < n {
			continue
		}
		prev := summaries[i-n]
		out[i].Values = prev.Values
		out[i].Defined = prev.Defined
	}
	return out, nil
}

func reduce(candles []market.Candle, get func(market.Candle) float64, op Op) float64 {
	if len(candles) == 0 {
		return math.NaN()
	}
	switch op {
	case First:
		return get(candles[0])
	case Last:
		return get(candles[len(candles)-1])
	case Max:
		m := math.Inf(-1)
		for _, c := range candles {
			m = math.Max(m, get(c))
		}
		return m
	case Min:
		m := math.Inf(1)
		for _, c := range candles {
			m = math.Min(m, get(c))
		}
		return m
	default:
		sum := 0.0
		for _, c := range candles {
			sum += get(c)
		}
		return sum
	}
}

func fieldGetter(f market.Field) (func(market.Candle) float64, error) {
	switch f {
	case market.FieldOpen:
		return func(c market.Candle) float64 { return c.Open }, nil
	case market.FieldHigh:
		return func(c market.Candle) float64 { return c.High }, nil
	case market.FieldLow:
		return func(c market.Candle) float64 { return c.Low }, nil
	case market.FieldClose:
		return func(c market.Candle) float64 { return c.Close }, nil
	case market.FieldVolume:
		return func(c market.Candle) float64 { return c.Volume }, nil
	default:
		return nil, fmt.Errorf("cannot aggregate field %q", f)
	}
}

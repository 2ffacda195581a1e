// Package stats provides the windowed and exponential aggregation
// primitives shared by the indicators.
//
// Every function takes an ordered slice and returns a new slice of the same
// length. NaN marks an undefined value, both on input and output: a window
// that contains an undefined input is itself undefined. No function keeps
// state between calls, so they are safe for concurrent use.
package stats

import (
	"fmt"
	"math"
)

// Undefined is the in-band marker for "no value".
var Undefined = math.NaN()

// IsUndefined reports whether v carries no value.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

func checkPeriod(period int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	return nil
}

func filled(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Undefined
	}
	return out
}

// Mean returns the mean of the defined values, or Undefined if there are none.
func Mean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if IsUndefined(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return Undefined
	}
	return sum / float64(n)
}

// StdDev returns the standard deviation of the defined values with ddof
// delta degrees of freedom (0 = population, 1 = sample). It is Undefined
// when fewer than ddof+1 values are defined.
func StdDev(values []float64, ddof int) float64 {
	m := Mean(values)
	if IsUndefined(m) {
		return Undefined
	}
	ss, n := 0.0, 0
	for _, v := range values {
		if IsUndefined(v) {
			continue
		}
		d := v - m
		ss += d * d
		n++
	}
	if n-ddof <= 0 {
		return Undefined
	}
	return math.Sqrt(ss / float64(n-ddof))
}

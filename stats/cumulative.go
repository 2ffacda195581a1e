package stats

import "fmt"

// CumulativeSumByGroup returns the running sum of values, restarting from
// zero whenever the group key differs from the previous row's key.
func CumulativeSumByGroup[K comparable](values []float64, groups []K) ([]float64, error) {
	if len(values) != len(groups) {
		return nil, fmt.Errorf("values and groups differ in length: %d != %d", len(values), len(groups))
	}
	out := make([]float64, len(values))

	sum := 0.0
	for i, v := range values {
		if i == 0 || groups[i] != groups[i-1] {
			sum = 0
		}
		sum += v
		out[i] = sum
	}
	return out, nil
}

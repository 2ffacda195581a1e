package stats

import "math"

// window calls agg for every full window of period values ending at i and
// stores the result at i. Rows before the first full window, and windows
// holding an undefined value, stay Undefined.
func window(values []float64, period int, agg func(w []float64) float64) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := filled(len(values))

	// lastNaN is the index of the most recent undefined input.
	lastNaN := -1
	for i, v := range values {
		if IsUndefined(v) {
			lastNaN = i
		}
		if i < period-1 || lastNaN > i-period {
			continue
		}
		out[i] = agg(values[i-period+1 : i+1])
	}
	return out, nil
}

// RollingMean is the simple moving average over period rows.
func RollingMean(values []float64, period int) ([]float64, error) {
	return window(values, period, func(w []float64) float64 {
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})
}

// RollingStd is the population standard deviation over period rows, the
// same convention Bollinger bands use.
func RollingStd(values []float64, period int) ([]float64, error) {
	return window(values, period, func(w []float64) float64 {
		return StdDev(w, 0)
	})
}

// RollingSum sums period rows.
func RollingSum(values []float64, period int) ([]float64, error) {
	return window(values, period, func(w []float64) float64 {
		sum := 0.0
		for _, v := range w {
			sum += v
		}
		return sum
	})
}

// RollingMax is the highest value over period rows.
func RollingMax(values []float64, period int) ([]float64, error) {
	return window(values, period, func(w []float64) float64 {
		m := math.Inf(-1)
		for _, v := range w {
			if v > m {
				m = v
			}
		}
		return m
	})
}

// RollingMin is the lowest value over period rows.
func RollingMin(values []float64, period int) ([]float64, error) {
	return window(values, period, func(w []float64) float64 {
		m := math.Inf(1)
		for _, v := range w {
			if v < m {
				m = v
			}
		}
		return m
	})
}

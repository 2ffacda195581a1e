package stats

// ExponentialMean computes ema[t] = α·x[t] + (1-α)·ema[t-1] with
// α = 2/(span+1), seeded with the first defined value. Output is defined
// from that row onward. An undefined input yields an undefined output for
// that row and leaves the running average untouched.
func ExponentialMean(values []float64, span int) ([]float64, error) {
	if err := checkPeriod(span); err != nil {
		return nil, err
	}
	out := filled(len(values))

	alpha := 2.0 / float64(span+1)
	var ema float64
	seeded := false

	for i, v := range values {
		if IsUndefined(v) {
			continue
		}
		if !seeded {
			ema = v
			seeded = true
		} else {
			ema = alpha*v + (1-alpha)*ema
		}
		out[i] = ema
	}
	return out, nil
}

// WilderMean is Wilder's smoothing: the seed is the plain mean of the first
// period consecutive defined values, then w = (w·(p-1) + x) / p.
// Rows before the seed are Undefined. An undefined input during warm-up
// restarts the warm-up.
func WilderMean(values []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}
	out := filled(len(values))
	p := float64(period)

	var (
		w      float64
		sum    float64
		count  int
		seeded bool
	)
	for i, v := range values {
		if IsUndefined(v) {
			if !seeded {
				sum, count = 0, 0
			}
			continue
		}
		if !seeded {
			sum += v
			count++
			if count == period {
				w = sum / p
				seeded = true
				out[i] = w
			}
			continue
		}
		w = (w*(p-1) + v) / p
		out[i] = w
	}
	return out, nil
}

package market

import "time"

// Candle represents one OHLCV record of a price series.
type Candle struct {
	Time time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	// AdjClose is only meaningful when HasAdjClose is set.
	AdjClose    float64
	HasAdjClose bool

	Volume float64
}

// TypicalPrice returns (H+L+C)/3.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

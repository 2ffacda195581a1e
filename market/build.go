package market

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// RawRow is one uncoerced input record as handed over by ingestion.
type RawRow struct {
	Line     int
	Time     string
	Open     string
	High     string
	Low      string
	Close    string
	AdjClose string
	Volume   string
}

// BuildOptions control coercion of raw rows.
type BuildOptions struct {
	Symbol string
	// Location is applied to timestamps without a zone. Defaults to UTC.
	Location *time.Location
}

// DroppedRow records an input row rejected during coercion.
type DroppedRow struct {
	Line   int
	Reason string
}

// BuildReport summarizes what happened to the raw rows.
type BuildReport struct {
	Rows       int
	Kept       int
	Duplicates int
	Dropped    []DroppedRow
}

// Build turns raw rows into a canonical Series.
//
// Rows that fail coercion are dropped and reported. When several rows share
// a timestamp the last one in input order wins. The result is sorted by
// time. An EmptySeriesError is returned when nothing survives.
func Build(rows []RawRow, opts BuildOptions) (*Series, *BuildReport, error) {
	rep := &BuildReport{Rows: len(rows)}

	candles := make([]Candle, 0, len(rows))
	seen := make(map[int64]int, len(rows))

	for _, r := range rows {
		c, err := coerce(r, opts.Location)
		if err != nil {
			rep.Dropped = append(rep.Dropped, DroppedRow{Line: r.Line, Reason: err.Error()})
			continue
		}
		key := c.Time.UnixNano()
		if i, ok := seen[key]; ok {
			candles[i] = c
			rep.Duplicates++
			continue
		}
		seen[key] = len(candles)
		candles = append(candles, c)
	}

	if len(candles) == 0 {
		return nil, rep, &EmptySeriesError{Symbol: opts.Symbol, Dropped: len(rep.Dropped)}
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	rep.Kept = len(candles)

	s, err := NewSeries(opts.Symbol, candles)
	if err != nil {
		return nil, rep, err
	}
	return s, rep, nil
}

func coerce(r RawRow, loc *time.Location) (Candle, error) {
	var c Candle

	t, err := ParseTime(r.Time, loc)
	if err != nil {
		return c, err
	}
	c.Time = t

	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"open", r.Open, &c.Open},
		{"high", r.High, &c.High},
		{"low", r.Low, &c.Low},
		{"close", r.Close, &c.Close},
		{"volume", r.Volume, &c.Volume},
	}
	for _, f := range fields {
		v, err := finite(f.raw)
		if err != nil {
			return c, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}
	if c.Volume < 0 {
		return c, fmt.Errorf("volume: negative value %g", c.Volume)
	}

	if r.AdjClose != "" {
		v, err := finite(r.AdjClose)
		if err != nil {
			return c, fmt.Errorf("adj_close: %w", err)
		}
		c.AdjClose = v
		c.HasAdjClose = true
	}
	return c, nil
}

func finite(s string) (float64, error) {
	v, err := ParseFloat(s)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

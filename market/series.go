package market

import (
	"fmt"
	"time"
)

// Series is a canonical price series: one candle per timestamp in strictly
// increasing order, plus append-only indicator columns aligned by row.
//
// Candles are never modified once built. Columns are added through
// WithColumns, which returns a new Series and leaves the receiver intact.
type Series struct {
	Symbol  string
	Candles []Candle

	columns []*Column
	index   map[string]int
}

// NewSeries wraps already-canonical candles. Callers that start from raw
// rows should use Build instead.
func NewSeries(symbol string, candles []Candle) (*Series, error) {
	for i := 1; i < len(candles); i++ {
		if !candles[i].Time.After(candles[i-1].Time) {
			return nil, fmt.Errorf("candles not strictly increasing at row %d (%s after %s)",
				i, candles[i].Time.Format(time.RFC3339), candles[i-1].Time.Format(time.RFC3339))
		}
	}
	return &Series{
		Symbol:  symbol,
		Candles: candles,
		index:   map[string]int{},
	}, nil
}

// Len returns the number of rows.
func (s *Series) Len() int {
	return len(s.Candles)
}

// Time returns the timestamp of row i.
func (s *Series) Time(i int) time.Time {
	return s.Candles[i].Time
}

// Columns returns the indicator columns in insertion order.
func (s *Series) Columns() []*Column {
	out := make([]*Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// ColumnNames returns the indicator column names in insertion order.
func (s *Series) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up an indicator column by name.
func (s *Series) Column(name string) (*Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.columns[i], true
}

// WithColumns returns a copy of s with cols merged in. A column whose name
// already exists replaces the old one at the same position; new names are
// appended in the order given.
func (s *Series) WithColumns(cols ...*Column) (*Series, error) {
	out := &Series{
		Symbol:  s.Symbol,
		Candles: s.Candles,
		columns: make([]*Column, len(s.columns), len(s.columns)+len(cols)),
		index:   make(map[string]int, len(s.index)+len(cols)),
	}
	copy(out.columns, s.columns)
	for k, v := range s.index {
		out.index[k] = v
	}

	for _, c := range cols {
		if c == nil {
			continue
		}
		if c.Name == "" {
			return nil, fmt.Errorf("column has no name")
		}
		if c.Len() != s.Len() {
			return nil, fmt.Errorf("column %s has %d rows, series has %d", c.Name, c.Len(), s.Len())
		}
		if i, ok := out.index[c.Name]; ok {
			out.columns[i] = c
			continue
		}
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out, nil
}

// Head returns a series holding only the first n rows (and the first n
// rows of every column).
func (s *Series) Head(n int) *Series {
	if n > s.Len() {
		n = s.Len()
	}
	if n < 0 {
		n = 0
	}
	out := &Series{
		Symbol:  s.Symbol,
		Candles: s.Candles[:n:n],
		columns: make([]*Column, len(s.columns)),
		index:   make(map[string]int, len(s.index)),
	}
	for i, c := range s.columns {
		out.columns[i] = c.head(n)
		out.index[c.Name] = i
	}
	return out
}

func (s *Series) Opens() []float64 {
	return s.field(func(c Candle) float64 { return c.Open })
}

func (s *Series) Highs() []float64 {
	return s.field(func(c Candle) float64 { return c.High })
}

func (s *Series) Lows() []float64 {
	return s.field(func(c Candle) float64 { return c.Low })
}

func (s *Series) Closes() []float64 {
	return s.field(func(c Candle) float64 { return c.Close })
}

func (s *Series) Volumes() []float64 {
	return s.field(func(c Candle) float64 { return c.Volume })
}

func (s *Series) field(get func(Candle) float64) []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = get(c)
	}
	return out
}

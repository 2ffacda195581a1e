package market

import "math"

// Column is a named sequence of per-row values aligned with a Series.
//
// Every row carries a validity bit. A row whose bit is clear is undefined:
// the indicator had insufficient history, or the value would have been
// NaN or ±Inf. Text columns (e.g. gap classifications) use Text instead of
// Values.
type Column struct {
	Name   string
	Values []float64
	Text   []string
	Valid  []uint64
}

// NewColumn allocates a numeric column of n undefined rows.
func NewColumn(name string, n int) *Column {
	return &Column{
		Name:   name,
		Values: make([]float64, n),
		Valid:  make([]uint64, (n+63)/64),
	}
}

// NewTextColumn allocates a text column of n undefined rows.
func NewTextColumn(name string, n int) *Column {
	return &Column{
		Name:  name,
		Text:  make([]string, n),
		Valid: make([]uint64, (n+63)/64),
	}
}

// ColumnFrom builds a numeric column from raw values. NaN and ±Inf entries
// become undefined rows.
func ColumnFrom(name string, values []float64) *Column {
	c := NewColumn(name, len(values))
	for i, v := range values {
		c.Set(i, v)
	}
	return c
}

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.Text != nil {
		return len(c.Text)
	}
	return len(c.Values)
}

// IsText reports whether the column holds labels rather than numbers.
func (c *Column) IsText() bool {
	return c.Text != nil
}

// Set stores v at row i. Non-finite values leave the row undefined.
func (c *Column) Set(i int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.Values[i] = 0
		bitClear(c.Valid, i)
		return
	}
	c.Values[i] = v
	bitSet(c.Valid, i)
}

// SetText stores a label at row i.
func (c *Column) SetText(i int, s string) {
	c.Text[i] = s
	bitSet(c.Valid, i)
}

// At returns the value at row i and whether it is defined.
func (c *Column) At(i int) (float64, bool) {
	if !bitIsSet(c.Valid, i) {
		return 0, false
	}
	return c.Values[i], true
}

// TextAt returns the label at row i and whether it is defined.
func (c *Column) TextAt(i int) (string, bool) {
	if !bitIsSet(c.Valid, i) {
		return "", false
	}
	return c.Text[i], true
}

// Defined reports whether row i holds a value.
func (c *Column) Defined(i int) bool {
	return bitIsSet(c.Valid, i)
}

// Floats returns a copy of the numeric values with undefined rows as NaN.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.Values))
	for i := range c.Values {
		if bitIsSet(c.Valid, i) {
			out[i] = c.Values[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// head returns a copy of the first n rows.
func (c *Column) head(n int) *Column {
	var out *Column
	if c.IsText() {
		out = NewTextColumn(c.Name, n)
		copy(out.Text, c.Text[:n])
	} else {
		out = NewColumn(c.Name, n)
		copy(out.Values, c.Values[:n])
	}
	for i := 0; i < n; i++ {
		if bitIsSet(c.Valid, i) {
			bitSet(out.Valid, i)
		}
	}
	return out
}

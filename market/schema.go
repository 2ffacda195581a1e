package market

import (
	"sort"
	"strings"
)

// Field names an OHLCV input field.
type Field string

const (
	FieldTime     Field = "datetime"
	FieldOpen     Field = "open"
	FieldHigh     Field = "high"
	FieldLow      Field = "low"
	FieldClose    Field = "close"
	FieldAdjClose Field = "adj_close"
	FieldVolume   Field = "volume"
)

// RequiredFields must all be present in an input header.
var RequiredFields = []Field{FieldTime, FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume}

var fieldAliases = map[string]Field{
	"datetime":       FieldTime,
	"date":           FieldTime,
	"time":           FieldTime,
	"timestamp":      FieldTime,
	"open":           FieldOpen,
	"o":              FieldOpen,
	"high":           FieldHigh,
	"h":              FieldHigh,
	"low":            FieldLow,
	"l":              FieldLow,
	"close":          FieldClose,
	"c":              FieldClose,
	"adj close":      FieldAdjClose,
	"adj_close":      FieldAdjClose,
	"adjclose":       FieldAdjClose,
	"adjusted_close": FieldAdjClose,
	"adjusted close": FieldAdjClose,
	"volume":         FieldVolume,
	"vol":            FieldVolume,
	"v":              FieldVolume,
}

// Schema maps OHLCV fields to positions in an input record.
type Schema struct {
	cols map[Field]int
}

// NewSchema resolves a header row. Matching is case-insensitive and
// tolerates common aliases; unknown columns (such as a leading index
// column) are ignored. The first occurrence of a field wins.
func NewSchema(header []string) (Schema, error) {
	s := Schema{cols: map[Field]int{}}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		f, ok := fieldAliases[key]
		if !ok {
			continue
		}
		if _, seen := s.cols[f]; !seen {
			s.cols[f] = i
		}
	}

	var missing []string
	for _, f := range RequiredFields {
		if _, ok := s.cols[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Schema{}, &SchemaError{Missing: missing}
	}
	return s, nil
}

// Has reports whether the header carried f.
func (s Schema) Has(f Field) bool {
	_, ok := s.cols[f]
	return ok
}

// Row maps one input record onto a RawRow. Short records yield empty
// fields, which fail coercion later.
func (s Schema) Row(line int, rec []string) RawRow {
	get := func(f Field) string {
		i, ok := s.cols[f]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	return RawRow{
		Line:     line,
		Time:     get(FieldTime),
		Open:     get(FieldOpen),
		High:     get(FieldHigh),
		Low:      get(FieldLow),
		Close:    get(FieldClose),
		AdjClose: get(FieldAdjClose),
		Volume:   get(FieldVolume),
	}
}

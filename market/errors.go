package market

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema      = errors.New("schema error")
	ErrEmptySeries = errors.New("empty series")
)

// SchemaError reports required OHLCV fields missing from the input.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// EmptySeriesError reports that no valid rows survived cleaning.
type EmptySeriesError struct {
	Symbol  string
	Dropped int
}

func (e *EmptySeriesError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("no valid rows (%d dropped)", e.Dropped)
	}
	return fmt.Sprintf("%s: no valid rows (%d dropped)", e.Symbol, e.Dropped)
}

func (e *EmptySeriesError) Is(target error) bool {
	return target == ErrEmptySeries
}

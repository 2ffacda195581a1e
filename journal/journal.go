// Package journal writes enriched series to their destinations: one CSV
// file per series, or rows in a SQLite database keyed by run.
package journal

import (
	"context"
	"fmt"

	"github.com/rustyeddy/ind/market"
)

// Sink persists an enriched series. The meaning of dest depends on the
// sink: a file path for CSV, a source label for SQLite.
type Sink interface {
	Save(ctx context.Context, s *market.Series, dest string) error
	Close() error
}

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Options configure Open.
type Options struct {
	Format string
	// Precision is the number of decimals written for indicator values in
	// CSV output. Negative keeps full precision.
	Precision int
	// DBPath is the SQLite database file.
	DBPath string
}

// Open returns the sink for opts.Format.
func Open(opts Options) (Sink, error) {
	switch opts.Format {
	case "", FormatCSV:
		return NewCSV(opts.Precision), nil
	case FormatSQLite:
		if opts.DBPath == "" {
			return nil, fmt.Errorf("sqlite sink needs a database path")
		}
		return NewSQLite(opts.DBPath)
	default:
		return nil, fmt.Errorf("unknown output format %q", opts.Format)
	}
}

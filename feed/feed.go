// Package feed reads OHLCV price files into market series.
//
// Inputs are CSV with a header row, optionally compressed with xz or lzma
// (recognized by extension). Column names are matched case-insensitively
// with common aliases, so files written by pandas or yfinance load as-is.
package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustyeddy/ind/market"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
	"go.uber.org/zap"
)

// Extensions lists the recognized input suffixes, longest first.
var Extensions = []string{".csv.lzma", ".csv.xz", ".csv"}

// maxLoggedDrops caps the per-row drop reasons written to the log.
const maxLoggedDrops = 5

type Options struct {
	// Symbol defaults to the file name without its extension.
	Symbol string
	// Location applies to timestamps that carry no zone. Defaults to UTC.
	Location *time.Location
	Logger   *zap.Logger
}

// IsInput reports whether path has a recognized extension.
func IsInput(path string) bool {
	return trimExt(filepath.Base(path)) != filepath.Base(path)
}

// Symbol derives the ticker from a file name: "data/AAPL.csv.xz" -> "AAPL".
func Symbol(path string) string {
	return trimExt(filepath.Base(path))
}

func trimExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// Open returns a reader over the decompressed contents of path.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(path)
	var r io.Reader
	switch {
	case strings.HasSuffix(lower, ".xz"):
		r, err = xz.NewReader(f)
	case strings.HasSuffix(lower, ".lzma"):
		r, err = lzma.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return readCloser{Reader: r, Closer: f}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// Load reads one file into a series.
func Load(ctx context.Context, path string, opts Options) (*market.Series, *market.BuildReport, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer rc.Close()

	if opts.Symbol == "" {
		opts.Symbol = Symbol(path)
	}
	s, rep, err := Read(ctx, rc, opts)
	if err != nil {
		return nil, rep, fmt.Errorf("load %s: %w", path, err)
	}
	return s, rep, nil
}

// Read parses CSV from r. The first non-empty record is the header.
func Read(ctx context.Context, r io.Reader, opts Options) (*market.Series, *market.BuildReport, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		schema market.Schema
		rows   []market.RawRow
		header bool
	)
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		if blank(rec) {
			continue
		}
		if !header {
			schema, err = headerSchema(rec)
			if err != nil {
				return nil, nil, err
			}
			header = true
			continue
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, schema.Row(line, rec))
	}
	if !header {
		return nil, nil, &market.EmptySeriesError{Symbol: opts.Symbol}
	}

	s, rep, err := market.Build(rows, market.BuildOptions{Symbol: opts.Symbol, Location: opts.Location})
	if rep != nil {
		logReport(log, opts.Symbol, rep)
	}
	if err != nil {
		return nil, rep, err
	}
	return s, rep, nil
}

// headerSchema resolves the header. yfinance and pandas write the time
// index as an unnamed (or "Price") first column; that column is taken as
// the timestamp when nothing else names one.
func headerSchema(rec []string) (market.Schema, error) {
	schema, err := market.NewSchema(rec)
	if err == nil {
		return schema, nil
	}
	var se *market.SchemaError
	if !errors.As(err, &se) || len(se.Missing) != 1 || se.Missing[0] != string(market.FieldTime) {
		return market.Schema{}, err
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	if first != "" && first != "price" {
		return market.Schema{}, err
	}
	patched := append([]string{string(market.FieldTime)}, rec[1:]...)
	return market.NewSchema(patched)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func logReport(log *zap.Logger, symbol string, rep *market.BuildReport) {
	if rep.Duplicates > 0 {
		log.Warn("duplicate timestamps replaced",
			zap.String("symbol", symbol),
			zap.Int("duplicates", rep.Duplicates))
	}
	if len(rep.Dropped) == 0 {
		return
	}
	log.Warn("rows dropped",
		zap.String("symbol", symbol),
		zap.Int("dropped", len(rep.Dropped)),
		zap.Int("rows", rep.Rows))
	for i, d := range rep.Dropped {
		if i == maxLoggedDrops {
			break
		}
		log.Debug("row dropped",
			zap.String("symbol", symbol),
			zap.Int("line", d.Line),
			zap.String("reason", d.Reason))
	}
}

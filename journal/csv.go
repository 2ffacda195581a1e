package journal

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rustyeddy/ind/market"
	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// CSV writes one file per series: the input fields followed by every
// indicator column in order. Undefined values are empty fields.
type CSV struct {
	Precision int
}

func NewCSV(precision int) *CSV {
	return &CSV{Precision: precision}
}

// Save writes s to path, creating parent directories. The file is written
// next to path and renamed into place when complete.
func (w *CSV) Save(ctx context.Context, s *market.Series, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	writeErr := w.Write(ctx, bw, s)
	if writeErr == nil {
		writeErr = bw.Flush()
	}
	closeErr := f.Close()
	if writeErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save %s: %w", path, writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save %s: %w", path, closeErr)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Write renders s as CSV to out.
func (w *CSV) Write(ctx context.Context, out io.Writer, s *market.Series) error {
	cw := csv.NewWriter(out)

	adj := hasAdjClose(s)
	cols := s.Columns()
	header := []string{"Datetime", "Open", "High", "Low", "Close"}
	if adj {
		header = append(header, "Adj Close")
	}
	header = append(header, "Volume")
	header = append(header, s.ColumnNames()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	layout := timeLayout(s)
	rec := make([]string, 0, len(header))
	for i, c := range s.Candles {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec = rec[:0]
		rec = append(rec,
			c.Time.Format(layout),
			raw(c.Open), raw(c.High), raw(c.Low), raw(c.Close))
		if adj {
			if c.HasAdjClose {
				rec = append(rec, raw(c.AdjClose))
			} else {
				rec = append(rec, "")
			}
		}
		rec = append(rec, raw(c.Volume))
		for _, col := range cols {
			rec = append(rec, w.cell(col, i))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *CSV) Close() error {
	return nil
}

func (w *CSV) cell(c *market.Column, i int) string {
	if c.IsText() {
		s, _ := c.TextAt(i)
		return s
	}
	v, ok := c.At(i)
	if !ok {
		return ""
	}
	if w.Precision < 0 {
		return raw(v)
	}
	return decimal.NewFromFloat(v).StringFixed(int32(w.Precision))
}

func raw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func hasAdjClose(s *market.Series) bool {
	for _, c := range s.Candles {
		if c.HasAdjClose {
			return true
		}
	}
	return false
}

// timeLayout drops the clock when every row sits on midnight, so daily
// bars read as plain dates.
func timeLayout(s *market.Series) string {
	for _, c := range s.Candles {
		if c.Time.Hour() != 0 || c.Time.Minute() != 0 || c.Time.Second() != 0 || c.Time.Nanosecond() != 0 {
			return dateTimeLayout
		}
	}
	return dateLayout
}

var _ Sink = (*CSV)(nil)

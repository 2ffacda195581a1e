package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/pkg/id"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; pipeline workers queue on the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Save records s as a new run, with source as its label.
func (j *SQLite) Save(ctx context.Context, s *market.Series, source string) error {
	_, err := j.Record(ctx, s, source)
	return err
}

// Record stores s in one transaction and returns the new run id.
func (j *SQLite) Record(ctx context.Context, s *market.Series, source string) (string, error) {
	runID := id.New()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, symbol, source, created, row_count, column_names)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, s.Symbol, source, time.Now().UTC(), s.Len(), strings.Join(s.ColumnNames(), ","),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	bars, err := tx.PrepareContext(ctx, `
		INSERT INTO bars (run_id, row_idx, time, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer bars.Close()

	for i, c := range s.Candles {
		var adj sql.NullFloat64
		if c.HasAdjClose {
			adj = sql.NullFloat64{Float64: c.AdjClose, Valid: true}
		}
		if _, err := bars.ExecContext(ctx, runID, i, c.Time.UTC(), c.Open, c.High, c.Low, c.Close, adj, c.Volume); err != nil {
			return "", fmt.Errorf("insert bar %d: %w", i, err)
		}
	}

	vals, err := tx.PrepareContext(ctx, `
		INSERT INTO indicator_values (run_id, row_idx, name, value, label)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer vals.Close()

	for _, col := range s.Columns() {
		for i := 0; i < col.Len(); i++ {
			var (
				value sql.NullFloat64
				label sql.NullString
			)
			if col.IsText() {
				t, ok := col.TextAt(i)
				if !ok {
					continue
				}
				label = sql.NullString{String: t, Valid: true}
			} else {
				v, ok := col.At(i)
				if !ok {
					continue
				}
				value = sql.NullFloat64{Float64: v, Valid: true}
			}
			if _, err := vals.ExecContext(ctx, runID, i, col.Name, value, label); err != nil {
				return "", fmt.Errorf("insert %s row %d: %w", col.Name, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

var _ Sink = (*SQLite)(nil)

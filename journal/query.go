package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Run is one saved series.
type Run struct {
	ID      string
	Symbol  string
	Source  string
	Created time.Time
	Rows    int
	Columns []string
}

// Value is one defined indicator cell.
type Value struct {
	Row   int
	Time  time.Time
	Value float64
	// Label is set instead of Value for text columns.
	Label string
}

// GetRun returns a single run by id.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT run_id, symbol, source, created, row_count, column_names
		FROM runs
		WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns runs oldest first, limited to symbol unless it is empty.
func (j *SQLite) ListRuns(ctx context.Context, symbol string) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, symbol, source, created, row_count, column_names
		FROM runs
		WHERE ? = '' OR symbol = ?
		ORDER BY run_id ASC`, symbol, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Values returns the defined cells of one indicator column in row order.
func (j *SQLite) Values(ctx context.Context, runID, column string) ([]Value, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT v.row_idx, b.time, v.value, v.label
		FROM indicator_values v
		JOIN bars b ON b.run_id = v.run_id AND b.row_idx = v.row_idx
		WHERE v.run_id = ? AND v.name = ?
		ORDER BY v.row_idx ASC`, runID, column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Value
	for rows.Next() {
		var (
			v     Value
			value sql.NullFloat64
			label sql.NullString
		)
		if err := rows.Scan(&v.Row, &v.Time, &value, &label); err != nil {
			return nil, err
		}
		v.Value = value.Float64
		v.Label = label.String
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r    Run
		cols string
	)
	if err := s.Scan(&r.ID, &r.Symbol, &r.Source, &r.Created, &r.Rows, &cols); err != nil {
		return Run{}, err
	}
	if cols != "" {
		r.Columns = strings.Split(cols, ",")
	}
	return r, nil
}

// Package engine applies catalog indicators to price series, one at a time
// or as a configured battery.
//
// The engine performs no I/O. Every call returns a new series; the input is
// never modified.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/ind/indicators"
	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/session"
	"go.uber.org/zap"
)

// Recorder observes every indicator computation.
type Recorder interface {
	ObserveIndicator(name string, elapsed time.Duration, err error)
}

type Engine struct {
	partitioner session.Partitioner
	log         *zap.Logger
	rec         Recorder
}

type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPartitioner sets how rows are grouped into sessions for VWAP, pivots,
// volume profile and gaps. The default is the UTC calendar day.
func WithPartitioner(p session.Partitioner) Option {
	return func(e *Engine) { e.partitioner = p }
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.rec = r }
}

func New(opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Partitioner returns the session partitioner in use.
func (e *Engine) Partitioner() session.Partitioner {
	return e.partitioner
}

// Apply computes one indicator, looked up case-insensitively by name, and
// merges its columns into a copy of s. A nil p selects the indicator's
// defaults. Columns that already exist are replaced.
func (e *Engine) Apply(s *market.Series, name string, p indicators.Params) (*market.Series, error) {
	if s == nil {
		return nil, errors.New("apply: nil series")
	}
	def, err := indicators.Lookup(name)
	if err != nil {
		return nil, err
	}

	in := indicators.Input{Series: s}
	if def.Sessional {
		in.Sessions = e.partitioner.Index(s)
	}
	cols, err := e.compute(def, in, p)
	if err != nil {
		return nil, err
	}

	out, err := s.WithColumns(cols...)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", def.Name(), err)
	}
	e.log.Debug("indicator applied",
		zap.String("symbol", s.Symbol),
		zap.String("indicator", def.Name()),
		zap.Int("columns", len(cols)))
	return out, nil
}

func (e *Engine) compute(def *indicators.Definition, in indicators.Input, p indicators.Params) ([]*market.Column, error) {
	start := time.Now()
	cols, err := def.Compute(in, p)
	if e.rec != nil {
		e.rec.ObserveIndicator(def.Name(), time.Since(start), err)
	}
	return cols, err
}

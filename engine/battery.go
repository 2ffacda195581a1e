package engine

import (
	"context"
	"fmt"

	"github.com/rustyeddy/ind/indicators"
	"github.com/rustyeddy/ind/market"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Policy decides what a battery does when one indicator fails.
type Policy string

const (
	// PolicySkip logs the failure, records it in the report and carries on.
	PolicySkip Policy = "skip"
	// PolicyFail aborts the battery with a *StepError.
	PolicyFail Policy = "fail"
)

// MACD presets.
const (
	MACDDefault = "default"
	MACDClassic = "classic"
)

// SessionColumn holds the session start (unix seconds) when a battery asks
// for it.
const SessionColumn = "Session"

var maPeriods = []int{5, 10, 14, 20, 50, 100, 200}

// Battery is the configured set of indicators applied to every series.
type Battery struct {
	SMAPeriods    []int                          `json:"sma_periods" yaml:"sma_periods"`
	EMAPeriods    []int                          `json:"ema_periods" yaml:"ema_periods"`
	Bollinger     indicators.BollingerParams     `json:"bollinger" yaml:"bollinger"`
	ATR           indicators.ATRParams           `json:"atr" yaml:"atr"`
	RSIPeriods    []int                          `json:"rsi_periods" yaml:"rsi_periods"`
	MACD          indicators.MACDParams          `json:"macd" yaml:"macd"`
	MACDPreset    string                         `json:"macd_preset,omitempty" yaml:"macd_preset,omitempty"` // "default" or "classic"
	Stoch         indicators.StochParams         `json:"stoch" yaml:"stoch"`
	VolumeProfile indicators.VolumeProfileParams `json:"volume_profile" yaml:"volume_profile"`

	// Skip names indicators left out of the battery, e.g. ["gaps"].
	Skip           []string `json:"skip,omitempty" yaml:"skip,omitempty"`
	IncludeSession bool     `json:"include_session" yaml:"include_session"`
	Workers        int      `json:"workers" yaml:"workers"`
	OnError        Policy   `json:"on_error" yaml:"on_error"`
}

// DefaultBattery is the standard battery.
func DefaultBattery() Battery {
	return Battery{
		SMAPeriods:    append([]int(nil), maPeriods...),
		EMAPeriods:    append([]int(nil), maPeriods...),
		Bollinger:     indicators.BollingerParams{Period: 20, StdDev: 2},
		ATR:           indicators.ATRParams{Period: 14, Smoothing: indicators.SmoothWilder},
		RSIPeriods:    []int{5, 14},
		MACD:          indicators.MACDParams{Fast: 5, Slow: 13, Signal: 9},
		MACDPreset:    MACDDefault,
		Stoch:         indicators.StochParams{FastK: 5, SlowK: 3, SlowD: 3},
		VolumeProfile: indicators.VolumeProfileParams{Bins: 50},
		Workers:       1,
		OnError:       PolicySkip,
	}
}

// Step is one indicator invocation of a battery.
type Step struct {
	Kind   indicators.Kind
	Params indicators.Params
}

func (s Step) String() string {
	return s.Params.String()
}

// Validate checks every parameter record and option.
func (b Battery) Validate() error {
	switch b.OnError {
	case "", PolicySkip, PolicyFail:
	default:
		return fmt.Errorf("battery.on_error must be %q or %q, got %q", PolicySkip, PolicyFail, b.OnError)
	}
	switch b.MACDPreset {
	case "", MACDDefault, MACDClassic:
	default:
		return fmt.Errorf("battery.macd_preset must be %q or %q, got %q", MACDDefault, MACDClassic, b.MACDPreset)
	}
	if b.Workers < 0 {
		return fmt.Errorf("battery.workers must not be negative")
	}
	for _, name := range b.Skip {
		if _, err := indicators.ParseKind(name); err != nil {
			return fmt.Errorf("battery.skip: %w", err)
		}
	}
	steps, err := b.Steps()
	if err != nil {
		return err
	}
	for _, st := range steps {
		if err := st.Params.Validate(); err != nil {
			return fmt.Errorf("battery: %w", err)
		}
	}
	return nil
}

// Steps expands the battery into indicator invocations in output order:
// SMAs, EMAs, Bollinger, VWAP, pivots, ATR, RSIs, MACD, stochastic, volume
// profile, FVG, gaps.
func (b Battery) Steps() ([]Step, error) {
	skip := make(map[indicators.Kind]bool, len(b.Skip))
	for _, name := range b.Skip {
		k, err := indicators.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("battery.skip: %w", err)
		}
		skip[k] = true
	}

	macd := b.MACD
	if b.MACDPreset == MACDClassic {
		macd = indicators.MACDParams{Fast: 12, Slow: 26, Signal: 9}
	}

	var steps []Step
	add := func(p indicators.Params) {
		if !skip[p.Kind()] {
			steps = append(steps, Step{Kind: p.Kind(), Params: p})
		}
	}
	for _, p := range b.SMAPeriods {
		add(indicators.SMAParams{Period: p})
	}
	for _, p := range b.EMAPeriods {
		add(indicators.EMAParams{Period: p})
	}
	add(b.Bollinger)
	add(indicators.VWAPParams{})
	add(indicators.PivotParams{})
	add(b.ATR)
	for _, p := range b.RSIPeriods {
		add(indicators.RSIParams{Period: p})
	}
	add(macd)
	add(b.Stoch)
	add(b.VolumeProfile)
	add(indicators.FVGParams{})
	add(indicators.GapsParams{})
	return steps, nil
}

// StepError is returned by ApplyBattery under PolicyFail.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("indicator %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// SkippedStep is a step left out under PolicySkip.
type SkippedStep struct {
	Step string
	Err  error
}

// Report lists what a battery run applied and skipped, in step order.
type Report struct {
	Applied []string
	Skipped []SkippedStep
	Columns int
}

// ApplyBattery runs every step of b against s and merges the results in
// step order, regardless of how many workers computed them. The session
// index is built once and shared by all steps.
func (e *Engine) ApplyBattery(ctx context.Context, s *market.Series, b Battery) (*market.Series, *Report, error) {
	if s == nil {
		return nil, nil, fmt.Errorf("battery: nil series")
	}
	if err := b.Validate(); err != nil {
		return nil, nil, err
	}
	steps, err := b.Steps()
	if err != nil {
		return nil, nil, err
	}

	idx := e.partitioner.Index(s)
	results := make([][]*market.Column, len(steps))
	errs := make([]error, len(steps))

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, st := range steps {
		i, st := i, st
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			def, err := indicators.Get(st.Kind)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i], errs[i] = e.compute(def, indicators.Input{Series: s, Sessions: idx}, st.Params)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("battery %s: %w", s.Symbol, err)
	}

	report := &Report{}
	var cols []*market.Column
	if b.IncludeSession {
		cols = append(cols, idx.Column(SessionColumn))
	}
	for i, st := range steps {
		if errs[i] != nil {
			if b.OnError == PolicyFail {
				return nil, nil, &StepError{Step: st.String(), Err: errs[i]}
			}
			e.log.Warn("indicator skipped",
				zap.String("symbol", s.Symbol),
				zap.Stringer("indicator", st),
				zap.Error(errs[i]))
			report.Skipped = append(report.Skipped, SkippedStep{Step: st.String(), Err: errs[i]})
			continue
		}
		cols = append(cols, results[i]...)
		report.Applied = append(report.Applied, st.String())
	}

	out, err := s.WithColumns(cols...)
	if err != nil {
		return nil, nil, fmt.Errorf("battery %s: %w", s.Symbol, err)
	}
	report.Columns = len(out.Columns())
	e.log.Info("battery applied",
		zap.String("symbol", s.Symbol),
		zap.Int("rows", s.Len()),
		zap.Int("applied", len(report.Applied)),
		zap.Int("skipped", len(report.Skipped)))
	return out, report, nil
}

// Package indicators is the catalog of technical indicators.
//
// Every indicator is a pure function from a price series (and its session
// index) plus a typed parameter record to one or more row-aligned columns.
// Indicators never modify their input; merging the returned columns is the
// caller's job.
package indicators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/ind/market"
	"github.com/rustyeddy/ind/session"
)

// Kind enumerates the catalog.
type Kind int

const (
	SMA Kind = iota
	EMA
	Bollinger
	VWAP
	PivotPoints
	ATR
	RSI
	MACD
	Stoch
	VolumeProfile
	FVG
	Gaps

	numKinds
)

var kindNames = [numKinds]string{
	SMA:           "SMA",
	EMA:           "EMA",
	Bollinger:     "BOLLINGER",
	VWAP:          "VWAP",
	PivotPoints:   "PIVOT_POINTS",
	ATR:           "ATR",
	RSI:           "RSI",
	MACD:          "MACD",
	Stoch:         "STOCH",
	VolumeProfile: "VOLUME_PROFILE",
	FVG:           "FVG",
	Gaps:          "GAPS",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a case-insensitive indicator name. Dashes and spaces
// are accepted in place of underscores.
func ParseKind(name string) (Kind, error) {
	norm := strings.ToUpper(strings.TrimSpace(name))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for k, n := range kindNames {
		if n == norm {
			return Kind(k), nil
		}
	}
	return 0, &UnknownIndicatorError{Name: name}
}

// Input is what every indicator reads.
type Input struct {
	Series *market.Series
	// Sessions must be set for sessional indicators. Definition.Compute
	// fills in a calendar-day index when it is nil.
	Sessions *session.Index
}

// Definition is one catalog entry.
type Definition struct {
	Kind        Kind
	Description string
	Default     Params
	// Sessional indicators need the session index.
	Sessional bool

	accepts func(Params) bool
	minRows func(Params) int
	compute func(Input, Params) ([]*market.Column, error)
	decode  func([]byte) (Params, error)
}

// Name returns the canonical catalog name.
func (d *Definition) Name() string {
	return d.Kind.String()
}

// MinRows is the shortest series the indicator accepts with p.
func (d *Definition) MinRows(p Params) int {
	if p == nil {
		p = d.Default
	}
	return d.minRows(p)
}

// Compute validates p (nil means Default), checks the series length and
// runs the indicator.
func (d *Definition) Compute(in Input, p Params) ([]*market.Column, error) {
	if p == nil {
		p = d.Default
	}
	if !d.accepts(p) {
		return nil, &InvalidParameterError{Indicator: d.Name(), Reason: fmt.Sprintf("wrong parameter type %T", p)}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if in.Series == nil {
		return nil, fmt.Errorf("%s: nil series", d.Name())
	}
	if need, have := d.minRows(p), in.Series.Len(); have < need {
		return nil, &InsufficientDataError{Indicator: p.String(), Need: need, Have: have}
	}
	if d.Sessional && in.Sessions == nil {
		in.Sessions = session.Partitioner{}.Index(in.Series)
	}
	return d.compute(in, p)
}

func define[P Params](
	kind Kind,
	desc string,
	def P,
	sessional bool,
	minRows func(P) int,
	fn func(Input, P) ([]*market.Column, error),
) *Definition {
	return &Definition{
		Kind:        kind,
		Description: desc,
		Default:     def,
		Sessional:   sessional,
		accepts: func(p Params) bool {
			_, ok := p.(P)
			return ok
		},
		minRows: func(p Params) int { return minRows(p.(P)) },
		compute: func(in Input, p Params) ([]*market.Column, error) { return fn(in, p.(P)) },
		decode:  func(text []byte) (Params, error) { return decodeInto(kind, def, text) },
	}
}

func oneRow[P Params](P) int { return 1 }

var catalog = buildCatalog()

func buildCatalog() [numKinds]*Definition {
	defs := []*Definition{
		define(SMA, "Simple moving average of close", SMAParams{Period: 20}, false,
			func(p SMAParams) int { return p.Period }, computeSMA),
		define(EMA, "Exponential moving average of close, seeded with the first close", EMAParams{Period: 20}, false,
			oneRow[EMAParams], computeEMA),
		define(Bollinger, "Bollinger bands: SMA ± k population standard deviations", BollingerParams{Period: 20, StdDev: 2}, false,
			func(p BollingerParams) int { return p.Period }, computeBollinger),
		define(VWAP, "Session-anchored volume weighted average of typical price", VWAPParams{}, true,
			oneRow[VWAPParams], computeVWAP),
		define(PivotPoints, "Classic floor pivots from the previous session", PivotParams{}, true,
			oneRow[PivotParams], computePivots),
		define(ATR, "Average true range", ATRParams{Period: 14, Smoothing: SmoothWilder}, false,
			func(p ATRParams) int { return p.Period + 1 }, computeATR),
		define(RSI, "Relative strength index with Wilder smoothing", RSIParams{Period: 14}, false,
			func(p RSIParams) int { return p.Period + 1 }, computeRSI),
		define(MACD, "Moving average convergence/divergence", MACDParams{Fast: 5, Slow: 13, Signal: 9}, false,
			func(p MACDParams) int { return p.Slow }, computeMACD),
		define(Stoch, "Slow stochastic oscillator", StochParams{FastK: 5, SlowK: 3, SlowD: 3}, false,
			func(p StochParams) int { return p.FastK + p.SlowK + p.SlowD - 2 }, computeStoch),
		define(VolumeProfile, "Per-session point of control", VolumeProfileParams{Bins: 50}, true,
			oneRow[VolumeProfileParams], computeVolumeProfile),
		define(FVG, "Three-bar fair value gaps", FVGParams{}, false,
			func(FVGParams) int { return 3 }, computeFVG),
		define(Gaps, "Session opening gaps, classified against the gap history", GapsParams{}, true,
			oneRow[GapsParams], computeGaps),
	}

	var out [numKinds]*Definition
	for _, d := range defs {
		if out[d.Kind] != nil {
			panic(fmt.Sprintf("indicator %s defined twice", d.Kind))
		}
		if d.Default.Kind() != d.Kind {
			panic(fmt.Sprintf("indicator %s has default params for %s", d.Kind, d.Default.Kind()))
		}
		out[d.Kind] = d
	}
	for k, d := range out {
		if d == nil {
			panic(fmt.Sprintf("indicator %s has no definition", Kind(k)))
		}
	}
	return out
}

// Get returns the definition of k.
func Get(k Kind) (*Definition, error) {
	if k < 0 || k >= numKinds {
		return nil, &UnknownIndicatorError{Name: k.String()}
	}
	return catalog[k], nil
}

// Lookup resolves a case-insensitive name.
func Lookup(name string) (*Definition, error) {
	k, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return catalog[k], nil
}

// All returns every definition in Kind order.
func All() []*Definition {
	out := make([]*Definition, 0, numKinds)
	out = append(out, catalog[:]...)
	return out
}

// Names returns the sorted catalog names.
func Names() []string {
	names := make([]string, 0, numKinds)
	for _, n := range kindNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

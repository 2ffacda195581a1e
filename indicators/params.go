package indicators

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Params is the typed parameter record of one indicator kind.
type Params interface {
	Kind() Kind
	Validate() error
	// String renders the indicator with its parameters, e.g. "MACD(5,13,9)".
	String() string
}

type SMAParams struct {
	Period int `yaml:"period" json:"period"`
}

func (p SMAParams) Kind() Kind      { return SMA }
func (p SMAParams) Validate() error { return positive(SMA, "period", p.Period) }
func (p SMAParams) String() string  { return fmt.Sprintf("SMA(%d)", p.Period) }

type EMAParams struct {
	Period int `yaml:"period" json:"period"`
}

func (p EMAParams) Kind() Kind      { return EMA }
func (p EMAParams) Validate() error { return positive(EMA, "period", p.Period) }
func (p EMAParams) String() string  { return fmt.Sprintf("EMA(%d)", p.Period) }

type BollingerParams struct {
	Period int     `yaml:"period" json:"period"`
	StdDev float64 `yaml:"std_dev" json:"std_dev"`
}

func (p BollingerParams) Kind() Kind { return Bollinger }

func (p BollingerParams) Validate() error {
	if err := positive(Bollinger, "period", p.Period); err != nil {
		return err
	}
	if !(p.StdDev > 0) {
		return &InvalidParameterError{Indicator: Bollinger.String(), Param: "std_dev", Reason: fmt.Sprintf("must be positive, got %g", p.StdDev)}
	}
	return nil
}

func (p BollingerParams) String() string { return fmt.Sprintf("BOLLINGER(%d,%g)", p.Period, p.StdDev) }

type VWAPParams struct{}

func (VWAPParams) Kind() Kind      { return VWAP }
func (VWAPParams) Validate() error { return nil }
func (VWAPParams) String() string  { return "VWAP" }

type PivotParams struct{}

func (PivotParams) Kind() Kind      { return PivotPoints }
func (PivotParams) Validate() error { return nil }
func (PivotParams) String() string  { return "PIVOT_POINTS" }

// ATR smoothing methods.
const (
	SmoothWilder = "wilder"
	SmoothSMA    = "sma"
)

type ATRParams struct {
	Period int `yaml:"period" json:"period"`
	// Smoothing is "wilder" (default) or "sma".
	Smoothing string `yaml:"smoothing,omitempty" json:"smoothing,omitempty"`
}

func (p ATRParams) Kind() Kind { return ATR }

func (p ATRParams) Validate() error {
	if err := positive(ATR, "period", p.Period); err != nil {
		return err
	}
	switch p.Smoothing {
	case "", SmoothWilder, SmoothSMA:
		return nil
	}
	return &InvalidParameterError{Indicator: ATR.String(), Param: "smoothing", Reason: fmt.Sprintf("must be %q or %q, got %q", SmoothWilder, SmoothSMA, p.Smoothing)}
}

func (p ATRParams) String() string { return fmt.Sprintf("ATR(%d)", p.Period) }

type RSIParams struct {
	Period int `yaml:"period" json:"period"`
}

func (p RSIParams) Kind() Kind      { return RSI }
func (p RSIParams) Validate() error { return positive(RSI, "period", p.Period) }
func (p RSIParams) String() string  { return fmt.Sprintf("RSI(%d)", p.Period) }

type MACDParams struct {
	Fast   int `yaml:"fast" json:"fast"`
	Slow   int `yaml:"slow" json:"slow"`
	Signal int `yaml:"signal" json:"signal"`
}

func (p MACDParams) Kind() Kind { return MACD }

func (p MACDParams) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{{"fast", p.Fast}, {"slow", p.Slow}, {"signal", p.Signal}} {
		if err := positive(MACD, f.name, f.v); err != nil {
			return err
		}
	}
	if p.Fast >= p.Slow {
		return &InvalidParameterError{Indicator: MACD.String(), Reason: fmt.Sprintf("fast (%d) must be less than slow (%d)", p.Fast, p.Slow)}
	}
	return nil
}

func (p MACDParams) String() string { return fmt.Sprintf("MACD(%d,%d,%d)", p.Fast, p.Slow, p.Signal) }

type StochParams struct {
	FastK int `yaml:"fastk" json:"fastk"`
	SlowK int `yaml:"slowk" json:"slowk"`
	SlowD int `yaml:"slowd" json:"slowd"`
}

func (p StochParams) Kind() Kind { return Stoch }

func (p StochParams) Validate() error {
	if err := positive(Stoch, "fastk", p.FastK); err != nil {
		return err
	}
	if err := positive(Stoch, "slowk", p.SlowK); err != nil {
		return err
	}
	return positive(Stoch, "slowd", p.SlowD)
}

func (p StochParams) String() string {
	return fmt.Sprintf("STOCH(%d,%d,%d)", p.FastK, p.SlowK, p.SlowD)
}

type VolumeProfileParams struct {
	Bins int `yaml:"bins" json:"bins"`
}

func (p VolumeProfileParams) Kind() Kind      { return VolumeProfile }
func (p VolumeProfileParams) Validate() error { return positive(VolumeProfile, "bins", p.Bins) }
func (p VolumeProfileParams) String() string  { return fmt.Sprintf("VOLUME_PROFILE(%d)", p.Bins) }

type FVGParams struct{}

func (FVGParams) Kind() Kind      { return FVG }
func (FVGParams) Validate() error { return nil }
func (FVGParams) String() string  { return "FVG" }

type GapsParams struct{}

func (GapsParams) Kind() Kind      { return Gaps }
func (GapsParams) Validate() error { return nil }
func (GapsParams) String() string  { return "GAPS" }

// ParseParams decodes a YAML mapping such as "{period: 50}" into the
// parameter record of the named indicator. Fields left out keep their
// defaults; unknown fields are rejected.
func ParseParams(name, text string) (Params, error) {
	def, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return def.decode([]byte(text))
}

func decodeInto[P Params](kind Kind, def P, text []byte) (Params, error) {
	p := def
	if strings.TrimSpace(string(text)) == "" {
		return p, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(text))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, &InvalidParameterError{Indicator: kind.String(), Reason: fmt.Sprintf("malformed parameters: %v", err)}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rustyeddy/ind/indicators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultBatterySteps(t *testing.T) {
	b := DefaultBattery()
	require.NoError(t, b.Validate())

	steps, err := b.Steps()
	require.NoError(t, err)
	require.Len(t, steps, 7+7+1+1+1+1+2+1+1+1+1+1)
	assert.Equal(t, "SMA(5)", steps[0].String())
	assert.Equal(t, "EMA(200)", steps[13].String())
	assert.Equal(t, indicators.Gaps, steps[len(steps)-1].Kind)
}

func TestBatteryValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Battery)
	}{
		{"policy", func(b *Battery) { b.OnError = "retry" }},
		{"preset", func(b *Battery) { b.MACDPreset = "fast" }},
		{"workers", func(b *Battery) { b.Workers = -1 }},
		{"skip name", func(b *Battery) { b.Skip = []string{"ichimoku"} }},
		{"period", func(b *Battery) { b.SMAPeriods = []int{5, 0} }},
		{"bollinger", func(b *Battery) { b.Bollinger.StdDev = 0 }},
		{"macd", func(b *Battery) { b.MACD = indicators.MACDParams{Fast: 9, Slow: 9, Signal: 3} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DefaultBattery()
			tt.edit(&b)
			assert.Error(t, b.Validate())
		})
	}

	// A bad MACD is fine when the classic preset replaces it.
	b := DefaultBattery()
	b.MACD = indicators.MACDParams{}
	b.MACDPreset = MACDClassic
	assert.NoError(t, b.Validate())
}

func TestApplyBattery(t *testing.T) {
	s := hourly(t, 240)
	b := DefaultBattery()
	b.IncludeSession = true

	out, rep, err := New().ApplyBattery(context.Background(), s, b)
	require.NoError(t, err)
	assert.Empty(t, rep.Skipped)

	names := out.ColumnNames()
	assert.Equal(t, SessionColumn, names[0])
	for _, want := range []string{
		"SMA_5", "SMA_200", "EMA_14", "BB_Middle", "VWAP", "PP", "S2",
		"ATR_14", "RSI_5", "RSI_14", "MACD_5_13_9", "MACD_Hist_5_13_9",
		"Stoch_K_5_3_3", "Stoch_D_5_3_3", "POC", "FVG", "Gap", "Gap_Type",
	} {
		assert.Contains(t, names, want)
	}
	assert.Equal(t, len(names), rep.Columns)
	assert.Less(t, indexOf(names, "SMA_200"), indexOf(names, "EMA_5"))
	assert.Less(t, indexOf(names, "FVG"), indexOf(names, "Gap"))
	assert.Empty(t, s.ColumnNames())
}

func TestApplyBatteryDeterministic(t *testing.T) {
	s := hourly(t, 250)
	serial := DefaultBattery()
	parallel := DefaultBattery()
	parallel.Workers = 8

	a, _, err := New().ApplyBattery(context.Background(), s, serial)
	require.NoError(t, err)
	b, _, err := New().ApplyBattery(context.Background(), s, parallel)
	require.NoError(t, err)

	assert.Equal(t, a.ColumnNames(), b.ColumnNames())
	assert.Equal(t, a.Columns(), b.Columns())
}

func TestApplyBatteryIdempotent(t *testing.T) {
	s := hourly(t, 220)
	e := New()
	once, _, err := e.ApplyBattery(context.Background(), s, DefaultBattery())
	require.NoError(t, err)
	twice, _, err := e.ApplyBattery(context.Background(), once, DefaultBattery())
	require.NoError(t, err)
	assert.Equal(t, once.Columns(), twice.Columns())
}

func TestApplyBatterySkipPolicy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := New(WithLogger(zap.New(core)))

	s := hourly(t, 30)
	b := DefaultBattery()
	b.Skip = []string{"gaps", "volume-profile"}

	out, rep, err := e.ApplyBattery(context.Background(), s, b)
	require.NoError(t, err)

	var skipped []string
	for _, sk := range rep.Skipped {
		skipped = append(skipped, sk.Step)
		assert.True(t, errors.Is(sk.Err, indicators.ErrInsufficientData), sk.Step)
	}
	assert.Equal(t, []string{"SMA(50)", "SMA(100)", "SMA(200)"}, skipped)
	assert.Equal(t, 3, logs.FilterMessage("indicator skipped").Len())

	names := out.ColumnNames()
	assert.Contains(t, names, "SMA_20")
	assert.Contains(t, names, "EMA_200")
	assert.NotContains(t, names, "SMA_50")
	assert.NotContains(t, names, "Gap")
	assert.NotContains(t, names, "POC")
	assert.NotContains(t, names, SessionColumn)
}

func TestApplyBatteryFailPolicy(t *testing.T) {
	s := hourly(t, 30)
	b := DefaultBattery()
	b.OnError = PolicyFail
	b.Workers = 4

	out, rep, err := New().ApplyBattery(context.Background(), s, b)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Nil(t, rep)

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "SMA(50)", se.Step)
	assert.True(t, errors.Is(err, indicators.ErrInsufficientData))
}

func TestApplyBatteryClassicMACD(t *testing.T) {
	s := hourly(t, 60)
	b := DefaultBattery()
	b.SMAPeriods = []int{5}
	b.EMAPeriods = nil
	b.MACDPreset = MACDClassic

	out, _, err := New().ApplyBattery(context.Background(), s, b)
	require.NoError(t, err)
	assert.Contains(t, out.ColumnNames(), "MACD_12_26_9")
	assert.NotContains(t, out.ColumnNames(), "EMA_5")
}

func TestApplyBatteryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := New().ApplyBattery(ctx, hourly(t, 30), DefaultBattery())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestApplyBatteryRecords(t *testing.T) {
	rec := &fakeRecorder{}
	b := DefaultBattery()
	b.Workers = 3
	_, _, err := New(WithRecorder(rec)).ApplyBattery(context.Background(), hourly(t, 30), b)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.calls["SMA"])
	assert.Equal(t, 2, rec.calls["RSI"])
	assert.Equal(t, 3, rec.fails)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

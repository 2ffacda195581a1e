package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rustyeddy/ind/config"
	"github.com/rustyeddy/ind/engine"
	"github.com/rustyeddy/ind/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "ind",
	Short: "Enrich OHLCV price files with technical indicators",
	Long: `ind reads OHLCV price series (CSV, optionally xz or lzma compressed),
computes a configurable battery of technical indicators and writes the
enriched series as CSV or into a SQLite database.

Indicators: SMA, EMA, Bollinger bands, session VWAP, floor pivots, ATR,
RSI, MACD, slow stochastic, volume profile point of control, fair value
gaps and session gaps.

Every setting can come from a config file (--config), an IND_* environment
variable (e.g. IND_OUTPUT_FORMAT=sqlite) or a flag; flags win.`,
	SilenceUsage: true,
}

// v layers flags over IND_* environment variables over the config file.
var v = viper.New()

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	v.SetEnvPrefix("IND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (YAML or JSON)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")
	pf.String("log-file", "", "also write JSON logs to this rotated file")

	pf.StringP("input-folder", "i", "", "folder of input price files")
	pf.StringP("file", "f", "", "single input file (overrides --input-folder)")
	pf.String("input-tz", "", "timezone for input timestamps without one")
	pf.StringP("output-folder", "o", "", `output folder (default "<input>_ind")`)
	pf.String("format", "", "output format: csv or sqlite")
	pf.Int("precision", 4, "decimals written for indicator values, -1 for all")
	pf.String("db", "", "SQLite database for --format sqlite")
	pf.String("session", "", "session granularity: hour, day, week, month")
	pf.String("session-tz", "", "timezone sessions are cut in")
	pf.String("session-offset", "", `session boundary offset, e.g. "17h"`)
	pf.String("on-error", "", "indicator failure policy: skip or fail")
	pf.String("macd", "", "MACD preset: default (5,13,9) or classic (12,26,9)")
	pf.Bool("include-session", false, "add a Session column")
	pf.StringSlice("skip", nil, "indicators to leave out, e.g. --skip gaps,fvg")
	pf.Int("battery-workers", 1, "indicators computed in parallel per file")
	pf.IntP("workers", "w", 4, "files processed in parallel")
	pf.String("metrics-file", "", "write Prometheus metrics to this textfile")

	for flag, key := range map[string]string{
		"config":          "config",
		"log-level":       "log.level",
		"log-format":      "log.format",
		"log-file":        "log.output_file",
		"input-folder":    "input.folder",
		"file":            "input.file",
		"input-tz":        "input.timezone",
		"output-folder":   "output.folder",
		"format":          "output.format",
		"precision":       "output.precision",
		"db":              "output.db_path",
		"session":         "session.granularity",
		"session-tz":      "session.timezone",
		"session-offset":  "session.offset",
		"on-error":        "battery.on_error",
		"macd":            "battery.macd_preset",
		"include-session": "battery.include_session",
		"skip":            "battery.skip",
		"battery-workers": "battery.workers",
		"workers":         "run.workers",
		"metrics-file":    "run.metrics_file",
	} {
		bind(pf.Lookup(flag), key)
	}
}

func bind(f *pflag.Flag, key string) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// override copies a viper key onto the config when a flag or environment
// variable set it.
type override struct {
	key   string
	apply func(c *config.Config)
}

var overrides = []override{
	{"input.folder", func(c *config.Config) { c.Input.Folder = v.GetString("input.folder") }},
	{"input.file", func(c *config.Config) { c.Input.File = v.GetString("input.file") }},
	{"input.timezone", func(c *config.Config) { c.Input.Timezone = v.GetString("input.timezone") }},
	{"output.folder", func(c *config.Config) { c.Output.Folder = v.GetString("output.folder") }},
	{"output.format", func(c *config.Config) { c.Output.Format = v.GetString("output.format") }},
	{"output.precision", func(c *config.Config) { c.Output.Precision = v.GetInt("output.precision") }},
	{"output.db_path", func(c *config.Config) { c.Output.DBPath = v.GetString("output.db_path") }},
	{"session.granularity", func(c *config.Config) { c.Session.Granularity = v.GetString("session.granularity") }},
	{"session.timezone", func(c *config.Config) { c.Session.Timezone = v.GetString("session.timezone") }},
	{"session.offset", func(c *config.Config) { c.Session.Offset = v.GetString("session.offset") }},
	{"battery.on_error", func(c *config.Config) { c.Battery.OnError = engine.Policy(v.GetString("battery.on_error")) }},
	{"battery.macd_preset", func(c *config.Config) { c.Battery.MACDPreset = v.GetString("battery.macd_preset") }},
	{"battery.include_session", func(c *config.Config) { c.Battery.IncludeSession = v.GetBool("battery.include_session") }},
	{"battery.skip", func(c *config.Config) { c.Battery.Skip = stringList("battery.skip") }},
	{"battery.workers", func(c *config.Config) { c.Battery.Workers = v.GetInt("battery.workers") }},
	{"run.workers", func(c *config.Config) { c.Run.Workers = v.GetInt("run.workers") }},
	{"run.schedule", func(c *config.Config) { c.Run.Schedule = v.GetString("run.schedule") }},
	{"run.metrics_file", func(c *config.Config) { c.Run.MetricsFile = v.GetString("run.metrics_file") }},
	{"log.level", func(c *config.Config) { c.Log.Level = v.GetString("log.level") }},
	{"log.format", func(c *config.Config) { c.Log.Format = v.GetString("log.format") }},
	{"log.output_file", func(c *config.Config) { c.Log.OutputFile = v.GetString("log.output_file") }},
}

// stringList reads a list key. Environment values arrive as one string and
// are split on commas as well as whitespace, like the flag.
func stringList(key string) []string {
	var out []string
	for _, s := range v.GetStringSlice(key) {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// loadConfig reads --config (or the defaults) and applies environment and
// flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	for _, o := range overrides {
		if v.IsSet(o.key) {
			o.apply(cfg)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

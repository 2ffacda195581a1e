package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/ind/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daily(n int) string {
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		o := price
		price += float64(i%5) - 1.9
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%d\n",
			start.AddDate(0, 0, i).Format("2006-01-02"),
			o, max(o, price)+1, min(o, price)-1, price, 500+i)
	}
	return b.String()
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestConfigInitValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ind.yaml")
	require.NoError(t, execute(t, "config", "init", "--output", path))
	require.FileExists(t, path)
	assert.NoError(t, execute(t, "config", "validate", path))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output:\n  format: parquet\n"), 0o644))
	assert.Error(t, execute(t, "config", "validate", bad))
}

// Runs before TestCLI sets --skip, which would take precedence.
func TestEnvSkipList(t *testing.T) {
	t.Setenv("IND_BATTERY_SKIP", "gaps,fvg")
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"gaps", "fvg"}, cfg.Battery.Skip)

	t.Setenv("IND_BATTERY_SKIP", "gaps, fvg  vwap")
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"gaps", "fvg", "vwap"}, cfg.Battery.Skip)
}

// Flags stick to rootCmd between executions, so the CLI flow runs as one
// ordered test.
func TestCLI(t *testing.T) {
	in := t.TempDir()
	file := filepath.Join(in, "AAA.csv")
	require.NoError(t, os.WriteFile(file, []byte(daily(60)), 0o644))
	out := filepath.Join(t.TempDir(), "out")

	t.Run("process csv", func(t *testing.T) {
		require.NoError(t, execute(t, "process", "-i", in, "-o", out, "--log-level", "error", "--skip", "gaps"))

		data, err := os.ReadFile(filepath.Join(out, "AAA.csv"))
		require.NoError(t, err)
		header := strings.SplitN(string(data), "\n", 2)[0]
		assert.True(t, strings.HasPrefix(header, "Datetime,Open,High,Low,Close,Volume,"), header)
		assert.Contains(t, header, "SMA_5")
		assert.Contains(t, header, "RSI_14")
		assert.NotContains(t, header, "Gap")
	})

	t.Run("apply", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "sma.csv")
		require.NoError(t, execute(t, "apply", "sma", "-f", file, "--params", "{period: 3}", "--out", dest))

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Equal(t, "Datetime,Open,High,Low,Close,Volume,SMA_3", lines[0])
		assert.Len(t, lines, 61)

		assert.Error(t, execute(t, "apply", "nope", "-f", file))
		assert.Error(t, execute(t, "apply", "sma", "-f", file, "--params", "{period: 0}"))
	})

	t.Run("process sqlite", func(t *testing.T) {
		db := filepath.Join(t.TempDir(), "ind.sqlite")
		require.NoError(t, execute(t, "process", "-f", file, "--format", "sqlite", "--db", db))

		j, err := journal.NewSQLite(db)
		require.NoError(t, err)
		defer j.Close()
		runs, err := j.ListRuns(context.Background(), "AAA")
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, 60, runs[0].Rows)

		assert.NoError(t, execute(t, "runs", "AAA"))
		assert.NoError(t, execute(t, "runs", "show", runs[0].ID, "SMA_5"))
		assert.Error(t, execute(t, "runs", "show", runs[0].ID, "NOPE"))
	})

	t.Run("failed file", func(t *testing.T) {
		bad := filepath.Join(in, "BAD.csv")
		require.NoError(t, os.WriteFile(bad, []byte("Date,Open,Close\n2024-01-02,1,2\n"), 0o644))
		assert.Error(t, execute(t, "process", "-f", bad))
	})
}

func TestList(t *testing.T) {
	assert.NoError(t, execute(t, "list"))
}

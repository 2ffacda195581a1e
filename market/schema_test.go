package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaAliases(t *testing.T) {
	header := []string{"", "Datetime", "Adj Close", "Close", "High", "Low", "Open", "Volume"}
	s, err := NewSchema(header)
	require.NoError(t, err)
	assert.True(t, s.Has(FieldAdjClose))

	r := s.Row(7, []string{"0", "2024-01-02", "9", "10", "11", "8", "9.5", "1000"})
	assert.Equal(t, RawRow{
		Line: 7, Time: "2024-01-02", AdjClose: "9", Close: "10",
		High: "11", Low: "8", Open: "9.5", Volume: "1000",
	}, r)
}

func TestNewSchemaMissing(t *testing.T) {
	_, err := NewSchema([]string{"time", "open", "close"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"high", "low", "volume"}, se.Missing)
}

func TestSchemaShortRecord(t *testing.T) {
	s, err := NewSchema([]string{"date", "open", "high", "low", "close", "volume"})
	require.NoError(t, err)
	r := s.Row(3, []string{"2024-01-02", "1"})
	assert.Equal(t, "", r.Close)
	assert.False(t, s.Has(FieldAdjClose))
}

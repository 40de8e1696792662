package data

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCandles_HeaderDrivenColumns(t *testing.T) {
	csv := `close,volume,timestamp,open,high,low
2015.5,1200,2024-03-01T00:00:00Z,2010.0,2018.0,2008.0
2020.0,1500,2024-03-01T01:00:00Z,2015.5,2022.0,2014.0
`
	series, err := ReadCandles(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())

	first := series[0]
	assert.Equal(t, 2015.5, first.Close)
	assert.Equal(t, 2018.0, first.High)
	assert.Equal(t, 1200.0, first.Volume)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Timestamp)
}

func TestReadCandles_UnixTimestamps(t *testing.T) {
	csv := "timestamp,open,high,low,close\n1709251200,100,101,99,100.5\n"
	series, err := ReadCandles(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1709251200, 0).UTC(), series[0].Timestamp)
	assert.Zero(t, series[0].Volume)
}

func TestReadCandles_MillisecondTimestamps(t *testing.T) {
	csv := "timestamp,open,high,low,close\n1709251200000,100,101,99,100.5\n"
	series, err := ReadCandles(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1709251200000).UTC(), series[0].Timestamp)
}

func TestReadCandles_MissingColumnFails(t *testing.T) {
	_, err := ReadCandles(strings.NewReader("timestamp,open,high,low\n1,2,3,4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestReadCandles_BadPriceFails(t *testing.T) {
	csv := "timestamp,open,high,low,close\n2024-03-01,abc,101,99,100\n"
	_, err := ReadCandles(strings.NewReader(csv))
	require.Error(t, err)
}

func TestReadCandles_EmptyBodyFails(t *testing.T) {
	_, err := ReadCandles(strings.NewReader("timestamp,open,high,low,close\n"))
	require.Error(t, err)
}

// Package data loads market snapshots from disk: OHLCV candles from
// CSV and the supporting context (macro, intermarket, derivatives,
// sentiment) from JSON.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/marketoracle/oracle/internal/market"
)

var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

// LoadCandlesCSV reads an OHLCV file. The header names the columns;
// order does not matter. Required: timestamp, open, high, low, close.
// Volume defaults to zero when absent.
func LoadCandlesCSV(path string) (market.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle file: %w", err)
	}
	defer file.Close()

	return ReadCandles(file)
}

// ReadCandles parses CSV candle data from any reader.
func ReadCandles(r io.Reader) (market.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var series market.Series
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}
		line++

		candle, err := parseCandle(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		series = append(series, candle)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("no candles in input")
	}
	return series, nil
}

type columnMap struct {
	ts, open, high, low, clos, volume int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{ts: -1, open: -1, high: -1, low: -1, clos: -1, volume: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "timestamp", "time", "date", "datetime":
			cols.ts = i
		case "open", "o":
			cols.open = i
		case "high", "h":
			cols.high = i
		case "low", "l":
			cols.low = i
		case "close", "c":
			cols.clos = i
		case "volume", "vol", "v":
			cols.volume = i
		}
	}
	if cols.ts < 0 || cols.open < 0 || cols.high < 0 || cols.low < 0 || cols.clos < 0 {
		return cols, fmt.Errorf("csv header missing required columns (timestamp/open/high/low/close): %v", header)
	}
	return cols, nil
}

func parseCandle(record []string, cols columnMap) (market.Candle, error) {
	var c market.Candle

	ts, err := parseTime(record[cols.ts])
	if err != nil {
		return c, err
	}
	c.Timestamp = ts

	fields := []struct {
		idx  int
		dst  *float64
		name string
	}{
		{cols.open, &c.Open, "open"},
		{cols.high, &c.High, "high"},
		{cols.low, &c.Low, "low"},
		{cols.clos, &c.Close, "close"},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[f.idx]), 64)
		if err != nil {
			return c, fmt.Errorf("parse %s %q: %w", f.name, record[f.idx], err)
		}
		*f.dst = v
	}
	if cols.volume >= 0 && cols.volume < len(record) && record[cols.volume] != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[cols.volume]), 64)
		if err != nil {
			return c, fmt.Errorf("parse volume %q: %w", record[cols.volume], err)
		}
		c.Volume = v
	}
	return c, nil
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	// Unix seconds or milliseconds.
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidResult(t *testing.T) {
	r := New("RSI", CategoryTechnical, 85.0, Bearish, 0.5, "RSI at 85.00 - overbought", Metadata{Period: 14})

	assert.Equal(t, "RSI", r.Name)
	assert.Equal(t, CategoryTechnical, r.Category)
	assert.Equal(t, Bearish, r.Direction)
	assert.Equal(t, 0.5, r.Strength)
	assert.Equal(t, 14, r.Metadata.Period)
}

func TestNew_PanicsOnInvalidDirection(t *testing.T) {
	require.Panics(t, func() {
		New("Bad", CategoryTechnical, 0, 2, 0.5, "", Metadata{})
	})
	require.Panics(t, func() {
		New("Bad", CategoryTechnical, 0, -2, 0.5, "", Metadata{})
	})
}

func TestNew_PanicsOnInvalidStrength(t *testing.T) {
	require.Panics(t, func() {
		New("Bad", CategoryTechnical, 0, Bullish, 1.01, "", Metadata{})
	})
	require.Panics(t, func() {
		New("Bad", CategoryTechnical, 0, Bullish, -0.01, "", Metadata{})
	})
}

func TestUnavailable_IsNeutral(t *testing.T) {
	r := Unavailable("DXY", CategoryMacro, "insufficient DXY data")

	assert.Equal(t, Neutral, r.Direction)
	assert.Zero(t, r.Strength)
	assert.Equal(t, "insufficient DXY data", r.Explanation)
}

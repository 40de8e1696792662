package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRSISignal(t *testing.T) {
	tests := []struct {
		name      string
		rsi       float64
		direction int
		strength  float64
	}{
		{"overbought at 85", 85, Bearish, 0.5},
		{"deep overbought caps at 1", 100, Bearish, 1.0},
		{"oversold at 15", 15, Bullish, 0.5},
		{"mild bearish lean above midline", 60, Bearish, 0.15},
		{"mild bullish lean below midline", 40, Bullish, 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, str := rsiSignal(tt.rsi)
			assert.Equal(t, tt.direction, dir)
			assert.InDelta(t, tt.strength, str, 1e-9)
		})
	}
}

func TestADXSignal(t *testing.T) {
	tests := []struct {
		name      string
		adx       float64
		plusDI    float64
		minusDI   float64
		direction int
		strength  float64
	}{
		{"no trend below 18", 15, 30, 10, Neutral, 0},
		{"strong uptrend with spread boost", 45, 30, 10, Bullish, 0.15},
		{"developing downtrend", 29, 10, 20, Bearish, 0.5},
		{"equal DI is neutral", 35, 20, 20, Neutral, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, str := adxSignal(tt.adx, tt.plusDI, tt.minusDI)
			assert.Equal(t, tt.direction, dir)
			assert.InDelta(t, tt.strength, str, 1e-9)
		})
	}
}

func TestBollingerSignal(t *testing.T) {
	dir, str := bollingerSignal(1.05)
	assert.Equal(t, Bearish, dir)
	assert.InDelta(t, 0.5, str, 1e-9)

	dir, str = bollingerSignal(-0.02)
	assert.Equal(t, Bullish, dir)
	assert.InDelta(t, 0.2, str, 1e-9)

	dir, str = bollingerSignal(0.5)
	assert.Equal(t, Neutral, dir)
	assert.Zero(t, str)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-3))
	assert.Equal(t, 1.0, clamp01(7))
	assert.Equal(t, 0.42, clamp01(0.42))
}

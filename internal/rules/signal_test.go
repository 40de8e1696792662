package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_StringAndDirection(t *testing.T) {
	assert.Equal(t, "STRONG_BUY", StrongBuy.String())
	assert.Equal(t, "NEUTRAL", Neutral.String())
	assert.Equal(t, "STRONG_SELL", StrongSell.String())

	assert.True(t, StrongBuy.IsBuy())
	assert.True(t, WeakBuy.IsBuy())
	assert.False(t, Neutral.IsBuy())
	assert.True(t, WeakSell.IsSell())
	assert.False(t, Buy.IsSell())
}

func TestSignal_JSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(Sell)
	require.NoError(t, err)
	assert.Equal(t, `"SELL"`, string(raw))

	var s Signal
	require.NoError(t, json.Unmarshal([]byte(`"WEAK_BUY"`), &s))
	assert.Equal(t, WeakBuy, s)
}

func TestParseSignal_Unknown(t *testing.T) {
	_, err := ParseSignal("SIDEWAYS")
	require.Error(t, err)
}

func TestBiasOf(t *testing.T) {
	assert.Equal(t, BiasBullish, BiasOf(WeakBuy))
	assert.Equal(t, BiasBearish, BiasOf(StrongSell))
	assert.Equal(t, BiasNeutral, BiasOf(Neutral))
}

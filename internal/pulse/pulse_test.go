package pulse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPulse_Invert(t *testing.T) {
	assert.Equal(t, High, Low.Invert())
	assert.Equal(t, Low, High.Invert())
	assert.Equal(t, Low, Low.Invert().Invert())
}

func TestPulse_ZeroValueIsLow(t *testing.T) {
	var p Pulse
	assert.Equal(t, Low, p)
	assert.Equal(t, "low", p.String())
}

func TestParse(t *testing.T) {
	p, err := Parse("high")
	require.NoError(t, err)
	assert.Equal(t, High, p)

	p, err = Parse("low")
	require.NoError(t, err)
	assert.Equal(t, Low, p)

	_, err = Parse("HIGH")
	assert.Error(t, err, "pulse names are lowercase only")

	_, err = Parse("")
	assert.Error(t, err)
}

func TestPulse_JSONEncodesAsText(t *testing.T) {
	data, err := json.Marshal(At{Offset: 3, Pulse: High})
	require.NoError(t, err)
	assert.JSONEq(t, `{"offset":3,"pulse":"high"}`, string(data))

	var decoded At
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, At{Offset: 3, Pulse: High}, decoded)

	var bad At
	err = json.Unmarshal([]byte(`{"offset":0,"pulse":"medium"}`), &bad)
	assert.Error(t, err)
}

func TestCounter_Observe(t *testing.T) {
	var c Counter
	c.Observe(Low)
	c.Observe(Low)
	c.Observe(High)

	assert.Equal(t, int64(2), c.Low)
	assert.Equal(t, int64(1), c.High)
}

func TestCounter_AddAndScale(t *testing.T) {
	cycle := Counter{Low: 17, High: 11}
	remainder := Counter{Low: 8, High: 6}

	// Extrapolation identity: n full cycles plus a remainder equals
	// the remainder plus (n-1) extra cycles on top of one counted cycle.
	total := remainder.Add(cycle).Add(cycle.Scale(2))
	assert.Equal(t, Counter{Low: 8 + 3*17, High: 6 + 3*11}, total)

	assert.Equal(t, Counter{}, Counter{}.Scale(1000), "empty counter scales to empty")
}

func TestCounter_Product(t *testing.T) {
	c := Counter{Low: 8000, High: 4000}
	assert.Equal(t, int64(32000000), c.Product())

	assert.Equal(t, int64(0), Counter{Low: 5}.Product(), "no highs means zero product")
}

func TestAt_Before(t *testing.T) {
	assert.True(t, At{Offset: 1, Pulse: Low}.Before(At{Offset: 2, Pulse: High}))
	assert.False(t, At{Offset: 2, Pulse: High}.Before(At{Offset: 1, Pulse: Low}))

	// Equal offsets order High first.
	assert.True(t, At{Offset: 3, Pulse: High}.Before(At{Offset: 3, Pulse: Low}))
	assert.False(t, At{Offset: 3, Pulse: Low}.Before(At{Offset: 3, Pulse: High}))
	assert.False(t, At{Offset: 3, Pulse: High}.Before(At{Offset: 3, Pulse: High}))
}

package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "4.99", Amount(499).String())
	assert.Equal(t, "0.00", Amount(0).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "-1.50", Amount(-150).String())
	assert.Equal(t, "12345.60", Amount(1234560).String())
}

func TestFromFloat_RoundsToCents(t *testing.T) {
	assert.Equal(t, Amount(499), FromFloat(4.99))
	assert.Equal(t, Amount(299), FromFloat(2.985000001))
	assert.Equal(t, Amount(100), FromFloat(0.999))
}

func TestAmount_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want Amount
	}{
		{"postgres numeric", []byte("4.99"), 499},
		{"aggregated numeric", "67416.5100000", 6741651},
		{"float", 2.99, 299},
		{"integer", int64(3), 300},
		{"null", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, a.Scan(tt.src))
			assert.Equal(t, tt.want, a)
		})
	}

	var a Amount
	assert.Error(t, a.Scan(true))
	assert.Error(t, a.Scan("n/a"))
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Rate Amount `json:"rate"`
	}{Rate: 499})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate":"4.99"}`, string(b))

	var fromString, fromNumber Amount
	require.NoError(t, json.Unmarshal([]byte(`"0.99"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`0.99`), &fromNumber))
	assert.Equal(t, Amount(99), fromString)
	assert.Equal(t, Amount(99), fromNumber)
}

func TestAmount_Div(t *testing.T) {
	assert.Equal(t, Amount(0), Amount(1000).Div(0))
	assert.Equal(t, Amount(333), Amount(1000).Div(3))
	assert.Equal(t, Amount(250), Amount(1000).Div(4))
}

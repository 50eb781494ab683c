package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAmount(t *testing.T, s string) Amount {
	t.Helper()
	a, err := NewAmountFromString(s)
	require.NoError(t, err)
	return a
}

func TestAmountFromRate(t *testing.T) {
	tests := []struct {
		name    string
		rate    string
		seconds int64
		want    string
	}{
		{name: "one hour at whole rate", rate: "1", seconds: 3600, want: "1"},
		{name: "two hours", rate: "10", seconds: 7200, want: "20"},
		{name: "one second at smallest rate truncates to zero", rate: "0.00000001", seconds: 1, want: "0"},
		{name: "one second at hourly rate", rate: "3600", seconds: 1, want: "1"},
		{name: "repeating expansion truncates", rate: "1", seconds: 1, want: "0.00027777"},
		{name: "fractional rate", rate: "12.5", seconds: 1800, want: "6.25"},
		{name: "zero seconds", rate: "10", seconds: 0, want: "0"},
		{name: "negative seconds", rate: "10", seconds: -5, want: "0"},
		{name: "zero rate", rate: "0", seconds: 86400, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountFromRate(mustAmount(t, tt.rate), tt.seconds)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewAmountFromString(t *testing.T) {
	_, err := NewAmountFromString("-1")
	assert.Error(t, err)

	_, err = NewAmountFromString("not a number")
	assert.Error(t, err)

	a, err := NewAmountFromString("3.50")
	require.NoError(t, err)
	assert.Equal(t, "3.5", a.String())
}

func TestAmountString_TrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "0", ZeroAmount().String())
	assert.Equal(t, "5", mustAmount(t, "5.00000000").String())
	assert.Equal(t, "0.1", mustAmount(t, "0.10000000").String())
	assert.Equal(t, "1.00000001", mustAmount(t, "1.00000001").String())

	// Digits past the eighth fractional place are dropped, not rounded.
	assert.Equal(t, "1.99999999", mustAmount(t, "1.999999999").String())
}

func TestAmountSubClamped(t *testing.T) {
	five := mustAmount(t, "5")
	three := mustAmount(t, "3")

	assert.Equal(t, "2", five.SubClamped(three).String())
	assert.Equal(t, "0", three.SubClamped(five).String())
	assert.Equal(t, "0", three.SubClamped(three).String())
}

func TestAmountAccumulationStaysOnScale(t *testing.T) {
	// A day accrued second by second equals a day accrued at once when the
	// rate divides cleanly.
	rate := mustAmount(t, "3600")
	var total Amount
	for i := 0; i < 60; i++ {
		total = total.Add(AmountFromRate(rate, 60))
	}
	assert.Equal(t, "3600", total.String())
	assert.Equal(t, AmountFromRate(rate, 3600).String(), total.String())
}

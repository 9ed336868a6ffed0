package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.50", "10.50"},
		{" 10,5 ", "10.50"},
		{"0", "0.00"},
		{"3", "3.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatMoney(m))
		})
	}
}

func TestNewMoneyFromString_Invalid(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "1.2.3"} {
		_, err := NewMoneyFromString(in)
		assert.Error(t, err, in)
	}
}

func TestRound2_HalfUp(t *testing.T) {
	assert.Equal(t, "0.01", FormatMoney(Round2(MustMoney("0.005"))))
	assert.Equal(t, "2.68", FormatMoney(Round2(MustMoney("2.675"))))
	assert.Equal(t, "2.67", FormatMoney(Round2(MustMoney("2.674"))))
	assert.Equal(t, "-0.01", FormatMoney(Round2(MustMoney("-0.005"))))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(MustMoney("35.00"), MustMoney("10")).Equal(MustMoney("3.5")))
	assert.True(t, NewMoneyFromCents(1999).Equal(MustMoney("19.99")))
}

package calc

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquals(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"3 + 4", "3 + 4 = 7.0"},
		{"5 - 2", "5 - 2 = 3.0"},
		{"6 * 7", "6 * 7 = 42.0"},
		{"10 / 0", "10 / 0 = Infinity"},
		{"1 / 4", "1 / 4 = 0.25"},
		{"2 - 9", "2 - 9 = -7.0"},
		{"12 * 3", "12 * 3 = 36.0"},
		{"1e400 - 1", "1e400 - 1 = Infinity"},
		{"-1e400 * 2", "-1e400 * 2 = -Infinity"},
		{"1e-400 + 2", "1e-400 + 2 = 2.0"},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Equals(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	v, err := Evaluate("10 / 0")
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))

	v, err = Evaluate("0 / 0")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestEvaluateErrors(t *testing.T) {
	t.Run("TooFewTokens", func(t *testing.T) {
		_, err := Evaluate("3 +")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformed))
	})

	t.Run("ChainedExpression", func(t *testing.T) {
		_, err := Evaluate("3 + 4 = 7.0")
		assert.True(t, errors.Is(err, ErrMalformed))
	})

	t.Run("TrailingOperator", func(t *testing.T) {
		_, err := Evaluate("3 + ")
		assert.True(t, errors.Is(err, ErrOperand))
	})

	t.Run("NonNumeric", func(t *testing.T) {
		_, err := Evaluate("x * 2")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOperand))
		assert.Contains(t, err.Error(), `"x"`)
	})

	t.Run("UnknownOperator", func(t *testing.T) {
		_, err := Evaluate("3 % 4")
		assert.True(t, errors.Is(err, ErrUnknownOperator))
	})
}

func TestEqualsKeepsBufferOnError(t *testing.T) {
	got, err := Equals("7 ^ 2")
	require.Error(t, err)
	assert.Equal(t, "7 ^ 2", got)
}

func TestFormatResult(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{7, "7.0"},
		{-3, "-3.0"},
		{0.5, "0.5"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{9999999, "9999999.0"},
		{1e7, "1.0E7"},
		{12345678, "1.2345678E7"},
		{0.0001, "1.0E-4"},
		{1.0 / 3.0, "0.3333333333333333"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatResult(tc.in), "format %v", tc.in)
	}
}

package eassc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrDefault(t *testing.T) {
	cases := map[string]float64{
		"100":         100,
		"1,250":       1250,
		" 12.5 ":      12.5,
		"1,250 units": 1250,
		"-4":          -4,
		".5":          0.5,
		"3e2":         300,
		"":            0,
		"n/a":         0,
		"abc100":      0,
	}
	for in, want := range cases {
		got, err := ParseOrDefault.Parse(in)
		require.NoError(t, err, in)
		require.InDelta(t, want, got, 1e-9, in)
	}
}

func TestStrictPolicy(t *testing.T) {
	v, err := Strict.Parse("1,250.5")
	require.NoError(t, err)
	require.InDelta(t, 1250.5, v, 1e-9)

	v, err = Strict.Parse("  ")
	require.NoError(t, err)
	require.Zero(t, v)

	_, err = Strict.Parse("12 units")
	require.Error(t, err)

	for _, in := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
		_, err = Strict.Parse(in)
		require.Error(t, err, in)
	}

	require.Equal(t, Strict, PolicyFor(true))
	require.Equal(t, ParseOrDefault, PolicyFor(false))
}

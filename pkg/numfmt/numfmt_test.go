package numfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatEuropean(t *testing.T) {
	cases := []struct {
		in       float64
		decimals int
		want     string
	}{
		{1234.56, 2, "1.234,56"},
		{1234.56, 0, "1.235"},
		{1234.5, 0, "1.235"},
		{0, 0, "0"},
		{999, 0, "999"},
		{1000, 0, "1.000"},
		{1234567.891, 1, "1.234.567,9"},
		{-9876.5, 2, "-9.876,50"},
		{-0.4, 0, "0"},
		{12, 2, "12,00"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatEuropean(tc.in, tc.decimals), "value %v decimals %d", tc.in, tc.decimals)
	}
}

func TestFormatEuropean_InvalidRendersDash(t *testing.T) {
	require.Equal(t, "-", FormatEuropean(math.NaN(), 0))
	require.Equal(t, "-", FormatEuropean(math.Inf(1), 2))
	require.Equal(t, "-", FormatAny("12", 0))
	require.Equal(t, "-", FormatAny(nil, 0))
	require.Equal(t, "1.500", FormatAny(1500, 0))
}

func TestPercentAndCell(t *testing.T) {
	require.Equal(t, "12,5%", Percent(12.46))
	require.Equal(t, "-", Percent(math.NaN()))
	require.Equal(t, "-", Cell(0, true, 0))
	require.Equal(t, "-", Cell(10, false, 0))
	require.Equal(t, "10", Cell(10, true, 0))
}

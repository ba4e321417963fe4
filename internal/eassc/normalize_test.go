package eassc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize_MergesSalesAndStocksByKey(t *testing.T) {
	obs := []Observation{
		{Company: "Company A", Product: "Widgets", Year: 2024, Month: 1, Value: 100, DataType: Sales},
		{Company: "Company A", Product: "Gadgets", Year: 2024, Month: 1, Value: 7, DataType: Sales},
		{Company: "Company A", Product: "Widgets", Year: 2024, Month: 1, Value: 40, DataType: Stocks},
	}
	got := Normalize(obs)
	require.Equal(t, []Record{
		{Company: "Company A", Product: "Widgets", Year: 2024, Month: 1, Sales: 100, Stocks: 40},
		{Company: "Company A", Product: "Gadgets", Year: 2024, Month: 1, Sales: 7},
	}, got)
}

func TestNormalize_LastWriteWins(t *testing.T) {
	o := Observation{Company: "Company A", Product: "Widgets", Year: 2024, Month: 2, Value: 10, DataType: Sales}
	once := Normalize([]Observation{o})
	twice := Normalize([]Observation{o, o})
	require.Equal(t, once, twice)

	later := o
	later.Value = 25
	got := Normalize([]Observation{o, later})
	require.Len(t, got, 1)
	require.Equal(t, 25.0, got[0].Sales)
}

func TestNormalize_Empty(t *testing.T) {
	require.Empty(t, Normalize(nil))
}

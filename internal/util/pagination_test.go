package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	from, limit := Calculate(1, 10)
	require.Equal(t, 0, from)
	require.Equal(t, 10, limit)

	from, limit = Calculate(3, 20)
	require.Equal(t, 40, from)
	require.Equal(t, 20, limit)

	from, limit = Calculate(0, 0)
	require.Equal(t, 0, from)
	require.Equal(t, DefaultPageSize, limit)

	from, limit = Calculate(2, 1000)
	require.Equal(t, DefaultPageSize, from)
	require.Equal(t, DefaultPageSize, limit)
}

func TestClampWindow(t *testing.T) {
	cases := []struct {
		name       string
		startindex int
		number     int
		total      int
		want       int
	}{
		{"full window inside total", 0, 5, 10, 5},
		{"window spans end", 7, 5, 10, 3},
		{"window exactly to end", 5, 5, 10, 5},
		{"start at total", 10, 5, 10, 0},
		{"start beyond total", 15, 5, 10, 0},
		{"single item total", 0, 5, 1, 1},
		{"zero total", 0, 5, 0, 0},
		{"negative start", -1, 5, 10, 0},
		{"zero number", 0, 0, 10, 0},
		{"negative number", 0, -3, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClampWindow(tc.startindex, tc.number, tc.total))
		})
	}
}

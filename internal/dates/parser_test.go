package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedParser() *Parser {
	now := time.Date(2025, time.November, 12, 10, 0, 0, 0, time.UTC)
	return NewParser(func() time.Time { return now }, time.UTC)
}

func TestParseGrammar(t *testing.T) {
	t.Parallel()

	p := fixedParser()
	cases := []struct {
		in   string
		want time.Time
	}{
		{"21 jul", time.Date(2025, time.July, 21, 0, 0, 0, 0, time.UTC)},
		{"21 jul 2024", time.Date(2024, time.July, 21, 0, 0, 0, 0, time.UTC)},
		{"21 jul 14:30", time.Date(2025, time.July, 21, 14, 30, 0, 0, time.UTC)},
		{"21 jul 2024 14:30", time.Date(2024, time.July, 21, 14, 30, 0, 0, time.UTC)},
		{"  3 DIC ", time.Date(2025, time.December, 3, 0, 0, 0, 0, time.UTC)},
		{"Venta del 5 ene 2025 9:05 hs", time.Date(2025, time.January, 5, 9, 5, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, ok := p.Parse(tc.in)
		require.True(t, ok, "parse %q", tc.in)
		assert.True(t, got.Equal(tc.want), "parse %q: got %v want %v", tc.in, got, tc.want)
	}
}

func TestParseAllMonths(t *testing.T) {
	t.Parallel()

	p := fixedParser()
	for abbr, month := range months {
		got, ok := p.Parse("1 " + abbr)
		require.True(t, ok, abbr)
		require.Equal(t, month, got.Month())
		require.Equal(t, 1, got.Day())
	}
}

func TestParseFailures(t *testing.T) {
	t.Parallel()

	p := fixedParser()
	for _, in := range []string{"", "31 xyz", "hola mundo", "jul 21", "31 feb", "10 jul 25:00"} {
		_, ok := p.Parse(in)
		assert.False(t, ok, "expected failure for %q", in)
	}
}

func TestFindIn(t *testing.T) {
	t.Parallel()

	got, ok := FindIn("Pack #2000 | 14 ago 2025 18:45 hs | Entregar")
	require.True(t, ok)
	require.Equal(t, "14 ago 2025 18:45", got)

	_, ok = FindIn("sin fecha")
	require.False(t, ok)
}

func TestFindAll(t *testing.T) {
	t.Parallel()

	got := FindAll("10 jul 09:00 / 3 dic 2024 / nada / 7 ENE")
	require.Equal(t, []string{"10 jul 09:00", "3 dic 2024", "7 ENE"}, got)
	require.Empty(t, FindAll("sin fecha"))
}

package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	t.Parallel()

	// decomposed "í" (i + combining acute) must compare equal to the composed form.
	require.Equal(t, "env\u00edo reprogramado", Fold("  Envi\u0301o\n  REPROGRAMADO "))
	require.True(t, ContainsFold("Venta CANCELADA por el comprador", "cancelada"))
	require.False(t, ContainsFold("En camino", "entregado"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "abc", Truncate("abc", 5))
	require.Equal(t, "añé...", Truncate("añéxyz", 3))
}

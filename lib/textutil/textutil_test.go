package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "extralarge", NormalizeName("  Extra  Large\n"))
	require.Equal(t, "", NormalizeName(" \t"))
}

func TestBestMatch(t *testing.T) {
	idx, sim := BestMatch("small", nil)
	require.Equal(t, -1, idx)
	require.Equal(t, float64(0), sim)

	idx, sim = BestMatch("Small ", []string{"Large", "small", "Smal"})
	require.Equal(t, 1, idx)
	require.Equal(t, float64(1), sim)

	idx, sim = BestMatch("Navy Blue", []string{"Red", "Navy Bleu", "Green"})
	require.Equal(t, 1, idx)
	require.Greater(t, sim, 0.9)

	idx, sim = BestMatch("Size 10", []string{"Size 12", "Size 14"})
	require.Equal(t, -1, idx)
	require.Equal(t, float64(0), sim)

	idx, _ = BestMatch("Jane Smyth 2", []string{"Jane Smith", "Jane Smith 2"})
	require.Equal(t, 1, idx)
}

package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "Merkel", expected: "merkel"},
		{in: "  Angela \t Merkel\n", expected: "angela merkel"},
		{in: "", expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.in))
	}
}

func TestSimilarity(t *testing.T) {
	require.Equal(t, 1.0, Similarity("Merkel", " merkel"))
	require.Greater(t, Similarity("merkel", "Merkelbach"), Similarity("merkel", "Scholz"))
}

func TestRankBySimilarity(t *testing.T) {
	candidates := []string{"Scholz", "Merkelbach", "Merkel"}
	require.Equal(t, []int{2, 1, 0}, RankBySimilarity("merkel", candidates))
	require.Empty(t, RankBySimilarity("merkel", nil))
}

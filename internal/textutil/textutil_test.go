package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "Roger Federer", expected: "roger federer"},
		{input: "  Roger   FEDERER\t\n", expected: "roger federer"},
		{input: "Iga\tŚwiątek", expected: "iga świątek"},
		{input: "", expected: ""},
	}

	for _, row := range table {
		require.Equal(t, row.expected, NormalizeName(row.input))
	}
}

func TestContainsFold(t *testing.T) {
	require.True(t, ContainsFold("Roger Federer (SUI)", "roger federer"))
	require.True(t, ContainsFold("ROGER  FEDERER", "Roger Federer"))
	require.False(t, ContainsFold("Rafael Nadal", "federer"))
	require.False(t, ContainsFold("Rafael Nadal", "   "))
}

func TestTitleWords(t *testing.T) {
	require.Equal(t, "Roger Federer", TitleWords("roger-federer"))
	require.Equal(t, "Felix Auger Aliassime", TitleWords("felix-auger-aliassime"))
	require.Equal(t, "", TitleWords(""))
}

package lemmatizer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStemmer(t *testing.T) {
	stem, err := NewStemmer()
	require.NoError(t, err)

	cases := map[string]string{
		"":                "",
		"   ":             "",
		"showers":         "shower",
		"Running":         "run",
		"...":             "..",
		"--":              "--",
		",":               ",",
		"1990":            "0",
		"www.example.com": urlResult,
	}
	for word, expected := range cases {
		require.Equal(t, expected, stem(word), "stem of %q", word)
	}
}

func TestStemmerIsStable(t *testing.T) {
	stem, err := NewStemmer()
	require.NoError(t, err)
	require.Equal(t, stem("Organizations"), stem("organizations"))
	require.Equal(t, "[start1]", IdentityStemmer("[START1]"))
}

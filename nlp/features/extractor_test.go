package features

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/types"
)

func fakeStem(word string) string {
	return strings.TrimSuffix(strings.ToLower(word), "s")
}

func sentence(pairs ...string) []types.Token {
	tokens := make([]types.Token, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		tokens = append(tokens, types.Token{Word: pairs[i], Pos: pairs[i+1]})
	}
	return tokens
}

func values(t *testing.T, v Vector) map[string]string {
	res := make(map[string]string, len(v))
	for _, f := range v {
		kv := strings.SplitN(f.String(), "=", 2)
		require.Len(t, kv, 2)
		require.Equal(t, f.Key(), kv[0])
		res[kv[0]] = kv[1]
	}
	return res
}

func TestExtractWindowAndSentinels(t *testing.T) {
	extractor := NewExtractor(fakeStem, Options{})
	tokens := sentence("Mr.", "NNP", "Jones", "NNP", "walks", "VBZ")

	v, err := extractor.Extract(tokens, 0, nil)
	require.NoError(t, err)
	got := values(t, v)
	assert.Equal(t, "Mr.", got[WORD])
	assert.Equal(t, "mr.", got[LEMMA])
	assert.Equal(t, START1, got[PREV_WORD])
	assert.Equal(t, START1, got[PREV_LEMMA])
	assert.Equal(t, START2, got[PREV_PREV_POS])
	assert.Equal(t, START1, got[PREV_IOB])
	assert.Equal(t, "Jones", got[NEXT_WORD])
	assert.Equal(t, "jone", got[NEXT_LEMMA])
	assert.Equal(t, "walks", got[NEXT_NEXT_WORD])
	assert.Equal(t, "true", got[CONTAINS_DOT])
	assert.Equal(t, "false", got[CONTAINS_DASH])
	assert.Equal(t, "true", got[ALL_CAPS])
	assert.Equal(t, "true", got[CAPITALIZED])
	assert.Equal(t, "false", got[ALL_ASCII])
	assert.Equal(t, "false", got[PREV_CAPITALIZED])

	v, err = extractor.Extract(tokens, 2, []string{"B-per", "I-per"})
	require.NoError(t, err)
	got = values(t, v)
	assert.Equal(t, "I-per", got[PREV_IOB])
	assert.Equal(t, "Jones", got[PREV_WORD])
	assert.Equal(t, "Mr.", got[PREV_PREV_WORD])
	assert.Equal(t, END1, got[NEXT_WORD])
	assert.Equal(t, END1, got[NEXT_POS])
	assert.Equal(t, END2, got[NEXT_NEXT_WORD])
	assert.Equal(t, "true", got[ALL_ASCII])
	assert.Equal(t, "true", got[PREV_ALL_CAPS])
	assert.Equal(t, "false", got[NEXT_ALL_CAPS])
}

func TestExtractSchemaIsFixed(t *testing.T) {
	extractor := NewExtractor(fakeStem, Options{})
	sentences := [][]types.Token{
		sentence("x", "NN"),
		sentence("", "", "-", ":", "U.S.", "NNP"),
		sentence("The", "DT", "well-known", "JJ", "ACME", "NNP", "Corp.", "NNP", "rose", "VBD"),
	}
	for _, tokens := range sentences {
		var history []string
		for i := range tokens {
			v, err := extractor.Extract(tokens, i, history)
			require.NoError(t, err)
			require.Equal(t, Schema[:], v.Keys())
			require.NoError(t, v.CheckSchema())
			history = append(history, types.OutsideTag)
		}
	}
}

func TestExtractEmptyWord(t *testing.T) {
	extractor := NewExtractor(fakeStem, Options{})
	v, err := extractor.Extract(sentence("", ""), 0, nil)
	require.NoError(t, err)
	got := values(t, v)
	assert.Equal(t, "false", got[ALL_CAPS])
	assert.Equal(t, "false", got[CAPITALIZED])
	assert.Equal(t, "false", got[ALL_ASCII])
}

func TestExtractNextCasing(t *testing.T) {
	tokens := sentence("the", "DT", "big", "JJ", "Apple", "NNP")

	v, err := NewExtractor(fakeStem, Options{}).Extract(tokens, 1, []string{"O"})
	require.NoError(t, err)
	got := values(t, v)
	assert.Equal(t, "true", got[NEXT_CAPITALIZED])
	assert.Equal(t, "true", got[NEXT_ALL_CAPS])

	v, err = NewExtractor(fakeStem, Options{LegacyNextCasing: true}).Extract(tokens, 1, []string{"O"})
	require.NoError(t, err)
	got = values(t, v)
	assert.Equal(t, "false", got[NEXT_CAPITALIZED])
	assert.Equal(t, "false", got[NEXT_ALL_CAPS])
}

func TestExtractErrors(t *testing.T) {
	extractor := NewExtractor(fakeStem, Options{})
	tokens := sentence("a", "DT", "b", "NN")

	_, err := extractor.Extract(tokens, 1, nil)
	require.True(t, errors.Is(err, types.ErrFeatureSchema))

	_, err = extractor.Extract(tokens, 2, []string{"O", "O"})
	require.Error(t, err)

	_, err = extractor.Extract(nil, 0, nil)
	require.Error(t, err)
}

func TestCheckSchemaReportsDifferences(t *testing.T) {
	v := Vector{&ml.StrFeature{Name: WORD, Value: "a"}, &ml.StrFeature{Name: "shape", Value: "x"}}
	err := v.CheckSchema()

	var schemaErr *types.FeatureSchemaError
	require.True(t, errors.As(err, &schemaErr))
	require.Equal(t, []string{"shape"}, schemaErr.Unexpected)
	require.Len(t, schemaErr.Missing, len(Schema)-1)
}

func TestCasingHelpers(t *testing.T) {
	assert.True(t, isCapitalizedForm("London"))
	assert.False(t, isCapitalizedForm("NASA"))
	assert.False(t, isCapitalizedForm("london"))
	assert.True(t, isCapitalizedForm("Émile"))
	assert.False(t, startsWithUpperASCII("Émile"))
	assert.True(t, isLowerASCII("abc"))
	assert.False(t, isLowerASCII("ab1"))
}

func TestStemCacheIsBounded(t *testing.T) {
	calls := 0
	extractor := newExtractor(func(word string) string {
		calls++
		return fakeStem(word)
	}, Options{}, 2)

	for _, word := range []string{"cats", "dogs", "birds", "cats"} {
		assert.Equal(t, fakeStem(word), extractor.lemma(word))
	}
	assert.Equal(t, 2, extractor.cache.Len())
	assert.Equal(t, 4, calls)

	assert.Equal(t, "cat", extractor.lemma("cats"))
	assert.Equal(t, 4, calls)
}

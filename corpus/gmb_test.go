package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/ner/types"
)

const sample = "Thousands\tNNS\tthousand\tO\n" +
	"of\tIN\tof\tO\n" +
	"demonstrators\tNNS\tdemonstrator\tO\n" +
	"marched\tVBD\tmarch\tO\n" +
	"through\tIN\tthrough\tO\n" +
	"London\tNNP\tlondon\tgeo-nam\n" +
	"\n" +
	"\"\tLQU\t\"\tO\n" +
	"Bush\tNNP\tbush\tper-nam\n" +
	"\"\tRQU\t\"\tO\n"

func readAll(t *testing.T, text string) ([][]types.RawToken, Stats) {
	var sentences [][]types.RawToken
	stats, err := ReadTags(strings.NewReader(text), "sample.tags", func(sentence []types.RawToken) error {
		sentences = append(sentences, sentence)
		return nil
	})
	require.NoError(t, err)
	return sentences, stats
}

func TestReadTags(t *testing.T) {
	sentences, stats := readAll(t, sample)

	require.Len(t, sentences, 2)
	assert.Equal(t, 2, stats.Sentences)
	assert.Equal(t, 0, stats.Skipped)
	assert.Empty(t, stats.Errors)

	assert.Equal(t, types.RawToken{Word: "London", Pos: "NNP", Type: "geo"}, sentences[0][5])
	expected := []types.RawToken{
		{Word: "\"", Pos: GenericQuoteTag, Type: "O"},
		{Word: "Bush", Pos: "NNP", Type: "per"},
		{Word: "\"", Pos: GenericQuoteTag, Type: "O"},
	}
	if diff := cmp.Diff(expected, sentences[1]); diff != "" {
		t.Errorf("second sentence mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTagsSkipsMalformedSentence(t *testing.T) {
	text := "John\tNNP\tjohn\tper-nam\nleft\tVBD\n\nMary\tNNP\tmary\tper-nam\n"
	sentences, stats := readAll(t, text)

	require.Len(t, sentences, 1)
	assert.Equal(t, "Mary", sentences[0][0].Word)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, stats.Errors, 1)

	var formatErr *types.CorpusFormatError
	require.True(t, errors.As(stats.Errors[0], &formatErr))
	assert.Equal(t, 2, formatErr.Line)
	assert.Equal(t, "sample.tags", formatErr.File)
	assert.True(t, errors.Is(stats.Errors[0], types.ErrCorpusFormat))
}

func TestReadTagsSkipsEmptySentence(t *testing.T) {
	text := "a\tDT\ta\tO\n\n   \n\t \n\nb\tNN\tb\tO\n"
	sentences, stats := readAll(t, text)

	require.Len(t, sentences, 2)
	assert.Equal(t, 1, stats.Skipped)
	require.Len(t, stats.Errors, 1)
	assert.True(t, errors.Is(stats.Errors[0], types.ErrEmptySentence))
}

func TestReadTagsStopsOnEmitError(t *testing.T) {
	stop := errors.New("stop")
	_, err := ReadTags(strings.NewReader(sample), "sample.tags", func([]types.RawToken) error {
		return stop
	})
	assert.True(t, errors.Is(err, stop))
}

func writeCorpus(t *testing.T) string {
	root := t.TempDir()
	files := map[string]string{
		"p01/d0002/en.tags": "b\tNN\tb\tO\n",
		"p00/d0001/en.tags": sample,
		"p00/d0001/en.raw":  "ignored",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestReaderWalkIsOrderedAndRestartable(t *testing.T) {
	reader := NewReader(writeCorpus(t))

	first, stats, err := reader.Load(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, "Thousands", first[0][0].Word)
	assert.Equal(t, "b", first[2][0].Word)

	second, _, err := reader.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReaderLoadLimit(t *testing.T) {
	reader := NewReader(writeCorpus(t))

	sentences, _, err := reader.Load(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sentences, 1)
	assert.Equal(t, "Thousands", sentences[0][0].Word)
}

func TestReaderWalkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewReader(writeCorpus(t)).Load(ctx, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSplitAndTally(t *testing.T) {
	sentences, _ := readAll(t, sample)
	sentences = append(sentences, sentences...)
	sentences = append(sentences, sentences...)
	sentences = append(sentences, sentences...)
	sentences = append(sentences, sentences[:2]...)
	require.Len(t, sentences, 10)

	train, test := Split(sentences, 0.9)
	assert.Len(t, train, 9)
	assert.Len(t, test, 1)
	assert.Equal(t, sentences[9], test[0])

	assert.Len(t, Head(train, 3), 3)
	assert.Len(t, Head(train, 0), 9)

	counts := Tally(sentences[:2])
	assert.Equal(t, map[string]int{"O": 7, "geo": 1, "per": 1}, counts)
}

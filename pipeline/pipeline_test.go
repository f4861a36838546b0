package pipeline

import (
	"strconv"
	"testing"
	"unicode"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/ner/lemmatizer"
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/models"
	"text2phenotype.com/ner/types"
)

type shapeTagger struct{}

func (shapeTagger) Tag(words []string) []types.Token {
	tokens := make([]types.Token, len(words))
	for i, word := range words {
		tokens[i] = types.Token{Word: word, Pos: "NN"}
		switch {
		case unicode.IsUpper([]rune(word)[0]):
			tokens[i].Pos = "NNP"
		case unicode.IsPunct([]rune(word)[0]):
			tokens[i].Pos = "."
		}
	}
	return tokens
}

// properNounChunker marks runs of NNP tokens as per entities.
type properNounChunker struct {
	orphan bool
}

func (c properNounChunker) Tag(tokens []types.Token) ([]types.LabeledToken, error) {
	tagged := make([]types.LabeledToken, len(tokens))
	for i, token := range tokens {
		tag := types.OutsideTag
		if token.Pos == "NNP" {
			tag = "B-per"
			if i > 0 && tokens[i-1].Pos == "NNP" || c.orphan {
				tag = "I-per"
			}
		}
		tagged[i] = types.LabeledToken{Word: token.Word, Pos: token.Pos, Tag: tag}
	}
	return tagged, nil
}

func requireJSONEqual(t *testing.T, expected string, actual string) {
	t.Helper()
	if !jsonpatch.Equal([]byte(expected), []byte(actual)) {
		t.Fatalf("Got unexpected response.\nExpected:\n%s\nGot:\n%s", expected, actual)
	}
}

func TestPipeline(t *testing.T) {
	ppln := New(shapeTagger{}, properNounChunker{})
	res := <-ppln(Request{Tid: "t1", Text: "John Smith left. it rained"})

	expected := `{
		"tid": "t1",
		"sentences": [
			{
				"index": 0,
				"text": "John Smith left .",
				"tokens": [
					{"word": "John", "pos": "NNP", "tag": "B-per"},
					{"word": "Smith", "pos": "NNP", "tag": "I-per"},
					{"word": "left", "pos": "NN", "tag": "O"},
					{"word": ".", "pos": ".", "tag": "O"}
				],
				"tree": "(S (per John/NNP Smith/NNP) left/NN ./.)"
			},
			{
				"index": 1,
				"text": "it rained",
				"tokens": [
					{"word": "it", "pos": "NN", "tag": "O"},
					{"word": "rained", "pos": "NN", "tag": "O"}
				],
				"tree": "(S it/NN rained/NN)"
			}
		],
		"entities": [
			{"sentence": 0, "type": "per", "text": "John Smith", "begin": 0, "end": 2}
		]
	}`
	requireJSONEqual(t, expected, res)
}

func TestPipelineEmptyText(t *testing.T) {
	res := <-New(shapeTagger{}, properNounChunker{})(Request{Tid: "empty", Text: "  "})
	requireJSONEqual(t, `{"tid": "empty", "sentences": [], "entities": []}`, res)
}

func TestPipelineReportsMalformedSentence(t *testing.T) {
	res := <-New(shapeTagger{}, properNounChunker{orphan: true})(Request{Tid: "t2", Text: "Paris"})
	expected := `{
		"tid": "t2",
		"sentences": [
			{
				"index": 0,
				"text": "Paris",
				"tokens": [{"word": "Paris", "pos": "NNP", "tag": "I-per"}],
				"tree": "",
				"error": ` + strconv.Quote((&types.MalformedTagSequenceError{Index: 0, Tag: "I-per"}).Error()) + `
			}
		],
		"entities": []
	}`
	requireJSONEqual(t, expected, res)
}

func TestFromBundle(t *testing.T) {
	chunkerModel := &ml.Model{
		Outcomes: []string{"B-geo", "O"},
		PMap:     map[string]int{"capitalized=true": 0, "capitalized=false": 1},
		Params: []ml.Context{
			{Outcomes: []int{0}, Parameters: []float64{5}},
			{Outcomes: []int{1}, Parameters: []float64{5}},
		},
	}
	posModel := &ml.Model{
		Outcomes: []string{"NN", "NNP"},
		PMap:     map[string]int{"default": 0, "c": 1},
		Params: []ml.Context{
			{Outcomes: []int{0}, Parameters: []float64{1}},
			{Outcomes: []int{1}, Parameters: []float64{5}},
		},
	}

	_, err := FromBundle(&models.Bundle{Chunker: chunkerModel}, lemmatizer.IdentityStemmer, 3)
	require.Error(t, err)

	ppln, err := FromBundle(&models.Bundle{Chunker: chunkerModel, POS: posModel}, lemmatizer.IdentityStemmer, 3)
	require.NoError(t, err)
	res := <-ppln(Request{Tid: "t3", Text: "visit Lima"})
	assert.Contains(t, res, `"tree":"(S visit/NN (geo Lima/NNP))"`)
}

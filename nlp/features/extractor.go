package features

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"text2phenotype.com/ner/lemmatizer"
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/types"
)

type Options struct {
	// LegacyNextCasing computes next-all-caps and next-capitalized from the previous word
	// instead of the next one, matching the NLTK named entity chunker features.
	LegacyNextCasing bool `json:"legacy_next_casing"`
}

// StemCacheSize bounds the number of word stems an Extractor remembers.
const StemCacheSize = 50000

type Extractor struct {
	stem    lemmatizer.Stemmer
	options Options
	cache   *lru.Cache // word -> stem
}

func NewExtractor(stem lemmatizer.Stemmer, options Options) *Extractor {
	return newExtractor(stem, options, StemCacheSize)
}

func newExtractor(stem lemmatizer.Stemmer, options Options, cacheSize int) *Extractor {
	cache, err := lru.New(cacheSize)
	if err != nil {
		panic(err)
	}
	return &Extractor{
		stem:    stem,
		options: options,
		cache:   cache,
	}
}

func (extractor *Extractor) Options() Options {
	return extractor.options
}

// Extract builds the feature vector of tokens[index] given the tags already assigned to
// tokens[:index]. The sentence is padded with two sentinels on each side and the history
// with two start sentinels, so the [index-2, index+2] window is always defined.
func (extractor *Extractor) Extract(tokens []types.Token, index int, history []string) (Vector, error) {
	if index < 0 || index >= len(tokens) {
		return nil, fmt.Errorf("token index %d out of range for sentence of %d tokens", index, len(tokens))
	}
	if len(history) != index {
		return nil, &types.FeatureSchemaError{
			Reason: fmt.Sprintf("history holds %d tags at index %d", len(history), index),
		}
	}

	word, pos := padded(tokens, index)
	prevword, prevpos := padded(tokens, index-1)
	prevprevword, prevprevpos := padded(tokens, index-2)
	nextword, nextpos := padded(tokens, index+1)
	nextnextword, nextnextpos := padded(tokens, index+2)

	previob := START1
	if index > 0 {
		previob = history[index-1]
	}

	casingWord := nextword
	if extractor.options.LegacyNextCasing {
		casingWord = prevword
	}

	vector := Vector{
		&ml.StrFeature{Name: WORD, Value: word},
		&ml.StrFeature{Name: LEMMA, Value: extractor.lemma(word)},
		&ml.StrFeature{Name: POS, Value: pos},
		&ml.BoolFeature{Name: ALL_ASCII, Value: isLowerASCII(word)},

		&ml.StrFeature{Name: NEXT_WORD, Value: nextword},
		&ml.StrFeature{Name: NEXT_LEMMA, Value: extractor.lemma(nextword)},
		&ml.StrFeature{Name: NEXT_POS, Value: nextpos},

		&ml.StrFeature{Name: NEXT_NEXT_WORD, Value: nextnextword},
		&ml.StrFeature{Name: NEXT_NEXT_POS, Value: nextnextpos},

		&ml.StrFeature{Name: PREV_WORD, Value: prevword},
		&ml.StrFeature{Name: PREV_LEMMA, Value: extractor.lemma(prevword)},
		&ml.StrFeature{Name: PREV_POS, Value: prevpos},

		&ml.StrFeature{Name: PREV_PREV_WORD, Value: prevprevword},
		&ml.StrFeature{Name: PREV_PREV_POS, Value: prevprevpos},

		&ml.StrFeature{Name: PREV_IOB, Value: previob},

		&ml.BoolFeature{Name: CONTAINS_DASH, Value: containsDash(word)},
		&ml.BoolFeature{Name: CONTAINS_DOT, Value: containsDot(word)},

		&ml.BoolFeature{Name: ALL_CAPS, Value: isCapitalizedForm(word)},
		&ml.BoolFeature{Name: CAPITALIZED, Value: startsWithUpperASCII(word)},

		&ml.BoolFeature{Name: PREV_ALL_CAPS, Value: isCapitalizedForm(prevword)},
		&ml.BoolFeature{Name: PREV_CAPITALIZED, Value: startsWithUpperASCII(prevword)},

		&ml.BoolFeature{Name: NEXT_ALL_CAPS, Value: isCapitalizedForm(casingWord)},
		&ml.BoolFeature{Name: NEXT_CAPITALIZED, Value: startsWithUpperASCII(casingWord)},
	}

	if err := vector.CheckSchema(); err != nil {
		return nil, err
	}
	return vector, nil
}

func (extractor *Extractor) lemma(word string) string {
	if isSentinel(word) {
		return word
	}
	if cached, ok := extractor.cache.Get(word); ok {
		return cached.(string)
	}
	stem := extractor.stem(word)
	extractor.cache.Add(word, stem)
	return stem
}

// padded returns word and pos at position i, or a sentinel outside the sentence.
func padded(tokens []types.Token, i int) (string, string) {
	switch {
	case i == -2:
		return START2, START2
	case i == -1:
		return START1, START1
	case i == len(tokens):
		return END1, END1
	case i == len(tokens)+1:
		return END2, END2
	}
	return tokens[i].Word, tokens[i].Pos
}

func isSentinel(word string) bool {
	return word == START1 || word == START2 || word == END1 || word == END2
}

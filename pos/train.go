package pos

import (
	"context"
	"sort"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/types"
)

// RareWordThreshold is the minimal training frequency for a word to enter the tag dictionary.
const RareWordThreshold = 5

// BuildTagDictionary collects the tags of every word seen at least threshold times.
func BuildTagDictionary(sentences [][]types.RawToken, threshold int) TagDictionary {
	counts := make(map[string]int)
	tags := make(map[string]map[string]bool)
	for _, sentence := range sentences {
		for _, token := range sentence {
			counts[token.Word]++
			if tags[token.Word] == nil {
				tags[token.Word] = make(map[string]bool)
			}
			tags[token.Word][token.Pos] = true
		}
	}

	dict := make(TagDictionary)
	for word, count := range counts {
		if count < threshold {
			continue
		}
		wordTags := make([]string, 0, len(tags[word]))
		for tag := range tags[word] {
			wordTags = append(wordTags, tag)
		}
		sort.Strings(wordTags)
		dict[word] = wordTags
	}
	return dict
}

// Events builds one training event per token with the gold tags as history.
func Events(ctx context.Context, sentences [][]types.RawToken, contextGen ContextGenerator) ([]ml.Event, error) {
	var events []ml.Event
	for _, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		words := make([]string, len(sentence))
		tags := make([]string, len(sentence))
		for i, token := range sentence {
			words[i] = token.Word
			tags[i] = token.Pos
		}

		for i := range words {
			events = append(events, ml.Event{
				Context: contextGen.GetContext(i, words, tags),
				Outcome: tags[i],
			})
		}
	}
	return events, nil
}

// Train fits a tagger model on the POS column of the corpus.
func Train(ctx context.Context, sentences [][]types.RawToken, trainer ml.Trainer) (*ml.Model, TagDictionary, error) {
	posLogger := logger.NewLogger("POS trainer")

	dict := BuildTagDictionary(sentences, RareWordThreshold)
	events, err := Events(ctx, sentences, NewContextGenerator(dict))
	if err != nil {
		return nil, nil, err
	}

	posLogger.Info().
		Int("sentences", len(sentences)).
		Int("events", len(events)).
		Int("dictionary", len(dict)).
		Msg("Training POS tagger")

	model, err := trainer.Train(ctx, events)
	if err != nil {
		return nil, nil, err
	}
	return model, dict, nil
}

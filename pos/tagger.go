package pos

import (
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/types"
)

// Tagger assigns part of speech tags with a maximum entropy model and beam search.
type Tagger struct {
	model     *ml.Model
	search    BeamSearch
	ctx       ContextGenerator
	validator SequenceValidator
}

func NewTagger(model *ml.Model, dict TagDictionary, beamSize int) *Tagger {
	if beamSize <= 0 {
		beamSize = types.DefaultPOSBeamSize
	}
	return &Tagger{
		model:     model,
		search:    NewBeamSearch(model, beamSize),
		ctx:       NewContextGenerator(dict),
		validator: NewSequenceValidator(dict),
	}
}

func (tagger *Tagger) Tag(words []string) []types.Token {
	tokens := make([]types.Token, len(words))
	if len(words) == 0 {
		return tokens
	}

	res, isOk := tagger.search(words, tagger.ctx, tagger.validator)
	for i, word := range words {
		tokens[i].Word = word
		if isOk {
			tokens[i].Pos = res.Outcomes[i]
		}
	}
	if isOk {
		return tokens
	}

	// the dictionary rejected every candidate, fall back to unconstrained greedy tags
	tags := make([]string, 0, len(words))
	for i := range words {
		tag := tagger.model.Predict(tagger.ctx.GetContext(i, words, tags))
		tags = append(tags, tag)
		tokens[i].Pos = tag
	}
	return tokens
}

package chunker

import (
	"context"
	"sync"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/nlp/features"
	"text2phenotype.com/ner/nlp/iob"
	"text2phenotype.com/ner/types"
)

// Chunker is a greedy left-to-right IOB tagger. Training feeds gold tags as history
// while decoding feeds the chunker's own predictions, so an early mistake changes the
// context of every later token and is never revised.
type Chunker struct {
	extractor *features.Extractor
	trainer   ml.Trainer

	// Workers bounds training set construction, 0 means one worker per CPU.
	Workers int

	mu    sync.RWMutex
	model *ml.Model
}

func New(extractor *features.Extractor, trainer ml.Trainer) *Chunker {
	return &Chunker{
		extractor: extractor,
		trainer:   trainer,
	}
}

// FromModel wraps an already trained model.
func FromModel(extractor *features.Extractor, model *ml.Model) *Chunker {
	return &Chunker{
		extractor: extractor,
		model:     model,
	}
}

func (chunker *Chunker) Model() *ml.Model {
	chunker.mu.RLock()
	defer chunker.mu.RUnlock()
	return chunker.model
}

// Train builds the training set from gold sentences and replaces the model.
func (chunker *Chunker) Train(ctx context.Context, sentences [][]types.RawToken) error {
	chunkerLogger := logger.NewLogger("Chunker")

	events, err := chunker.BuildTrainingSet(ctx, sentences)
	if err != nil {
		return err
	}
	chunkerLogger.Info().
		Int("sentences", len(sentences)).
		Int("events", len(events)).
		Msg("Built training set, training classifier")

	model, err := chunker.trainer.Train(ctx, events)
	if err != nil {
		return err
	}

	chunker.mu.Lock()
	chunker.model = model
	chunker.mu.Unlock()
	chunkerLogger.Info().Int("predicates", model.NumPredicates()).Strs("labels", model.Outcomes).Msg("Trained chunker")
	return nil
}

// Tag predicts an IOB tag for every token, feeding each prediction back as history.
// A predicted I- tag that continues no span is emitted as B- of the same type.
func (chunker *Chunker) Tag(tokens []types.Token) ([]types.LabeledToken, error) {
	model := chunker.Model()
	if model == nil {
		return nil, types.ErrModelNotTrained
	}

	history := make([]string, 0, len(tokens))
	tagged := make([]types.LabeledToken, len(tokens))
	for index, token := range tokens {
		vector, err := chunker.extractor.Extract(tokens, index, history)
		if err != nil {
			return nil, err
		}
		previous := types.OutsideTag
		if index > 0 {
			previous = history[index-1]
		}
		label := iob.ContinueSpan(previous, model.Predict(vector.Contexts()))
		history = append(history, label)
		tagged[index] = types.LabeledToken{Word: token.Word, Pos: token.Pos, Tag: label}
	}
	return tagged, nil
}

// Parse tags the sentence and groups the tags into entity spans.
func (chunker *Chunker) Parse(tokens []types.Token) (types.Tree, error) {
	tagged, err := chunker.Tag(tokens)
	if err != nil {
		return types.Tree{}, err
	}
	return iob.GroupSpans(tagged)
}

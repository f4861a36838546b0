package pipeline

import (
	"sync"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/nlp/iob"
	"text2phenotype.com/ner/types"
)

type EntityTagger interface {
	Tag(tokens []types.Token) ([]types.LabeledToken, error)
}

// NewEntityChunker tags every sentence and groups the tags into a tree.
func NewEntityChunker(chunker EntityTagger) Stage {
	chunkerLogger := logger.NewLogger("Entity chunker stage")

	return func(in <-chan types.Sentence) <-chan types.Sentence {
		out := make(chan types.Sentence)
		go func() {
			defer close(out)
			var wg sync.WaitGroup
			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					if sent.Err == nil && len(sent.Tokens) > 0 {
						sent.Tagged, sent.Err = chunker.Tag(sent.Tokens)
						if sent.Err == nil {
							sent.Tree, sent.Err = iob.GroupSpans(sent.Tagged)
						}
						if sent.Err != nil {
							chunkerLogger.Warn().Err(sent.Err).Int("sentence", sent.Index).Msg("Failed to chunk sentence")
						}
					}
					out <- sent
				}(sent)
			}
			wg.Wait()
		}()
		return out
	}
}

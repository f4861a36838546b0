package pipeline

import (
	"sync"

	"text2phenotype.com/ner/types"
)

type POSTagger interface {
	Tag(words []string) []types.Token
}

type Stage func(in <-chan types.Sentence) <-chan types.Sentence

func NewPOSTagger(tagger POSTagger) Stage {
	return func(in <-chan types.Sentence) <-chan types.Sentence {
		out := make(chan types.Sentence)
		go func() {
			defer close(out)
			var wg sync.WaitGroup
			for sent := range in {
				wg.Add(1)
				go func(sent types.Sentence) {
					defer wg.Done()
					if sent.Err == nil && len(sent.Words) > 0 {
						sent.Tokens = tagger.Tag(sent.Words)
					}
					out <- sent
				}(sent)
			}
			wg.Wait()
		}()
		return out
	}
}

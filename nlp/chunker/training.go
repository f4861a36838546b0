package chunker

import (
	"context"
	"runtime"
	"sync"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/nlp/iob"
	"text2phenotype.com/ner/types"
)

type sentenceEvents struct {
	events []ml.Event
	err    error
}

// BuildTrainingSet turns gold sentences into classifier events using the gold tags of the
// preceding tokens as history. Sentences are processed concurrently and merged in input order.
func (chunker *Chunker) BuildTrainingSet(ctx context.Context, sentences [][]types.RawToken) ([]ml.Event, error) {
	chunkerLogger := logger.NewLogger("Chunker")

	workers := chunker.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]sentenceEvents, len(sentences))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx].err = err
					continue
				}
				results[idx].events, results[idx].err = chunker.sentenceEvents(sentences[idx])
			}
		}()
	}
	for idx := range sentences {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var events []ml.Event
	skipped := 0
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		if len(res.events) == 0 {
			skipped++
			continue
		}
		events = append(events, res.events...)
	}
	if skipped > 0 {
		chunkerLogger.Warn().Int("skipped", skipped).Msg("Skipped empty training sentences")
	}
	return events, nil
}

func (chunker *Chunker) sentenceEvents(sentence []types.RawToken) ([]ml.Event, error) {
	tagged := iob.ToProperIOB(sentence)
	tokens := types.Tokens(tagged)

	events := make([]ml.Event, 0, len(tagged))
	history := make([]string, 0, len(tagged))
	for index, gold := range tagged {
		vector, err := chunker.extractor.Extract(tokens, index, history)
		if err != nil {
			return nil, err
		}
		events = append(events, ml.Event{Context: vector.Contexts(), Outcome: gold.Tag})
		history = append(history, gold.Tag)
	}
	return events, nil
}

package pipeline

import (
	"encoding/json"
	"errors"

	"text2phenotype.com/ner/lemmatizer"
	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/models"
)

// New chains sentence detection, POS tagging and entity chunking.
func New(tagger POSTagger, chunker EntityTagger) Pipeline {
	nerLogger := logger.NewLogger("NER pipeline")
	sentenceDetector := NewSentenceDetector()
	posTagger := NewPOSTagger(tagger)
	entityChunker := NewEntityChunker(chunker)

	return func(request Request) <-chan string {
		responseChan := make(chan string, 1)
		pplnLog := nerLogger.With().Str("tid", request.Tid).Logger()
		pplnLog.Info().Msg("Started NER pipeline")

		go func() {
			defer close(responseChan)
			in := make(chan string, 1)
			in <- request.Text
			close(in)

			response := BuildResponse(entityChunker(posTagger(sentenceDetector(in))), request)
			buf, err := json.Marshal(response)
			if err != nil {
				pplnLog.Err(err).Caller().Msg("Failed to marshal response")
				return
			}
			pplnLog.Info().
				Int("sentences", len(response.Sentences)).
				Int("entities", len(response.Entities)).
				Msg("Finished NER pipeline")
			responseChan <- string(buf)
		}()
		return responseChan
	}
}

// FromBundle builds the pipeline around the models of a trained bundle.
func FromBundle(bundle *models.Bundle, stem lemmatizer.Stemmer, beamSize int) (Pipeline, error) {
	tagger := bundle.NewTagger(beamSize)
	if tagger == nil {
		return nil, errors.New("model bundle has no POS tagger model")
	}
	return New(tagger, bundle.NewChunker(stem)), nil
}

package pipeline

import (
	"strings"

	"text2phenotype.com/ner/tokenizer"
	"text2phenotype.com/ner/types"
)

type SentenceDetector func(in <-chan string) <-chan types.Sentence

// NewSentenceDetector tokenizes every incoming text and emits its sentences in order.
func NewSentenceDetector() SentenceDetector {
	return func(in <-chan string) <-chan types.Sentence {
		out := make(chan types.Sentence)
		go func() {
			defer close(out)
			index := 0
			for text := range in {
				for _, words := range tokenizer.SplitSentences(tokenizer.Tokenize(text)) {
					out <- types.Sentence{
						Index: index,
						Text:  strings.Join(words, " "),
						Words: words,
					}
					index++
				}
			}
		}()
		return out
	}
}

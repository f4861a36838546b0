package corpus

import (
	"text2phenotype.com/ner/types"
)

// Split keeps corpus order: the first ratio of the sentences go to training, the rest to test.
func Split(sentences [][]types.RawToken, ratio float64) ([][]types.RawToken, [][]types.RawToken) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	cut := int(float64(len(sentences)) * ratio)
	return sentences[:cut], sentences[cut:]
}

// Head returns at most n sentences, n <= 0 returns all of them.
func Head(sentences [][]types.RawToken, n int) [][]types.RawToken {
	if n <= 0 || n >= len(sentences) {
		return sentences
	}
	return sentences[:n]
}

// Tally counts raw entity types, "O" included.
func Tally(sentences [][]types.RawToken) map[string]int {
	counts := make(map[string]int)
	for _, sentence := range sentences {
		for _, token := range sentence {
			counts[token.Type]++
		}
	}
	return counts
}

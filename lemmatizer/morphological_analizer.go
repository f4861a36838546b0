package lemmatizer

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// Stemmer maps a surface form to its stem. It must accept empty and punctuation-only input.
type Stemmer func(word string) string

func NewStemmer() (Stemmer, error) {
	lib, err := NewMTLib()
	if err != nil {
		return nil, err
	}

	return func(word string) string {
		form := strings.ToLower(strings.TrimSpace(word))
		if len(form) == 0 {
			return form
		}

		form = lib.normalizeBasic(form)
		if form == urlResult || !hasLetter(form) {
			return form
		}

		return english.Stem(form, true)
	}, nil
}

// IdentityStemmer lowercases the word and nothing else.
func IdentityStemmer(word string) string {
	return strings.ToLower(word)
}

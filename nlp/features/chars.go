package features

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func containsDash(word string) bool {
	return strings.ContainsRune(word, '-')
}

func containsDot(word string) bool {
	return strings.ContainsRune(word, '.')
}

// isLowerASCII reports whether every character is an ASCII lowercase letter.
func isLowerASCII(word string) bool {
	if len(word) == 0 {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}

func isCapitalizedForm(word string) bool {
	if len(word) == 0 {
		return false
	}
	return word == capitalize(word)
}

func startsWithUpperASCII(word string) bool {
	return len(word) > 0 && word[0] >= 'A' && word[0] <= 'Z'
}

package tokenizer

import (
	"strings"
	"unicode"

	"text2phenotype.com/ner/utils"
)

const (
	period     = '.'
	apostrophe = '\''
	rightQuote = '’'
	ellipsis   = "..."
)

var (
	leadingPunct  = []rune("\"'`([{<“‘«")
	trailingPunct = []rune("\"'`)]}>,;:!?.”’»")

	// PTB splits "can't" as "ca" + "n't" so negation always lands in its own token.
	negation = "n't"
	clitics  = utils.StringsToRunes("'s", "'re", "'ll", "'ve", "'m", "'d")

	abbreviations = map[string]bool{
		"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
		"st": true, "gen": true, "gov": true, "sen": true, "rep": true, "lt": true, "col": true,
		"co": true, "corp": true, "inc": true, "ltd": true, "vs": true, "etc": true, "no": true,
		"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true, "aug": true,
		"sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
	}
)

// Tokenize splits raw text into Penn Treebank style word tokens.
func Tokenize(text string) []string {
	var tokens []string
	for _, chunk := range strings.Fields(text) {
		tokens = append(tokens, tokenizeChunk([]rune(chunk))...)
	}
	return tokens
}

// SplitSentences groups tokens into sentences ending with ".", "!" or "?".
func SplitSentences(tokens []string) [][]string {
	var sentences [][]string
	var current []string
	for _, token := range tokens {
		current = append(current, token)
		if isSentenceEnd(token) {
			sentences = append(sentences, current)
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, current)
	}
	return sentences
}

func isSentenceEnd(token string) bool {
	return token == "." || token == "!" || token == "?"
}

func tokenizeChunk(runes []rune) []string {
	var head []string
	for len(runes) > 0 && containsRune(leadingPunct, runes[0]) {
		head = append(head, string(runes[0]))
		runes = runes[1:]
	}

	var tail []string
	for len(runes) > 0 {
		last := runes[len(runes)-1]
		if !containsRune(trailingPunct, last) {
			break
		}
		if last == period {
			if utils.RunesEndWith(runes, ellipsis) {
				tail = append([]string{ellipsis}, tail...)
				runes = runes[:len(runes)-len(ellipsis)]
				continue
			}
			if keepsPeriod(runes) {
				break
			}
		}
		tail = append([]string{string(last)}, tail...)
		runes = runes[:len(runes)-1]
	}

	tokens := head
	if len(runes) > 0 {
		tokens = append(tokens, splitClitic(runes)...)
	}
	return append(tokens, tail...)
}

// keepsPeriod reports whether the final period belongs to the word, as in "U.S." or "Mr.".
func keepsPeriod(runes []rune) bool {
	word := runes[:len(runes)-1]
	if len(word) == 0 {
		return false
	}
	if utils.IndexOfRune(word, period, 0) >= 0 {
		return hasLetter(word)
	}
	if len(word) == 1 && unicode.IsUpper(word[0]) {
		return true
	}
	return abbreviations[strings.ToLower(string(word))]
}

func splitClitic(runes []rune) []string {
	normalized := make([]rune, len(runes))
	for i, r := range runes {
		if r == rightQuote {
			r = apostrophe
		}
		normalized[i] = unicode.ToLower(r)
	}

	if len(runes) > len(negation) && utils.RunesEndWith(normalized, negation) {
		cut := len(runes) - len(negation)
		return []string{string(runes[:cut]), string(runes[cut:])}
	}
	for _, clitic := range clitics {
		if len(runes) > len(clitic) && utils.RunesEndWith(normalized, string(clitic)) {
			cut := len(runes) - len(clitic)
			return []string{string(runes[:cut]), string(runes[cut:])}
		}
	}
	return []string{string(runes)}
}

func containsRune(set []rune, r rune) bool {
	return utils.IndexOfRune(set, r, 0) >= 0
}

func hasLetter(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

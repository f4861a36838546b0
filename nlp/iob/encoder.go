package iob

import (
	"strings"

	"text2phenotype.com/ner/types"
)

const (
	PrefixBegin  = "B-"
	PrefixInside = "I-"
)

// ToProperIOB turns raw per-token entity types (O, PERSON, PERSON, O) into IOB tags
// (O, B-PERSON, I-PERSON, O). Continuation is decided against the previous raw type,
// so same-type runs separated by O stay separate entities.
func ToProperIOB(sentence []types.RawToken) []types.LabeledToken {
	tagged := make([]types.LabeledToken, len(sentence))
	for idx, token := range sentence {
		tag := token.Type
		if tag != types.OutsideTag {
			if idx > 0 && sentence[idx-1].Type == token.Type {
				tag = PrefixInside + token.Type
			} else {
				tag = PrefixBegin + token.Type
			}
		}
		tagged[idx] = types.LabeledToken{Word: token.Word, Pos: token.Pos, Tag: tag}
	}
	return tagged
}

// SplitTag returns the positional prefix ("B-", "I-" or "") and the entity type of an IOB tag.
func SplitTag(tag string) (string, string) {
	switch {
	case strings.HasPrefix(tag, PrefixBegin):
		return PrefixBegin, tag[len(PrefixBegin):]
	case strings.HasPrefix(tag, PrefixInside):
		return PrefixInside, tag[len(PrefixInside):]
	}
	return "", ""
}

// ContinueSpan returns tag unless it is an I- tag that cannot continue the previous tag,
// in which case it opens a span of the same type instead.
func ContinueSpan(previous string, tag string) string {
	prefix, entityType := SplitTag(tag)
	if prefix != PrefixInside {
		return tag
	}
	if _, previousType := SplitTag(previous); previousType == entityType {
		return tag
	}
	return PrefixBegin + entityType
}

func Tags(tokens []types.LabeledToken) []string {
	tags := make([]string, len(tokens))
	for i, t := range tokens {
		tags[i] = t.Tag
	}
	return tags
}

package pos

import "sort"

// TagDictionary maps frequent words to the tags they were seen with in training.
type TagDictionary map[string][]string

func (dict TagDictionary) Contains(word string) bool {
	_, isOk := dict[word]
	return isOk
}

func (dict TagDictionary) Allows(word string, tag string) bool {
	tags, isOk := dict[word]
	if !isOk {
		return true
	}

	idx := sort.SearchStrings(tags, tag)
	return idx < len(tags) && tags[idx] == tag
}

type SequenceValidator interface {
	ValidSequence(i int, inputSequence []string, outcome string) bool
}

type defaultSequenceValidator struct {
	tagDictionary TagDictionary
}

func (g defaultSequenceValidator) ValidSequence(i int, inputSequence []string, outcome string) bool {
	if g.tagDictionary != nil {
		return g.tagDictionary.Allows(inputSequence[i], outcome)
	}

	return true
}

func NewSequenceValidator(dict TagDictionary) SequenceValidator {
	return defaultSequenceValidator{tagDictionary: dict}
}

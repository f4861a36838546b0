package ml

import (
	"strconv"
)

// Feature is a named attribute whose String form is the predicate seen by the classifier.
type Feature interface {
	Key() string
	String() string
}

type StrFeature struct {
	Name  string
	Value string
}

func (f *StrFeature) Key() string {
	return f.Name
}

func (f *StrFeature) String() string {
	return f.Name + "=" + f.Value
}

// BoolFeature yields a predicate for both values so that every vector carries the same number of them.
type BoolFeature struct {
	Name  string
	Value bool
}

func (f *BoolFeature) Key() string {
	return f.Name
}

func (f *BoolFeature) String() string {
	return f.Name + "=" + strconv.FormatBool(f.Value)
}

// Event is one supervised training example: the predicates of a context and its gold outcome.
type Event struct {
	Context []string
	Outcome string
}

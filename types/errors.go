package types

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySentence       = errors.New("sentence has no tokens")
	ErrFeatureSchema       = errors.New("feature vector schema mismatch")
	ErrInsufficientData    = errors.New("insufficient training data")
	ErrMalformedTags       = errors.New("malformed tag sequence")
	ErrEmptyEvaluationSet  = errors.New("empty evaluation set")
	ErrCorpusFormat        = errors.New("corpus format error")
	ErrModelNotTrained     = errors.New("model is not trained")
	ErrEmptyTrainingCorpus = errors.New("training corpus is empty")
)

type CorpusFormatError struct {
	File   string
	Line   int
	Reason string
}

func (err *CorpusFormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", err.File, err.Line, err.Reason)
}

func (err *CorpusFormatError) Unwrap() error {
	return ErrCorpusFormat
}

type EmptySentenceError struct {
	File string
	Line int
}

func (err *EmptySentenceError) Error() string {
	return fmt.Sprintf("%s:%d: %s", err.File, err.Line, ErrEmptySentence)
}

func (err *EmptySentenceError) Unwrap() error {
	return ErrEmptySentence
}

type FeatureSchemaError struct {
	Missing    []string
	Unexpected []string
	Reason     string
}

func (err *FeatureSchemaError) Error() string {
	if err.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrFeatureSchema, err.Reason)
	}
	return fmt.Sprintf("%s: missing %v, unexpected %v", ErrFeatureSchema, err.Missing, err.Unexpected)
}

func (err *FeatureSchemaError) Unwrap() error {
	return ErrFeatureSchema
}

type InsufficientDataError struct {
	Events int
	Labels int
}

func (err *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %d examples with %d distinct labels, need at least one example and two labels",
		ErrInsufficientData, err.Events, err.Labels)
}

func (err *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

type MalformedTagSequenceError struct {
	Index int
	Tag   string
}

func (err *MalformedTagSequenceError) Error() string {
	return fmt.Sprintf("%s: %q at position %d has no open span of the same type", ErrMalformedTags, err.Tag, err.Index)
}

func (err *MalformedTagSequenceError) Unwrap() error {
	return ErrMalformedTags
}

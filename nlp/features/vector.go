package features

import (
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/types"
)

// Vector holds the features of one token in Schema order.
type Vector []ml.Feature

func (v Vector) Keys() []string {
	keys := make([]string, len(v))
	for i, f := range v {
		keys[i] = f.Key()
	}
	return keys
}

func (v Vector) Get(name string) (ml.Feature, bool) {
	for _, f := range v {
		if f.Key() == name {
			return f, true
		}
	}
	return nil, false
}

// Contexts returns the classifier predicates of the vector.
func (v Vector) Contexts() []string {
	contexts := make([]string, len(v))
	for i, f := range v {
		contexts[i] = f.String()
	}
	return contexts
}

// CheckSchema fails when the vector keys differ from Schema.
func (v Vector) CheckSchema() error {
	keys := v.Keys()
	if len(keys) == len(Schema) {
		same := true
		for i, k := range keys {
			if Schema[i] != k {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}

	expected := make(map[string]bool, len(Schema))
	for _, k := range Schema {
		expected[k] = true
	}
	got := make(map[string]bool, len(keys))
	for _, k := range keys {
		got[k] = true
	}

	schemaErr := &types.FeatureSchemaError{}
	for _, k := range Schema {
		if !got[k] {
			schemaErr.Missing = append(schemaErr.Missing, k)
		}
	}
	for _, k := range keys {
		if !expected[k] {
			schemaErr.Unexpected = append(schemaErr.Unexpected, k)
		}
	}
	if len(schemaErr.Missing) == 0 && len(schemaErr.Unexpected) == 0 {
		schemaErr.Reason = "features are duplicated or out of order"
	}
	return schemaErr
}

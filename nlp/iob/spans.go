package iob

import (
	"text2phenotype.com/ner/types"
)

// GroupSpans folds a flat IOB tagged sentence into a tree of plain tokens and entity spans.
// A continuation tag without an open span of the same type is rejected.
func GroupSpans(tagged []types.LabeledToken) (types.Tree, error) {
	var tree types.Tree
	var current *types.EntitySpan

	flush := func() {
		if current != nil {
			tree.AppendSpan(*current)
			current = nil
		}
	}

	for i, token := range tagged {
		prefix, entityType := SplitTag(token.Tag)
		switch prefix {
		case PrefixBegin:
			flush()
			current = &types.EntitySpan{Type: entityType, Tokens: []types.LabeledToken{token}}
		case PrefixInside:
			if current == nil || current.Type != entityType {
				return types.Tree{}, &types.MalformedTagSequenceError{Index: i, Tag: token.Tag}
			}
			current.Tokens = append(current.Tokens, token)
		default:
			if token.Tag != types.OutsideTag {
				return types.Tree{}, &types.MalformedTagSequenceError{Index: i, Tag: token.Tag}
			}
			flush()
			tree.AppendLeaf(token)
		}
	}
	flush()

	return tree, nil
}

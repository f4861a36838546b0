package types

import (
	"strings"
)

type EntitySpan struct {
	Type   string         `json:"type"`
	Tokens []LabeledToken `json:"tokens"`
}

func (span EntitySpan) Text() string {
	words := make([]string, len(span.Tokens))
	for i, t := range span.Tokens {
		words[i] = t.Word
	}
	return strings.Join(words, " ")
}

// Node is either a plain token outside any entity or an entity span.
type Node struct {
	Leaf *LabeledToken `json:"leaf,omitempty"`
	Span *EntitySpan   `json:"span,omitempty"`
}

func (node Node) IsSpan() bool {
	return node.Span != nil
}

type Tree struct {
	Nodes []Node `json:"nodes"`
}

func (tree *Tree) AppendLeaf(token LabeledToken) {
	tree.Nodes = append(tree.Nodes, Node{Leaf: &token})
}

func (tree *Tree) AppendSpan(span EntitySpan) {
	tree.Nodes = append(tree.Nodes, Node{Span: &span})
}

// Leaves flattens the tree back to its tokens in sentence order.
func (tree Tree) Leaves() []LabeledToken {
	var leaves []LabeledToken
	for _, node := range tree.Nodes {
		if node.IsSpan() {
			leaves = append(leaves, node.Span.Tokens...)
		} else if node.Leaf != nil {
			leaves = append(leaves, *node.Leaf)
		}
	}
	return leaves
}

func (tree Tree) Entities() []EntitySpan {
	var spans []EntitySpan
	for _, node := range tree.Nodes {
		if node.IsSpan() {
			spans = append(spans, *node.Span)
		}
	}
	return spans
}

// String renders the tree in bracketed form, e.g. "(S You/PRP (PERSON John/NNP) left/VBD)".
func (tree Tree) String() string {
	var sb strings.Builder
	sb.WriteString("(S")
	for _, node := range tree.Nodes {
		sb.WriteByte(' ')
		if !node.IsSpan() {
			sb.WriteString(node.Leaf.String())
			continue
		}
		sb.WriteByte('(')
		sb.WriteString(node.Span.Type)
		for _, t := range node.Span.Tokens {
			sb.WriteByte(' ')
			sb.WriteString(t.String())
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}

package pipeline

import (
	"sort"

	"text2phenotype.com/ner/types"
)

type Response struct {
	Tid       string           `json:"tid"`
	Sentences []SentenceResult `json:"sentences"`
	Entities  []EntityResult   `json:"entities"`
}

type SentenceResult struct {
	Index  int                  `json:"index"`
	Text   string               `json:"text"`
	Tokens []types.LabeledToken `json:"tokens"`
	Tree   string               `json:"tree"`
	Error  string               `json:"error,omitempty"`
}

// EntityResult locates an entity by sentence index and token offsets [Begin, End).
type EntityResult struct {
	Sentence int    `json:"sentence"`
	Type     string `json:"type"`
	Text     string `json:"text"`
	Begin    int    `json:"begin"`
	End      int    `json:"end"`
}

// BuildResponse collects every sentence of a request and orders them by index.
func BuildResponse(in <-chan types.Sentence, request Request) Response {
	var sentences []types.Sentence
	for sent := range in {
		sentences = append(sentences, sent)
	}
	sort.Slice(sentences, func(i, j int) bool {
		return sentences[i].Index < sentences[j].Index
	})

	response := Response{
		Tid:       request.Tid,
		Sentences: make([]SentenceResult, 0, len(sentences)),
		Entities:  []EntityResult{},
	}
	for _, sent := range sentences {
		result := SentenceResult{
			Index:  sent.Index,
			Text:   sent.Text,
			Tokens: sent.Tagged,
		}
		if sent.Err != nil {
			result.Error = sent.Err.Error()
		} else {
			result.Tree = sent.Tree.String()
			response.Entities = append(response.Entities, entities(sent)...)
		}
		if result.Tokens == nil {
			result.Tokens = []types.LabeledToken{}
		}
		response.Sentences = append(response.Sentences, result)
	}
	return response
}

func entities(sent types.Sentence) []EntityResult {
	var results []EntityResult
	offset := 0
	for _, node := range sent.Tree.Nodes {
		if !node.IsSpan() {
			offset++
			continue
		}
		results = append(results, EntityResult{
			Sentence: sent.Index,
			Type:     node.Span.Type,
			Text:     node.Span.Text(),
			Begin:    offset,
			End:      offset + len(node.Span.Tokens),
		})
		offset += len(node.Span.Tokens)
	}
	return results
}

package chunker

import (
	"fmt"

	"text2phenotype.com/ner/nlp/iob"
	"text2phenotype.com/ner/types"
)

type Parser interface {
	Parse(tokens []types.Token) (types.Tree, error)
}

type TypeScore struct {
	Gold      int `json:"gold"`
	Predicted int `json:"predicted"`
	Correct   int `json:"correct"`
}

func (score TypeScore) Precision() float64 {
	if score.Predicted == 0 {
		return 0
	}
	return float64(score.Correct) / float64(score.Predicted)
}

func (score TypeScore) Recall() float64 {
	if score.Gold == 0 {
		return 0
	}
	return float64(score.Correct) / float64(score.Gold)
}

func (score TypeScore) F1() float64 {
	p, r := score.Precision(), score.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

type Score struct {
	Sentences int                   `json:"sentences"`
	Correct   int                   `json:"correct"`
	Total     int                   `json:"total"`
	Accuracy  float64               `json:"accuracy"`
	PerType   map[string]*TypeScore `json:"per_type"`
}

// Accuracy is the micro-averaged tag accuracy of the parser over gold sentences.
func Accuracy(gold [][]types.RawToken, parser Parser) (float64, error) {
	score, err := Evaluate(gold, parser)
	if err != nil {
		return 0, err
	}
	return score.Accuracy, nil
}

// Evaluate compares parsed tags with gold tags token by token, and entity spans by exact
// boundaries and type.
func Evaluate(gold [][]types.RawToken, parser Parser) (Score, error) {
	score := Score{PerType: map[string]*TypeScore{}}
	for _, sentence := range gold {
		if len(sentence) == 0 {
			continue
		}
		goldTagged := iob.ToProperIOB(sentence)
		tree, err := parser.Parse(types.Tokens(goldTagged))
		if err != nil {
			return Score{}, err
		}
		predicted := tree.Leaves()
		if len(predicted) != len(goldTagged) {
			return Score{}, fmt.Errorf("parser returned %d tokens for a sentence of %d", len(predicted), len(goldTagged))
		}

		score.Sentences++
		for i := range goldTagged {
			if goldTagged[i].Tag == predicted[i].Tag {
				score.Correct++
			}
		}
		score.Total += len(goldTagged)
		score.countSpans(goldTagged, predicted)
	}
	if score.Total == 0 {
		return Score{}, types.ErrEmptyEvaluationSet
	}
	score.Accuracy = float64(score.Correct) / float64(score.Total)
	return score, nil
}

type chunkKey struct {
	begin, end int
	entityType string
}

func (score *Score) countSpans(gold []types.LabeledToken, predicted []types.LabeledToken) {
	goldChunks := chunks(gold)
	for key := range goldChunks {
		score.typeScore(key.entityType).Gold++
	}
	for key := range chunks(predicted) {
		typeScore := score.typeScore(key.entityType)
		typeScore.Predicted++
		if goldChunks[key] {
			typeScore.Correct++
		}
	}
}

func (score *Score) typeScore(entityType string) *TypeScore {
	typeScore, ok := score.PerType[entityType]
	if !ok {
		typeScore = &TypeScore{}
		score.PerType[entityType] = typeScore
	}
	return typeScore
}

// chunks collects entity boundaries leniently: an orphan I- tag opens a new chunk.
func chunks(tagged []types.LabeledToken) map[chunkKey]bool {
	res := make(map[chunkKey]bool)
	begin, current := -1, ""
	closeChunk := func(end int) {
		if begin >= 0 {
			res[chunkKey{begin: begin, end: end, entityType: current}] = true
		}
		begin, current = -1, ""
	}
	for i, token := range tagged {
		prefix, entityType := iob.SplitTag(token.Tag)
		switch {
		case prefix == iob.PrefixInside && begin >= 0 && entityType == current:
		case prefix != "":
			closeChunk(i)
			begin, current = i, entityType
		default:
			closeChunk(i)
		}
	}
	closeChunk(len(tagged))
	return res
}

package pos

import (
	"container/heap"
	"sort"

	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/utils"
)

const minSequenceScore = -100000

type BeamSearch func(words []string, contextGen ContextGenerator, sequenceValidator SequenceValidator) (Sequence, bool)

func NewBeamSearch(model *ml.Model, size int) BeamSearch {

	return func(words []string, contextGen ContextGenerator, sequenceValidator SequenceValidator) (Sequence, bool) {
		prev := make(utils.PriorityQueue, 0, size)
		heap.Init(&prev)
		next := make(utils.PriorityQueue, 0, size)
		heap.Init(&next)
		heap.Push(&prev, Sequence{})

		for i := 0; i < len(words); i++ {
			sz := len(prev)
			if size < sz {
				sz = size
			}

			for sc := 0; len(prev) > 0 && sc < sz; sc++ {
				top := heap.Pop(&prev).(Sequence)

				contexts := contextGen.GetContext(i, words, top.Outcomes)
				scores := model.Eval(contexts)
				if len(scores) == 0 {
					continue
				}

				tempScores := make([]float64, len(scores))
				copy(tempScores, scores)
				sort.Float64s(tempScores)

				idx := len(scores) - size
				if idx < 0 {
					idx = 0
				}
				min := tempScores[idx]

				for p := 0; p < len(scores); p++ {
					if scores[p] < min {
						continue
					}

					out := model.Outcomes[p]
					if sequenceValidator.ValidSequence(i, words, out) {
						var ns Sequence
						ns.ExpandFrom(top, out, scores[p])
						if ns.Score > minSequenceScore {
							heap.Push(&next, ns)
						}
					}
				}

				if len(next) == 0 {
					for p := 0; p < len(scores); p++ {
						out := model.Outcomes[p]
						if sequenceValidator.ValidSequence(i, words, out) {
							var ns Sequence
							ns.ExpandFrom(top, out, scores[p])
							if ns.Score > minSequenceScore {
								heap.Push(&next, ns)
							}
						}
					}
				}
			}

			prev = utils.PriorityQueue{}
			heap.Init(&prev)
			prev, next = next, prev
		}

		var topSequence Sequence
		isOk := false

		if len(prev) > 0 {
			topSequence = heap.Pop(&prev).(Sequence)
			isOk = len(topSequence.Outcomes) == len(words)
		}

		return topSequence, isOk
	}
}

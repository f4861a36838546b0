package ml

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"math"
)

type Context struct {
	Outcomes   []int     `json:"outcomes"`
	Parameters []float64 `json:"parameters"`
}

// Model is a conditional maximum entropy model over binary predicates.
// It is read-only once trained and safe for concurrent use.
type Model struct {
	Outcomes []string       `json:"outcomes"`
	PMap     map[string]int `json:"pmap"`
	Params   []Context      `json:"params"`
}

// Eval returns the probability of every outcome, aligned with m.Outcomes.
// Unknown predicates are ignored.
func (m *Model) Eval(context []string) []float64 {
	scontexts := make([]int, 0, len(context))
	for _, predicate := range context {
		if ci, isOk := m.PMap[predicate]; isOk {
			scontexts = append(scontexts, ci)
		}
	}
	outsums := make([]float64, len(m.Outcomes))
	eval(scontexts, m.Params, outsums)
	return outsums
}

// Predict returns the most probable outcome; ties go to the outcome listed first.
func (m *Model) Predict(context []string) string {
	if len(m.Outcomes) == 0 {
		return ""
	}
	return m.Outcomes[argMax(m.Eval(context))]
}

func (m *Model) NumPredicates() int {
	return len(m.PMap)
}

func eval(scontexts []int, params []Context, outsums []float64) {
	for i := range outsums {
		outsums[i] = 0
	}
	for _, scontext := range scontexts {
		predParam := params[scontext]
		for ai, oid := range predParam.Outcomes {
			outsums[oid] += predParam.Parameters[ai]
		}
	}

	max := math.Inf(-1)
	for _, s := range outsums {
		if s > max {
			max = s
		}
	}

	normal := 0.0
	for oid := range outsums {
		outsums[oid] = math.Exp(outsums[oid] - max)
		normal += outsums[oid]
	}

	for oid := range outsums {
		outsums[oid] /= normal
	}
}

func argMax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

func (m *Model) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(m)
}

func LoadModel(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func LoadModelFromFile(modelFilePath string) (*Model, error) {
	buf, err := ioutil.ReadFile(modelFilePath)
	if err != nil {
		return nil, err
	}

	var m Model
	err = json.Unmarshal(buf, &m)
	return &m, err
}

package ml

import (
	"context"
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/types"
)

const (
	DefaultIterations          = 100
	DefaultLogLikelihoodChange = 0.0001

	minProbability = 1e-300
)

type Trainer interface {
	Train(ctx context.Context, events []Event) (*Model, error)
}

// ProgressFunc is called after every completed iteration.
type ProgressFunc func(iteration int, logLikelihood float64)

// GISTrainer fits a maximum entropy model with Generalized Iterative Scaling.
// Results depend only on the events and the trainer settings.
type GISTrainer struct {
	Iterations int
	// Cutoff drops predicates seen in fewer events.
	Cutoff int
	// Workers splits the expected count computation, 0 means GOMAXPROCS.
	Workers int
	// Threshold stops training once log likelihood improves by less than it.
	Threshold float64
	Progress  ProgressFunc
}

type compressedEvent struct {
	predicates []int
	outcome    int
	count      float64
}

type indexedEvents struct {
	events     []compressedEvent
	predicates []string
	outcomes   []string
}

func (trainer GISTrainer) Train(ctx context.Context, events []Event) (*Model, error) {
	gisLogger := logger.NewLogger("GIS trainer")

	iterations := trainer.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	threshold := trainer.Threshold
	if threshold <= 0 {
		threshold = DefaultLogLikelihoodChange
	}

	indexed, err := indexEvents(events, trainer.Cutoff)
	if err != nil {
		return nil, err
	}
	gisLogger.Info().
		Int("events", len(events)).
		Int("unique_events", len(indexed.events)).
		Int("predicates", len(indexed.predicates)).
		Int("outcomes", len(indexed.outcomes)).
		Msg("Indexed training events")

	params, observed := initParameters(indexed)

	correction := 1.0
	for _, ev := range indexed.events {
		if n := float64(len(ev.predicates)); n > correction {
			correction = n
		}
	}

	workers := trainer.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(indexed.events) {
		workers = len(indexed.events)
	}
	if workers < 1 {
		workers = 1
	}

	prevLL := math.Inf(-1)
	for it := 1; it <= iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		expected, ll := expectedCounts(indexed, params, workers)
		for pi, predParam := range params {
			for ai := range predParam.Outcomes {
				if expected[pi][ai] == 0 {
					continue
				}
				predParam.Parameters[ai] += (math.Log(observed[pi][ai]) - math.Log(expected[pi][ai])) / correction
			}
		}

		gisLogger.Debug().Int("iteration", it).Float64("log_likelihood", ll).Msg("Finished iteration")
		if trainer.Progress != nil {
			trainer.Progress(it, ll)
		}
		if it > 1 && ll-prevLL < threshold {
			gisLogger.Info().Int("iteration", it).Float64("log_likelihood", ll).Msg("Log likelihood converged")
			break
		}
		prevLL = ll
	}

	pmap := make(map[string]int, len(indexed.predicates))
	for i, predicate := range indexed.predicates {
		pmap[predicate] = i
	}
	return &Model{
		Outcomes: indexed.outcomes,
		PMap:     pmap,
		Params:   params,
	}, nil
}

func indexEvents(events []Event, cutoff int) (indexedEvents, error) {
	outcomeSet := make(map[string]bool)
	predicateCounts := make(map[string]int)
	for _, ev := range events {
		outcomeSet[ev.Outcome] = true
		for _, predicate := range uniqueStrings(ev.Context) {
			predicateCounts[predicate]++
		}
	}
	if len(events) == 0 || len(outcomeSet) < 2 {
		return indexedEvents{}, &types.InsufficientDataError{Events: len(events), Labels: len(outcomeSet)}
	}

	var res indexedEvents
	res.outcomes = sortedKeys(outcomeSet)
	for predicate, cnt := range predicateCounts {
		if cnt >= cutoff {
			res.predicates = append(res.predicates, predicate)
		}
	}
	sort.Strings(res.predicates)

	outcomeIndex := make(map[string]int, len(res.outcomes))
	for i, outcome := range res.outcomes {
		outcomeIndex[outcome] = i
	}
	predicateIndex := make(map[string]int, len(res.predicates))
	for i, predicate := range res.predicates {
		predicateIndex[predicate] = i
	}

	seen := make(map[string]int)
	var key strings.Builder
	for _, ev := range events {
		var preds []int
		for _, predicate := range uniqueStrings(ev.Context) {
			if pi, ok := predicateIndex[predicate]; ok {
				preds = append(preds, pi)
			}
		}
		if len(preds) == 0 {
			continue
		}
		sort.Ints(preds)

		key.Reset()
		key.WriteString(strconv.Itoa(outcomeIndex[ev.Outcome]))
		for _, pi := range preds {
			key.WriteByte(' ')
			key.WriteString(strconv.Itoa(pi))
		}
		if idx, ok := seen[key.String()]; ok {
			res.events[idx].count++
			continue
		}
		seen[key.String()] = len(res.events)
		res.events = append(res.events, compressedEvent{
			predicates: preds,
			outcome:    outcomeIndex[ev.Outcome],
			count:      1,
		})
	}
	if len(res.events) == 0 {
		return indexedEvents{}, &types.InsufficientDataError{Events: 0, Labels: len(outcomeSet)}
	}
	return res, nil
}

// initParameters creates one zero weight per predicate/outcome pair observed in training,
// together with the observed count of that pair.
func initParameters(indexed indexedEvents) ([]Context, [][]float64) {
	pairs := make([]map[int]float64, len(indexed.predicates))
	for _, ev := range indexed.events {
		for _, pi := range ev.predicates {
			if pairs[pi] == nil {
				pairs[pi] = make(map[int]float64)
			}
			pairs[pi][ev.outcome] += ev.count
		}
	}

	params := make([]Context, len(indexed.predicates))
	observed := make([][]float64, len(indexed.predicates))
	for pi, outcomes := range pairs {
		oids := make([]int, 0, len(outcomes))
		for oid := range outcomes {
			oids = append(oids, oid)
		}
		sort.Ints(oids)

		params[pi] = Context{Outcomes: oids, Parameters: make([]float64, len(oids))}
		observed[pi] = make([]float64, len(oids))
		for ai, oid := range oids {
			observed[pi][ai] = outcomes[oid]
		}
	}
	return params, observed
}

// expectedCounts computes model expectations of every parameter and the training log likelihood.
// Each worker owns a contiguous slice of events; partial sums are merged in worker order.
func expectedCounts(indexed indexedEvents, params []Context, workers int) ([][]float64, float64) {
	partials := make([][][]float64, workers)
	lls := make([]float64, workers)
	chunk := (len(indexed.events) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		begin, end := w*chunk, (w+1)*chunk
		if begin > len(indexed.events) {
			begin = len(indexed.events)
		}
		if end > len(indexed.events) {
			end = len(indexed.events)
		}
		wg.Add(1)
		go func(w int, evs []compressedEvent) {
			defer wg.Done()
			partial := newCounts(params)
			probs := make([]float64, len(indexed.outcomes))
			for _, ev := range evs {
				eval(ev.predicates, params, probs)
				for _, pi := range ev.predicates {
					predParam := params[pi]
					for ai, oid := range predParam.Outcomes {
						partial[pi][ai] += ev.count * probs[oid]
					}
				}
				lls[w] += ev.count * math.Log(math.Max(probs[ev.outcome], minProbability))
			}
			partials[w] = partial
		}(w, indexed.events[begin:end])
	}
	wg.Wait()

	expected := newCounts(params)
	ll := 0.0
	for w, partial := range partials {
		for pi := range partial {
			for ai := range partial[pi] {
				expected[pi][ai] += partial[pi][ai]
			}
		}
		ll += lls[w]
	}
	return expected, ll
}

func newCounts(params []Context) [][]float64 {
	counts := make([][]float64, len(params))
	for pi, predParam := range params {
		counts[pi] = make([]float64, len(predParam.Outcomes))
	}
	return counts
}

func uniqueStrings(ss []string) []string {
	set := make(map[string]bool, len(ss))
	res := make([]string, 0, len(ss))
	for _, s := range ss {
		if !set[s] {
			set[s] = true
			res = append(res, s)
		}
	}
	return res
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

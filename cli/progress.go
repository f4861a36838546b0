package cli

import (
	"fmt"
	"io"

	"github.com/gosuri/uiprogress"

	"text2phenotype.com/ner/ml"
)

type progressBars struct {
	progress *uiprogress.Progress
}

func newProgressBars(out io.Writer, enabled bool) *progressBars {
	if !enabled {
		return &progressBars{}
	}
	progress := uiprogress.New()
	progress.SetOut(out)
	progress.Start()
	return &progressBars{progress: progress}
}

// trainer returns a GIS trainer that renders one bar per training run.
func (bars *progressBars) trainer(name string, iterations int, workers int) ml.GISTrainer {
	trainer := ml.GISTrainer{Iterations: iterations, Workers: workers}
	if bars.progress == nil {
		return trainer
	}

	bar := bars.progress.AddBar(iterations)
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%-8s", name)
	})
	bar.AppendCompleted()
	bar.PrependElapsed()
	trainer.Progress = func(iteration int, logLikelihood float64) {
		_ = bar.Set(iteration)
	}
	return trainer
}

func (bars *progressBars) stop() {
	if bars.progress != nil {
		bars.progress.Stop()
	}
}

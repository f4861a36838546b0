package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"text2phenotype.com/ner/corpus"
	"text2phenotype.com/ner/nlp/chunker"
)

func newEvalCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the saved chunker on held out corpus sentences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bundle, err := a.loadBundle(ctx)
			if err != nil {
				return err
			}
			_, test, err := a.loadCorpus(ctx, cmd)
			if err != nil {
				return err
			}
			stem, err := a.stemmer()
			if err != nil {
				return err
			}

			score, err := chunker.Evaluate(corpus.Head(test, a.cfg.Evaluation.Sentences), bundle.NewChunker(stem))
			if err != nil {
				return err
			}
			printScore(cmd.OutOrStdout(), score, verbose)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print per entity type precision, recall and F1")
	return cmd
}

func printScore(out io.Writer, score chunker.Score, verbose bool) {
	fmt.Fprintf(out, "accuracy: %.4f\n", score.Accuracy)
	if !verbose {
		return
	}
	fmt.Fprintf(out, "sentences: %d tokens: %d correct: %d\n", score.Sentences, score.Total, score.Correct)

	entityTypes := make([]string, 0, len(score.PerType))
	for entityType := range score.PerType {
		entityTypes = append(entityTypes, entityType)
	}
	sort.Strings(entityTypes)

	fmt.Fprintf(out, "%-8s %9s %9s %9s %6s\n", "type", "precision", "recall", "f1", "gold")
	for _, entityType := range entityTypes {
		ts := score.PerType[entityType]
		fmt.Fprintf(out, "%-8s %9.4f %9.4f %9.4f %6d\n", entityType, ts.Precision(), ts.Recall(), ts.F1(), ts.Gold)
	}
}

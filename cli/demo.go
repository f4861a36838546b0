package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"text2phenotype.com/ner/corpus"
	"text2phenotype.com/ner/nlp/chunker"
	"text2phenotype.com/ner/pipeline"
)

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Train on the corpus, parse the sample sentence and print held out accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			train, test, err := a.loadCorpus(ctx, cmd)
			if err != nil {
				return err
			}
			stem, err := a.stemmer()
			if err != nil {
				return err
			}
			bundle, err := a.train(ctx, cmd, train, stem)
			if err != nil {
				return err
			}

			ppln, err := pipeline.FromBundle(bundle, stem, a.cfg.POSBeam)
			if err != nil {
				return err
			}
			resp, ok := <-ppln(pipeline.Request{Tid: "demo", Text: a.cfg.Sample})
			if !ok {
				return fmt.Errorf("pipeline returned no response")
			}
			if err := printTrees(cmd, resp); err != nil {
				return err
			}

			score, err := chunker.Evaluate(corpus.Head(test, a.cfg.Evaluation.Sentences), bundle.NewChunker(stem))
			if err != nil {
				return err
			}
			printScore(cmd.OutOrStdout(), score, false)
			return nil
		},
	}
}

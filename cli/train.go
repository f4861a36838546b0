package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"text2phenotype.com/ner/corpus"
	"text2phenotype.com/ner/lemmatizer"
	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/models"
	"text2phenotype.com/ner/nlp/chunker"
	"text2phenotype.com/ner/nlp/features"
	"text2phenotype.com/ner/pos"
	"text2phenotype.com/ner/types"
)

func newTrainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the POS tagger and the entity chunker and save the model bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			train, _, err := a.loadCorpus(ctx, cmd)
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

			store, name, err := a.store()
			if err != nil {
				return err
			}
			if err := store.Save(ctx, name, bundle); err != nil {
				return fmt.Errorf("save model %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved model %s (fingerprint %s)\n", a.cfg.Model, bundle.Fingerprint)
			return nil
		},
	}
}

// train fits both models on the head of the training split.
func (a *app) train(ctx context.Context, cmd *cobra.Command, train [][]types.RawToken, stem lemmatizer.Stemmer) (*models.Bundle, error) {
	trainLogger := logger.NewLogger("Train command")

	chunkSentences := corpus.Head(train, a.cfg.Training.Sentences)
	if len(chunkSentences) == 0 {
		return nil, types.ErrEmptyTrainingCorpus
	}
	posSentences := corpus.Head(train, a.cfg.Training.POSSentences)

	bars := newProgressBars(cmd.ErrOrStderr(), a.progress)
	defer bars.stop()

	trainLogger.Info().Int("sentences", len(posSentences)).Msg("Training POS tagger")
	posTrainer := bars.trainer("pos", a.cfg.Training.Iterations, a.cfg.Training.Workers)
	posTrainer.Cutoff = a.cfg.Training.Cutoff
	posModel, dict, err := pos.Train(ctx, posSentences, posTrainer)
	if err != nil {
		return nil, fmt.Errorf("train POS tagger: %w", err)
	}

	options := features.Options{LegacyNextCasing: a.cfg.Features.LegacyNextCasing}
	chunkTrainer := bars.trainer("chunker", a.cfg.Training.Iterations, a.cfg.Training.Workers)
	chunkTrainer.Cutoff = a.cfg.Training.Cutoff
	c := chunker.New(features.NewExtractor(stem, options), chunkTrainer)
	c.Workers = a.cfg.Training.Workers

	trainLogger.Info().Int("sentences", len(chunkSentences)).Msg("Training entity chunker")
	if err := c.Train(ctx, chunkSentences); err != nil {
		return nil, fmt.Errorf("train chunker: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "trained on %d sentences\n", len(chunkSentences))
	return &models.Bundle{
		Options:       options,
		Chunker:       c.Model(),
		POS:           posModel,
		TagDictionary: dict,
	}, nil
}

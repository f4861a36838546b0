package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"text2phenotype.com/ner/corpus"
	"text2phenotype.com/ner/lemmatizer"
	"text2phenotype.com/ner/models"
	"text2phenotype.com/ner/redis"
	"text2phenotype.com/ner/s3client"
	"text2phenotype.com/ner/types"
)

// Environment holds deployment settings read from NER_* variables.
type Environment struct {
	ConfigPath    string `envconfig:"CONFIG_PATH"`
	CorpusRoot    string `envconfig:"CORPUS_ROOT"`
	ModelPath     string `envconfig:"MODEL_PATH"`
	ModelStore    string `envconfig:"MODEL_STORE" default:"file"`
	S3Prefix      string `envconfig:"MODEL_S3_PREFIX" default:"models"`
	RestAPIActive bool   `envconfig:"REST_API_ACTIVE" default:"true"`
	RestAPIPort   string `envconfig:"REST_API_PORT" default:"10000"`
	WorkerActive  bool   `envconfig:"WORKER_ACTIVE" default:"false"`
}

type app struct {
	env Environment
	cfg types.Configuration

	configPath     string
	corpusRoot     string
	modelPath      string
	trainSentences int
	evalSentences  int
	iterations     int
	workers        int
	progress       bool
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "ner",
		Short:         "Train and run a greedy maximum entropy named entity chunker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file (default $NER_CONFIG_PATH)")
	flags.StringVar(&a.corpusRoot, "corpus", "", "GMB corpus root directory (default $NER_CORPUS_ROOT)")
	flags.StringVar(&a.modelPath, "model", "", "model bundle location (default $NER_MODEL_PATH)")
	flags.IntVar(&a.trainSentences, "train-sentences", 0, "number of training sentences for the chunker")
	flags.IntVar(&a.evalSentences, "eval-sentences", 0, "number of held out sentences to evaluate on")
	flags.IntVar(&a.iterations, "iterations", 0, "GIS iterations")
	flags.IntVar(&a.workers, "workers", 0, "parallel training workers, 0 means one per CPU")
	flags.BoolVar(&a.progress, "progress", false, "render training progress bars")

	cmd.AddCommand(
		newTrainCmd(a),
		newParseCmd(a),
		newEvalCmd(a),
		newDemoCmd(a),
		newTallyCmd(a),
		newServeCmd(a),
	)
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "ner: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) load(cmd *cobra.Command) error {
	if err := envconfig.Process("NER", &a.env); err != nil {
		return err
	}

	configPath := a.configPath
	if configPath == "" {
		configPath = a.env.ConfigPath
	}
	cfg, err := types.LoadConfiguration(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if a.env.CorpusRoot != "" {
		cfg.Corpus.Root = a.env.CorpusRoot
	}
	if a.env.ModelPath != "" {
		cfg.Model = a.env.ModelPath
	}

	flags := cmd.Flags()
	if flags.Changed("corpus") {
		cfg.Corpus.Root = a.corpusRoot
	}
	if flags.Changed("model") {
		cfg.Model = a.modelPath
	}
	if flags.Changed("train-sentences") {
		cfg.Training.Sentences = a.trainSentences
	}
	if flags.Changed("eval-sentences") {
		cfg.Evaluation.Sentences = a.evalSentences
	}
	if flags.Changed("iterations") {
		cfg.Training.Iterations = a.iterations
	}
	if flags.Changed("workers") {
		cfg.Training.Workers = a.workers
	}

	a.cfg = cfg
	return cfg.Validate()
}

// loadCorpus reads the whole corpus and splits it into training and held out parts.
func (a *app) loadCorpus(ctx context.Context, cmd *cobra.Command) ([][]types.RawToken, [][]types.RawToken, error) {
	if a.cfg.Corpus.Root == "" {
		return nil, nil, errors.New("corpus root is not set, use --corpus or NER_CORPUS_ROOT")
	}
	reader := &corpus.Reader{Root: a.cfg.Corpus.Root, Suffix: a.cfg.Corpus.Suffix}
	sentences, stats, err := reader.Load(ctx, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("read corpus: %w", err)
	}
	if stats.Skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d malformed corpus sentences\n", stats.Skipped)
	}
	train, test := corpus.Split(sentences, a.cfg.Corpus.TrainRatio)
	return train, test, nil
}

func (a *app) stemmer() (lemmatizer.Stemmer, error) {
	return lemmatizer.NewStemmer()
}

// store resolves the model location to a bundle store and the name inside it.
func (a *app) store() (models.Store, string, error) {
	switch a.env.ModelStore {
	case "", "file":
		return models.FileStore{Dir: filepath.Dir(a.cfg.Model)}, filepath.Base(a.cfg.Model), nil
	case "s3":
		client, err := s3client.New()
		if err != nil {
			return nil, "", err
		}
		return models.S3Store{Client: client, Prefix: a.env.S3Prefix}, a.cfg.Model, nil
	case "redis":
		client, err := redis.NewClient(models.ModelsDB)
		if err != nil {
			return nil, "", err
		}
		return models.RedisStore{Client: &client}, a.cfg.Model, nil
	}
	return nil, "", fmt.Errorf("unknown model store %q", a.env.ModelStore)
}

func (a *app) loadBundle(ctx context.Context) (*models.Bundle, error) {
	store, name, err := a.store()
	if err != nil {
		return nil, err
	}
	bundle, err := store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", name, err)
	}
	return bundle, nil
}

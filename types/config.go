package types

import (
	"errors"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTrainRatio        = 0.9
	DefaultTrainSentences    = 100
	DefaultEvalSentences     = 50
	DefaultIterations        = 100
	DefaultCutoff            = 1
	DefaultPOSBeamSize       = 3
	DefaultSampleSentence    = "You stinky boy who never showers"
	DefaultCorpusFileSuffix  = ".tags"
	DefaultModelFileLocation = "ner.model.json"
)

type CorpusConfig struct {
	Root       string  `yaml:"root" json:"root"`
	Suffix     string  `yaml:"suffix" json:"suffix"`
	TrainRatio float64 `yaml:"train_ratio" json:"train_ratio"`
}

type TrainingConfig struct {
	Sentences  int `yaml:"sentences" json:"sentences"`
	Iterations int `yaml:"iterations" json:"iterations"`
	Cutoff     int `yaml:"cutoff" json:"cutoff"`
	Workers    int `yaml:"workers" json:"workers"`
	// POSSentences limits the POS tagger training set, 0 means the whole training split.
	POSSentences int `yaml:"pos_sentences" json:"pos_sentences"`
}

type EvaluationConfig struct {
	Sentences int `yaml:"sentences" json:"sentences"`
}

type FeaturesConfig struct {
	LegacyNextCasing bool `yaml:"legacy_next_casing" json:"legacy_next_casing"`
}

type Configuration struct {
	Corpus     CorpusConfig     `yaml:"corpus" json:"corpus"`
	Training   TrainingConfig   `yaml:"training" json:"training"`
	Evaluation EvaluationConfig `yaml:"evaluation" json:"evaluation"`
	Features   FeaturesConfig   `yaml:"features" json:"features"`
	Model      string           `yaml:"model" json:"model"`
	POSBeam    int              `yaml:"pos_beam" json:"pos_beam"`
	Sample     string           `yaml:"sample" json:"sample"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Corpus: CorpusConfig{
			Suffix:     DefaultCorpusFileSuffix,
			TrainRatio: DefaultTrainRatio,
		},
		Training: TrainingConfig{
			Sentences:  DefaultTrainSentences,
			Iterations: DefaultIterations,
			Cutoff:     DefaultCutoff,
		},
		Evaluation: EvaluationConfig{Sentences: DefaultEvalSentences},
		Model:      DefaultModelFileLocation,
		POSBeam:    DefaultPOSBeamSize,
		Sample:     DefaultSampleSentence,
	}
}

// LoadConfiguration reads a YAML file on top of DefaultConfiguration.
func LoadConfiguration(filePath string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if filePath == "" {
		return cfg, nil
	}
	buf, err := ioutil.ReadFile(filePath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (cfg Configuration) Validate() error {
	if cfg.Corpus.TrainRatio <= 0 || cfg.Corpus.TrainRatio > 1 {
		return errors.New("corpus.train_ratio should be in (0, 1]")
	}
	if cfg.Training.Sentences < 0 || cfg.Evaluation.Sentences < 0 {
		return errors.New("sentence limits should not be negative")
	}
	if cfg.Training.Iterations <= 0 {
		return errors.New("training.iterations should be positive")
	}
	if cfg.POSBeam <= 0 {
		return errors.New("pos_beam should be positive")
	}
	return nil
}

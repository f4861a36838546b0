package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"text2phenotype.com/ner/lemmatizer"
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/nlp/chunker"
	"text2phenotype.com/ner/nlp/features"
	"text2phenotype.com/ner/pos"
	"text2phenotype.com/ner/types"
	"text2phenotype.com/ner/utils"
)

const BundleVersion = "1"

var ErrFingerprintMismatch = errors.New("model bundle fingerprint mismatch")

// Bundle keeps everything needed to parse raw text: the chunker and POS models together
// with the feature options they were trained with.
type Bundle struct {
	Version       string            `json:"version"`
	Fingerprint   string            `json:"fingerprint"`
	Options       features.Options  `json:"options"`
	Chunker       *ml.Model         `json:"chunker"`
	POS           *ml.Model         `json:"pos"`
	TagDictionary pos.TagDictionary `json:"tag_dictionary"`
}

// Fingerprint hashes the serialized models with murmur3.
func Fingerprint(bundle *Bundle) (string, error) {
	parts := make([][]byte, 0, 4)
	for _, part := range []interface{}{bundle.Options, bundle.Chunker, bundle.POS, bundle.TagDictionary} {
		b, err := json.Marshal(part)
		if err != nil {
			return "", err
		}
		parts = append(parts, b)
	}
	return fmt.Sprintf("%016x", utils.HashBytes(parts...)), nil
}

func (bundle *Bundle) Save(w io.Writer) error {
	if bundle.Chunker == nil {
		return types.ErrModelNotTrained
	}
	fingerprint, err := Fingerprint(bundle)
	if err != nil {
		return err
	}
	bundle.Version = BundleVersion
	bundle.Fingerprint = fingerprint
	return json.NewEncoder(w).Encode(bundle)
}

func Load(r io.Reader) (*Bundle, error) {
	var bundle Bundle
	if err := json.NewDecoder(r).Decode(&bundle); err != nil {
		return nil, err
	}
	if bundle.Chunker == nil {
		return nil, types.ErrModelNotTrained
	}
	if bundle.Version != BundleVersion {
		return nil, fmt.Errorf("unsupported model bundle version %q", bundle.Version)
	}
	fingerprint, err := Fingerprint(&bundle)
	if err != nil {
		return nil, err
	}
	if fingerprint != bundle.Fingerprint {
		return nil, fmt.Errorf("%w: stored %s, computed %s", ErrFingerprintMismatch, bundle.Fingerprint, fingerprint)
	}
	return &bundle, nil
}

func (bundle *Bundle) SaveFile(filePath string) (err error) {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return bundle.Save(f)
}

func LoadFile(filePath string) (*Bundle, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (bundle *Bundle) NewChunker(stem lemmatizer.Stemmer) *chunker.Chunker {
	return chunker.FromModel(features.NewExtractor(stem, bundle.Options), bundle.Chunker)
}

// NewTagger returns nil when the bundle carries no POS model.
func (bundle *Bundle) NewTagger(beamSize int) *pos.Tagger {
	if bundle.POS == nil {
		return nil
	}
	return pos.NewTagger(bundle.POS, bundle.TagDictionary, beamSize)
}

package vocabulary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/sttkit/logger"
)

// KeywordsFile is the artifact written inside each vocabulary directory.
const KeywordsFile = "keywords.yml"

// keywordsDoc is the on-disk form of a compiled keyword vocabulary.
type keywordsDoc struct {
	Name       string    `yaml:"name"`
	Revision   string    `yaml:"revision"`
	CompiledAt time.Time `yaml:"compiled_at"`
	Phrases    []string  `yaml:"phrases"`
}

// KeywordVocabulary stores its phrases as YAML under <dir>/<name>/keywords.yml.
type KeywordVocabulary struct {
	name string
	dir  string
	log  *logger.Logger
}

// NewKeywordFactory returns a Factory creating keyword vocabularies under dir.
func NewKeywordFactory(dir string, log *logger.Logger) Factory {
	if log == nil {
		log = logger.Get("vocabulary")
	}
	return func(name string) Vocabulary {
		return &KeywordVocabulary{name: name, dir: dir, log: log}
	}
}

func (v *KeywordVocabulary) Name() string { return v.name }

// Path returns the artifact location.
func (v *KeywordVocabulary) Path() string {
	return filepath.Join(v.dir, v.name, KeywordsFile)
}

// CompiledRevision returns the revision recorded in the artifact, or "" if
// it has never been compiled or cannot be read.
func (v *KeywordVocabulary) CompiledRevision() string {
	doc, err := v.read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			v.log.Warn("cannot read compiled vocabulary", logger.Fields("path", v.Path(), logger.FieldError, err.Error()))
		}
		return ""
	}
	return doc.Revision
}

func (v *KeywordVocabulary) MatchesPhrases(phrases []string) bool {
	compiled := v.CompiledRevision()
	return compiled != "" && compiled == Revision(phrases)
}

func (v *KeywordVocabulary) Compile(phrases []string) error {
	doc := keywordsDoc{
		Name:       v.name,
		Revision:   Revision(phrases),
		CompiledAt: time.Now().UTC(),
		Phrases:    Normalize(phrases),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode vocabulary %s: %w", v.name, err)
	}
	if err := os.MkdirAll(filepath.Dir(v.Path()), 0o755); err != nil {
		return fmt.Errorf("create vocabulary dir: %w", err)
	}

	tmp := v.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write vocabulary %s: %w", v.name, err)
	}
	if err := os.Rename(tmp, v.Path()); err != nil {
		return fmt.Errorf("install vocabulary %s: %w", v.name, err)
	}

	v.log.Info("vocabulary compiled", logger.Fields("name", v.name, "phrases", len(doc.Phrases), "revision", doc.Revision[:12]))
	return nil
}

// Phrases returns the compiled phrase set.
func (v *KeywordVocabulary) Phrases() ([]string, error) {
	doc, err := v.read()
	if err != nil {
		return nil, err
	}
	return doc.Phrases, nil
}

func (v *KeywordVocabulary) read() (*keywordsDoc, error) {
	data, err := os.ReadFile(v.Path())
	if err != nil {
		return nil, err
	}
	var doc keywordsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", v.Path(), err)
	}
	return &doc, nil
}

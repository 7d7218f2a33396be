package stt

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/kbukum/sttkit/config"
	"github.com/kbukum/sttkit/errors"
	"github.com/kbukum/sttkit/logger"
	"github.com/kbukum/sttkit/vocabulary"
)

type countingPhrases struct {
	keywordCalls, allCalls int
}

func (c *countingPhrases) KeywordPhrases() []string {
	c.keywordCalls++
	return []string{"JASPER"}
}

func (c *countingPhrases) AllPhrases() []string {
	c.allCalls++
	return []string{"JASPER", "WHAT TIME IS IT"}
}

type memVocabulary struct {
	name       string
	compiled   []string
	compiles   int
	compileErr error
}

func (v *memVocabulary) Name() string { return v.name }

func (v *memVocabulary) MatchesPhrases(phrases []string) bool {
	return v.compiled != nil && vocabulary.Revision(v.compiled) == vocabulary.Revision(phrases)
}

func (v *memVocabulary) Compile(phrases []string) error {
	v.compiles++
	if v.compileErr != nil {
		return v.compileErr
	}
	v.compiled = append([]string{}, phrases...)
	return nil
}

type memVocabularies map[string]*memVocabulary

func (m memVocabularies) factory(name string) vocabulary.Vocabulary {
	v, ok := m[name]
	if !ok {
		v = &memVocabulary{name: name}
		m[name] = v
	}
	return v
}

var attFields = []config.Field{
	{Name: "app_key", Path: "att-stt.app_key", Required: true},
	{Name: "app_secret", Path: "att-stt.app_secret", Required: true},
	{Name: "endpoint", Path: "att-stt.endpoint"},
}

func TestManagerInstanceResolvesSettings(t *testing.T) {
	att := newFake("att", true, attFields...)
	profile := config.NewProfile(map[string]any{
		"att-stt.app_key":    "key",
		"att-stt.app_secret": "secret",
	})
	m := NewManager(testRegistry(att), profile, WithManagerLogger(logger.Nop()))

	engine, err := m.Instance(context.Background(), "att", vocabulary.NameDefault, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fe := engine.(*fakeEngine)
	want := Config{"app_key": "key", "app_secret": "secret"}
	if !reflect.DeepEqual(fe.cfg, want) {
		t.Errorf("config = %v, want %v", fe.cfg, want)
	}
	if fe.opts.Vocabulary != nil {
		t.Error("provider without vocabulary must not get one")
	}
	if m.Registry().List()[0].Slug != "att" {
		t.Error("Registry() returns the underlying registry")
	}
}

func TestManagerMissingRequiredField(t *testing.T) {
	att := newFake("att", true, attFields...)
	profile := config.NewProfile(map[string]any{"att-stt.app_key": "key"})
	m := NewManager(testRegistry(att), profile, WithManagerLogger(logger.Nop()))

	_, err := m.Active(context.Background(), "att")
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if fields, _ := appErr.Details["fields"].([]string); !reflect.DeepEqual(fields, []string{"app_secret"}) {
		t.Errorf("fields = %v", appErr.Details["fields"])
	}
	if att.newCalls != 0 {
		t.Error("New must not be called without required settings")
	}
}

func TestManagerSelectionErrorsPropagate(t *testing.T) {
	m := NewManager(testRegistry(newFake("google", false)), config.NewProfile(nil), WithManagerLogger(logger.Nop()))
	if _, err := m.Passive(context.Background(), "google"); !errors.HasCode(err, errors.ErrCodeServiceUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if _, err := m.Passive(context.Background(), "julius"); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestManagerVocabulary(t *testing.T) {
	vocabs := memVocabularies{}
	p := newFake("pocket", true)
	p.Vocab = vocabs.factory
	phrases := &countingPhrases{}
	m := NewManager(testRegistry(p), config.NewProfile(nil),
		WithPhraseSource(phrases),
		WithManagerLogger(logger.Nop()),
	)
	ctx := context.Background()

	engine, err := m.Passive(ctx, "pocket")
	if err != nil {
		t.Fatalf("Passive: %v", err)
	}
	if got := engine.(*fakeEngine).opts.Vocabulary.Name(); got != vocabulary.NameKeyword {
		t.Errorf("passive vocabulary = %q", got)
	}
	if _, err := m.Passive(ctx, "pocket"); err != nil {
		t.Fatalf("Passive: %v", err)
	}
	if vocabs[vocabulary.NameKeyword].compiles != 1 {
		t.Errorf("keyword vocabulary compiled %d times, want 1", vocabs[vocabulary.NameKeyword].compiles)
	}

	engine, err = m.Active(ctx, "pocket")
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got := engine.(*fakeEngine).opts.Vocabulary.Name(); got != vocabulary.NameDefault {
		t.Errorf("active vocabulary = %q", got)
	}
	if phrases.keywordCalls != 2 || phrases.allCalls != 1 {
		t.Errorf("phrase calls keyword=%d all=%d", phrases.keywordCalls, phrases.allCalls)
	}
}

func TestManagerPhrasesOnlyForVocabularyProviders(t *testing.T) {
	phrases := &countingPhrases{}
	m := NewManager(testRegistry(newFake("witai", true)), config.NewProfile(nil),
		WithPhraseSource(phrases),
		WithManagerLogger(logger.Nop()),
	)
	if _, err := m.Active(context.Background(), "witai"); err != nil {
		t.Fatalf("Active: %v", err)
	}
	if phrases.allCalls != 0 || phrases.keywordCalls != 0 {
		t.Error("phrases must not be requested for providers without a vocabulary")
	}
}

func TestManagerCompileFailure(t *testing.T) {
	vocabs := memVocabularies{vocabulary.NameDefault: {name: vocabulary.NameDefault, compileErr: stderrors.New("disk full")}}
	p := newFake("pocket", true)
	p.Vocab = vocabs.factory
	m := NewManager(testRegistry(p), config.NewProfile(nil), WithManagerLogger(logger.Nop()))

	_, err := m.Instance(context.Background(), "pocket", vocabulary.NameDefault, []string{"A"})
	if !errors.HasCode(err, errors.ErrCodeInternal) {
		t.Fatalf("expected INTERNAL_ERROR, got %v", err)
	}
	if p.newCalls != 0 {
		t.Error("New must not be called when compiling fails")
	}
}

func TestManagerDefault(t *testing.T) {
	tests := []struct {
		name    string
		profile map[string]any
		code    errors.ErrorCode
	}{
		{"configured", map[string]any{"stt_engine": "witai"}, ""},
		{"unset", nil, errors.ErrCodeInvalidArgument},
		{"unknown", map[string]any{"stt_engine": "sphinx"}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(testRegistry(newFake("witai", true)), config.NewProfile(tt.profile),
				WithManagerLogger(logger.Nop()),
				WithOptions(Options{Logger: logger.Nop()}),
			)
			engine, err := m.Default(context.Background())
			if tt.code != "" {
				if !errors.HasCode(err, tt.code) {
					t.Fatalf("expected %s, got %v", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if engine.Descriptor().Slug != "witai" {
				t.Errorf("engine slug = %q", engine.Descriptor().Slug)
			}
			if engine.(*fakeEngine).opts.Logger == nil {
				t.Error("options must be passed to New")
			}
		})
	}
}

func TestManagerProviderNewError(t *testing.T) {
	p := newFake("google", true)
	p.newErr = errors.Configuration("google", "api_key")
	m := NewManager(testRegistry(p), config.NewProfile(nil), WithManagerLogger(logger.Nop()))
	if _, err := m.Active(context.Background(), "google"); !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
}

func TestStaticPhrases(t *testing.T) {
	s := StaticPhrases{Keywords: []string{"JASPER"}, All: []string{"JASPER", "TIME"}}
	if len(s.KeywordPhrases()) != 1 || len(s.AllPhrases()) != 2 {
		t.Errorf("unexpected phrases %+v", s)
	}
}

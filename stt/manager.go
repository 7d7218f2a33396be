package stt

import (
	"context"
	"fmt"

	"github.com/kbukum/sttkit/config"
	"github.com/kbukum/sttkit/errors"
	"github.com/kbukum/sttkit/logger"
	"github.com/kbukum/sttkit/vocabulary"
)

// ConfigResolver supplies provider settings. *config.Profile satisfies it.
type ConfigResolver interface {
	// Resolve returns the present fields keyed by Field.Name.
	Resolve(fields []config.Field) map[string]any
	// Engine returns the slug of the default provider.
	Engine() string
}

// PhraseSource supplies the phrases vocabularies are compiled from.
type PhraseSource interface {
	// KeywordPhrases are the wake words listened for passively.
	KeywordPhrases() []string
	// AllPhrases are every phrase the application understands.
	AllPhrases() []string
}

// StaticPhrases is a PhraseSource over fixed lists.
type StaticPhrases struct {
	Keywords []string
	All      []string
}

// KeywordPhrases returns s.Keywords.
func (s StaticPhrases) KeywordPhrases() []string { return s.Keywords }

// AllPhrases returns s.All.
func (s StaticPhrases) AllPhrases() []string { return s.All }

// Manager builds engines from a registry, a settings resolver and an optional
// phrase source.
type Manager struct {
	registry *Registry
	resolver ConfigResolver
	phrases  PhraseSource
	options  Options
	log      *logger.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPhraseSource sets the phrase source used by Passive and Active.
func WithPhraseSource(src PhraseSource) ManagerOption {
	return func(m *Manager) { m.phrases = src }
}

// WithOptions sets the options passed to every engine.
func WithOptions(opts Options) ManagerOption {
	return func(m *Manager) { m.options = opts }
}

// WithManagerLogger sets the manager logger.
func WithManagerLogger(l *logger.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a Manager.
func NewManager(registry *Registry, resolver ConfigResolver, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		resolver: resolver,
		log:      logger.Get("stt.manager"),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *Registry { return m.registry }

// Instance selects slug, resolves its settings and builds an engine. When the
// provider uses a vocabulary, the one named vocabName is compiled from phrases
// unless it already matches them.
func (m *Manager) Instance(ctx context.Context, slug, vocabName string, phrases []string) (Engine, error) {
	return m.instance(ctx, slug, vocabName, func() []string { return phrases })
}

// Passive builds an engine for keyword spotting.
func (m *Manager) Passive(ctx context.Context, slug string) (Engine, error) {
	return m.instance(ctx, slug, vocabulary.NameKeyword, m.keywordPhrases)
}

// Active builds an engine for full command recognition.
func (m *Manager) Active(ctx context.Context, slug string) (Engine, error) {
	return m.instance(ctx, slug, vocabulary.NameDefault, m.allPhrases)
}

// Default builds an active engine for the provider named by the profile.
func (m *Manager) Default(ctx context.Context) (Engine, error) {
	slug := m.resolver.Engine()
	if slug == "" {
		return nil, errors.InvalidArgument(config.EngineKey, "no speech engine configured")
	}
	return m.Active(ctx, slug)
}

func (m *Manager) instance(ctx context.Context, slug, vocabName string, phrases func() []string) (Engine, error) {
	p, err := m.registry.Select(ctx, slug)
	if err != nil {
		return nil, err
	}

	fields := p.Fields()
	settings := m.resolver.Resolve(fields)
	if missing := config.MissingRequired(fields, settings); len(missing) > 0 {
		m.log.Error("speech provider not configured", logger.Fields(
			logger.FieldProvider, slug,
			"missing", missing,
		))
		return nil, errors.Configuration(slug, missing...)
	}

	opts := m.options
	if factory := p.Vocabulary(); factory != nil {
		vocab, err := m.prepareVocabulary(factory, vocabName, phrases())
		if err != nil {
			return nil, err
		}
		opts.Vocabulary = vocab
	}

	engine, err := p.New(Config(settings), opts)
	if err != nil {
		return nil, err
	}
	m.log.Info("speech engine ready", logger.Fields(logger.FieldProvider, slug))
	return engine, nil
}

func (m *Manager) prepareVocabulary(factory vocabulary.Factory, name string, phrases []string) (vocabulary.Vocabulary, error) {
	vocab := factory(name)
	if vocab.MatchesPhrases(phrases) {
		return vocab, nil
	}
	m.log.Info("compiling vocabulary", logger.Fields("vocabulary", name, "phrases", len(phrases)))
	if err := vocab.Compile(phrases); err != nil {
		return nil, errors.Internal(fmt.Errorf("compile vocabulary %s: %w", name, err))
	}
	return vocab, nil
}

func (m *Manager) keywordPhrases() []string {
	if m.phrases == nil {
		return nil
	}
	return m.phrases.KeywordPhrases()
}

func (m *Manager) allPhrases() []string {
	if m.phrases == nil {
		return nil
	}
	return m.phrases.AllPhrases()
}

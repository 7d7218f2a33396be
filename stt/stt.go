package stt

import (
	"context"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/kbukum/sttkit/config"
	"github.com/kbukum/sttkit/netprobe"
	"github.com/kbukum/sttkit/provider"
	"github.com/kbukum/sttkit/vocabulary"
)

// Descriptor identifies a provider.
type Descriptor struct {
	// Slug is the short stable identifier, e.g. "google".
	Slug string `json:"slug"`
	// Name is the human-readable name.
	Name string `json:"name"`
}

// Config holds the resolved settings handed to Provider.New, keyed by
// config.Field.Name.
type Config map[string]any

// Result is the ordered list of transcript candidates, most likely first.
// It is never nil.
type Result []string

// NewResult uppercases texts into a Result. A nil slice yields an empty Result.
func NewResult(texts ...string) Result {
	if len(texts) == 0 {
		return Result{}
	}
	return Result(lo.Map(texts, func(t string, _ int) string {
		return strings.ToUpper(t)
	}))
}

// Best returns the first candidate, or "" when empty.
func (r Result) Best() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Empty reports whether no candidate was returned.
func (r Result) Empty() bool { return len(r) == 0 }

// Engine is a configured provider instance.
type Engine interface {
	Descriptor() Descriptor
	// Transcribe sends one WAV recording and returns the candidates. Expected
	// failures yield an empty Result.
	Transcribe(ctx context.Context, audio io.Reader) Result
}

// Provider is a speech recognition service that can build engines.
type Provider interface {
	provider.Provider // Name() is the slug, IsAvailable() the capability check

	Descriptor() Descriptor
	// Fields lists the profile keys the provider reads.
	Fields() []config.Field
	// Vocabulary returns the factory for compiled phrase sets, or nil when the
	// provider does not use one.
	Vocabulary() vocabulary.Factory
	// New builds an engine from resolved settings.
	New(cfg Config, opts Options) (Engine, error)
}

// Base carries the static parts of a provider and implements everything in
// Provider except New.
type Base struct {
	Desc     Descriptor
	Settings []config.Field
	Probe    netprobe.Probe
	Vocab    vocabulary.Factory
}

// Name returns the slug.
func (b Base) Name() string { return b.Desc.Slug }

// Descriptor returns the descriptor.
func (b Base) Descriptor() Descriptor { return b.Desc }

// Fields returns a copy of the declared fields.
func (b Base) Fields() []config.Field {
	return append([]config.Field(nil), b.Settings...)
}

// Vocabulary returns the vocabulary factory, nil when unset.
func (b Base) Vocabulary() vocabulary.Factory { return b.Vocab }

// IsAvailable asks the probe. Providers without a probe are always available.
func (b Base) IsAvailable(ctx context.Context) bool {
	if b.Probe == nil {
		return true
	}
	return b.Probe.Available(ctx)
}

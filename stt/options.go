package stt

import (
	"net/http"
	"time"

	"github.com/kbukum/sttkit/logger"
	"github.com/kbukum/sttkit/observability"
	"github.com/kbukum/sttkit/tokenstore"
	"github.com/kbukum/sttkit/vocabulary"
)

// DefaultTimeout bounds every request made by an engine.
const DefaultTimeout = 30 * time.Second

// Options are the collaborators injected into an engine.
type Options struct {
	// Logger receives diagnostics. Defaults to logger.Get("stt.<slug>").
	Logger *logger.Logger
	// Metrics records call outcomes. Nil disables metrics.
	Metrics *observability.Metrics
	// Timeout is the HTTP client timeout. Zero or negative means DefaultTimeout.
	Timeout time.Duration
	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
	// Tokens optionally mirrors access tokens outside the engine.
	Tokens tokenstore.Store
	// Vocabulary is the compiled phrase set chosen by the Manager, if any.
	Vocabulary vocabulary.Vocabulary
}

// ApplyDefaults fills unset options for the provider slug.
func (o *Options) ApplyDefaults(slug string) {
	if o.Logger == nil {
		o.Logger = logger.Get("stt." + slug)
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
}

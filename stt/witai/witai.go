// Package witai implements the Wit.ai speech provider.
//
//	stt_engine: witai
//	witai-stt:
//	  access_token: ERJKGE86SOMERANDOMTOKEN23471AB
package witai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kbukum/sttkit/config"
	"github.com/kbukum/sttkit/errors"
	"github.com/kbukum/sttkit/httpclient"
	"github.com/kbukum/sttkit/logger"
	"github.com/kbukum/sttkit/netprobe"
	"github.com/kbukum/sttkit/stt"
	"github.com/kbukum/sttkit/validation"
)

const (
	// Slug is the registered name of the provider.
	Slug = "witai"

	DefaultEndpoint = "https://api.wit.ai/speech?v=20150101"
)

// Config holds the provider settings.
type Config struct {
	AccessToken string `mapstructure:"access_token" validate:"required"`
	Endpoint    string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// Fields lists the profile keys read by the provider.
func Fields() []config.Field {
	return []config.Field{
		{Name: "access_token", Path: "witai-stt.access_token", Required: true},
		{Name: "endpoint", Path: "witai-stt.endpoint"},
	}
}

// Provider builds Wit.ai engines.
type Provider struct {
	stt.Base
}

// NewProvider creates the provider. probe answers IsAvailable.
func NewProvider(probe netprobe.Probe) *Provider {
	return &Provider{Base: stt.Base{
		Desc:     stt.Descriptor{Slug: Slug, Name: "Wit.ai"},
		Settings: Fields(),
		Probe:    probe,
	}}
}

// New decodes cfg and builds an engine.
func (p *Provider) New(cfg stt.Config, opts stt.Options) (stt.Engine, error) {
	var c Config
	if err := stt.DecodeConfig(Slug, cfg, &c); err != nil {
		return nil, err
	}
	return NewEngine(c, opts)
}

// Engine sends recordings to Wit.ai with a static bearer token.
type Engine struct {
	desc     stt.Descriptor
	endpoint string
	client   *httpclient.Client
	opts     stt.Options
}

// NewEngine validates cfg. The auth and content headers are fixed on the
// client here.
func NewEngine(cfg Config, opts stt.Options) (*Engine, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if err := validation.Validate(&cfg); err != nil {
		return nil, errors.Configuration(Slug, validation.Fields(err)...).WithCause(err)
	}
	opts.ApplyDefaults(Slug)

	client, err := httpclient.New(httpclient.Config{
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
		Auth:      httpclient.BearerAuth(cfg.AccessToken),
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "audio/wav",
		},
	})
	if err != nil {
		return nil, errors.Configuration(Slug).WithCause(err)
	}
	return &Engine{
		desc:     stt.Descriptor{Slug: Slug, Name: "Wit.ai"},
		endpoint: cfg.Endpoint,
		client:   client,
		opts:     opts,
	}, nil
}

// Descriptor returns the provider descriptor.
func (e *Engine) Descriptor() stt.Descriptor { return e.desc }

// Transcribe uploads a WAV recording and returns the single transcript, if
// any.
func (e *Engine) Transcribe(ctx context.Context, r io.Reader) stt.Result {
	ctx, call := stt.StartCall(ctx, Slug, e.opts)
	log := call.Logger()

	data, err := io.ReadAll(r)
	if err != nil {
		log.Error("cannot read audio", logger.ErrorFields("read_audio", err))
		call.Error(err)
		return call.End(stt.OutcomeFailedInput, nil)
	}
	call.AudioBytes(len(data))

	resp, err := e.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    e.endpoint,
		Body:   data,
	})
	if resp != nil {
		call.Status(resp.StatusCode)
	}
	if err != nil {
		call.Error(err)
		if resp == nil {
			log.Error("request failed", logger.ErrorFields("speech", err))
			return call.End(stt.OutcomeFailedTransport, nil)
		}
		log.Warn("request failed with response", logger.Fields(
			logger.FieldStatus, resp.StatusCode,
			"response", string(resp.Body),
		))
		if httpclient.IsAuth(err) {
			return call.End(stt.OutcomeFailedAuth, nil)
		}
		return call.End(stt.OutcomeFailedHTTP, nil)
	}

	text, err := parseResponse(resp)
	if err != nil {
		log.Critical("cannot parse response", logger.Fields(logger.FieldError, err.Error(), "response", string(resp.Body)))
		call.Error(err)
		return call.End(stt.OutcomeFailedParse, nil)
	}
	if text == "" {
		log.Warn("no speech found: empty _text")
		return call.End(stt.OutcomeEmpty, nil)
	}

	result := stt.NewResult(text)
	log.Info("transcribed", logger.Fields("candidates", []string(result)))
	return call.End(stt.OutcomeSuccess, result)
}

// parseResponse returns the _text field. The field must be present; null
// and "" both mean nothing was understood.
func parseResponse(resp *httpclient.Response) (string, error) {
	var envelope map[string]json.RawMessage
	if err := resp.DecodeJSON(&envelope); err != nil {
		return "", err
	}
	raw, ok := envelope["_text"]
	if !ok {
		return "", fmt.Errorf("response has no _text field")
	}
	var text *string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("decode _text: %w", err)
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

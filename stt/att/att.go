// Package att implements the AT&T Speech API provider.
//
// The provider authenticates with an OAuth client-credentials exchange:
//
//	stt_engine: att
//	att-stt:
//	  app_key:    4xxzd6abcdefghijklmnopqrstuvwxyz
//	  app_secret: 6o5jgiabcdefghijklmnopqrstuvwxyz
package att

import (
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"slices"

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
	Slug = "att"

	DefaultTokenURL = "https://api.att.com/oauth/v4/token"
	DefaultEndpoint = "https://api.att.com/speech/v3/speechToText"

	scope    = "SPEECH"
	statusOK = "OK"
)

// Config holds the provider settings.
type Config struct {
	AppKey    string `mapstructure:"app_key" validate:"required"`
	AppSecret string `mapstructure:"app_secret" validate:"required"`
	TokenURL  string `mapstructure:"token_url" validate:"omitempty,url"`
	Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// Fields lists the profile keys read by the provider.
func Fields() []config.Field {
	return []config.Field{
		{Name: "app_key", Path: "att-stt.app_key", Required: true},
		{Name: "app_secret", Path: "att-stt.app_secret", Required: true},
		{Name: "token_url", Path: "att-stt.token_url"},
		{Name: "endpoint", Path: "att-stt.endpoint"},
	}
}

// Provider builds AT&T engines.
type Provider struct {
	stt.Base
}

// NewProvider creates the provider. probe answers IsAvailable.
func NewProvider(probe netprobe.Probe) *Provider {
	return &Provider{Base: stt.Base{
		Desc:     stt.Descriptor{Slug: Slug, Name: "AT&T Speech"},
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

// Engine sends recordings to the AT&T Speech API. It is safe for concurrent
// use.
type Engine struct {
	desc   stt.Descriptor
	cfg    Config
	client *httpclient.Client
	opts   stt.Options
	tokens *tokenCache
}

// NewEngine validates cfg and prepares the token cache. No request is made
// until the first Transcribe.
func NewEngine(cfg Config, opts stt.Options) (*Engine, error) {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
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
	})
	if err != nil {
		return nil, errors.Configuration(Slug).WithCause(err)
	}

	e := &Engine{
		desc:   stt.Descriptor{Slug: Slug, Name: "AT&T Speech"},
		cfg:    cfg,
		client: client,
		opts:   opts,
	}
	e.tokens = &tokenCache{
		key:   Slug + ":" + cfg.AppKey,
		store: opts.Tokens,
		fetch: e.exchange,
		log:   opts.Logger,
	}
	return e, nil
}

// Descriptor returns the provider descriptor.
func (e *Engine) Descriptor() stt.Descriptor { return e.desc }

// Transcribe uploads a WAV recording. An unauthorized response invalidates
// the access token and the upload is retried once with a new one.
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

	resp, token, err := e.recognize(ctx, data)
	if uploadUnauthorized(err) {
		log.Warn("OAuth access token invalid, generating a new one and retrying")
		e.tokens.Invalidate(ctx, token)
		resp, _, err = e.recognize(ctx, data)
		if uploadUnauthorized(err) {
			call.Status(resp.StatusCode)
			call.Error(err)
			log.Critical("request unauthorized after token refresh", logger.Fields("response", string(resp.Body)))
			return call.End(stt.OutcomeFailedAuth, nil)
		}
	}

	if resp != nil {
		call.Status(resp.StatusCode)
	}
	if err != nil {
		call.Error(err)
		switch {
		case stderrors.Is(err, errTokenExchange) && !httpclient.IsTransport(err):
			log.Critical("cannot obtain access token", logger.ErrorFields("token", err))
			return call.End(stt.OutcomeFailedAuth, nil)
		case resp == nil:
			log.Critical("request failed", logger.ErrorFields("recognize", err))
			return call.End(stt.OutcomeFailedTransport, nil)
		default:
			log.Critical("request failed with response", logger.Fields(
				logger.FieldStatus, resp.StatusCode,
				"response", string(resp.Body),
			))
			return call.End(stt.OutcomeFailedHTTP, nil)
		}
	}

	texts, status, err := parseResponse(resp)
	switch {
	case err != nil:
		log.Critical("cannot parse response", logger.Fields(logger.FieldError, err.Error(), "response", string(resp.Body)))
		call.Error(err)
		return call.End(stt.OutcomeFailedParse, nil)
	case status != statusOK:
		log.Debug("recognition failed with status", logger.Fields(logger.FieldStatus, status))
		return call.End(stt.OutcomeEmpty, nil)
	case len(texts) == 0:
		log.Warn("no speech found: recognition returned no hypotheses")
		return call.End(stt.OutcomeEmpty, nil)
	}

	result := stt.NewResult(texts...)
	log.Info("transcribed", logger.Fields("candidates", []string(result)))
	return call.End(stt.OutcomeSuccess, result)
}

// uploadUnauthorized reports a 401 on the upload itself, not on the token
// exchange.
func uploadUnauthorized(err error) bool {
	return httpclient.IsUnauthorized(err) && !stderrors.Is(err, errTokenExchange)
}

// recognize sends one upload and returns the token it used.
func (e *Engine) recognize(ctx context.Context, data []byte) (*httpclient.Response, string, error) {
	token, err := e.tokens.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	resp, err := e.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    e.cfg.Endpoint,
		Headers: map[string]string{
			"Accept":       "application/json",
			"Content-Type": "audio/wav",
		},
		Body: data,
		Auth: httpclient.BearerAuth(token),
	})
	return resp, token, err
}

type speechResponse struct {
	Recognition *struct {
		Status *string `json:"Status"`
		NBest  []struct {
			Hypothesis *string  `json:"Hypothesis"`
			Confidence *float64 `json:"Confidence"`
		} `json:"NBest"`
	} `json:"Recognition"`
}

type hypothesis struct {
	text       string
	confidence float64
}

// parseResponse returns the hypotheses ordered by descending confidence and
// the recognition status. Hypotheses are only read when the status is OK.
func parseResponse(resp *httpclient.Response) ([]string, string, error) {
	var parsed speechResponse
	if err := resp.DecodeJSON(&parsed); err != nil {
		return nil, "", err
	}
	rec := parsed.Recognition
	if rec == nil || rec.Status == nil {
		return nil, "", fmt.Errorf("response has no Recognition.Status")
	}
	if *rec.Status != statusOK {
		return nil, *rec.Status, nil
	}
	if rec.NBest == nil {
		return nil, "", fmt.Errorf("response has no Recognition.NBest")
	}

	hyps := make([]hypothesis, 0, len(rec.NBest))
	for i, nb := range rec.NBest {
		if nb.Hypothesis == nil || nb.Confidence == nil {
			return nil, "", fmt.Errorf("NBest entry %d is incomplete", i)
		}
		hyps = append(hyps, hypothesis{text: *nb.Hypothesis, confidence: *nb.Confidence})
	}
	slices.SortStableFunc(hyps, func(a, b hypothesis) int {
		return cmp.Compare(b.confidence, a.confidence)
	})

	texts := make([]string, len(hyps))
	for i, h := range hyps {
		texts[i] = h.text
	}
	return texts, statusOK, nil
}

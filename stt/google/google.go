// Package google implements the Google Speech API v2 provider.
//
// The API key is read from the shared keys section of the profile:
//
//	stt_engine: google
//	keys:
//	  GOOGLE_SPEECH: $YOUR_KEY
//	google-stt:
//	  language: en-us
package google

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kbukum/sttkit/audio"
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
	Slug = "google"

	DefaultEndpoint = "https://www.google.com/speech-api/v2/recognize"
	DefaultLanguage = "en-us"

	maxResults      = 6
	profanityFilter = 2
)

// Config holds the provider settings.
type Config struct {
	APIKey   string `mapstructure:"api_key" validate:"required"`
	Language string `mapstructure:"language"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// Fields lists the profile keys read by the provider.
func Fields() []config.Field {
	return []config.Field{
		{Name: "api_key", Path: "keys.GOOGLE_SPEECH", Required: true},
		{Name: "language", Path: "google-stt.language"},
		{Name: "endpoint", Path: "google-stt.endpoint"},
	}
}

// Provider builds Google engines.
type Provider struct {
	stt.Base
}

// NewProvider creates the provider. probe answers IsAvailable.
func NewProvider(probe netprobe.Probe) *Provider {
	return &Provider{Base: stt.Base{
		Desc:     stt.Descriptor{Slug: Slug, Name: "Google Speech"},
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

// Engine sends recordings to the Google Speech API.
type Engine struct {
	desc       stt.Descriptor
	requestURL string
	client     *httpclient.Client
	opts       stt.Options
}

// NewEngine validates cfg and fixes the request URL. The API key is added by
// the client on each request.
func NewEngine(cfg Config, opts stt.Options) (*Engine, error) {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if err := validation.Validate(&cfg); err != nil {
		return nil, errors.Configuration(Slug, validation.Fields(err)...).WithCause(err)
	}
	opts.ApplyDefaults(Slug)

	requestURL, err := buildRequestURL(cfg)
	if err != nil {
		return nil, errors.Configuration(Slug, "endpoint").WithCause(err)
	}
	client, err := httpclient.New(httpclient.Config{
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
		Auth:      httpclient.APIKeyAuthQuery(cfg.APIKey, "key"),
	})
	if err != nil {
		return nil, errors.Configuration(Slug).WithCause(err)
	}
	return &Engine{
		desc:       stt.Descriptor{Slug: Slug, Name: "Google Speech"},
		requestURL: requestURL,
		client:     client,
		opts:       opts,
	}, nil
}

func buildRequestURL(cfg Config) (string, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("output", "json")
	q.Set("client", "chromium")
	q.Set("lang", cfg.Language)
	q.Set("maxresults", strconv.Itoa(maxResults))
	q.Set("pfilter", strconv.Itoa(profanityFilter))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Descriptor returns the provider descriptor.
func (e *Engine) Descriptor() stt.Descriptor { return e.desc }

// RequestURL returns the recognition URL without the API key.
func (e *Engine) RequestURL() string { return e.requestURL }

// Transcribe posts the PCM payload of a WAV recording, tagged with its
// sample rate, and returns the alternatives of the final result.
func (e *Engine) Transcribe(ctx context.Context, r io.Reader) stt.Result {
	ctx, call := stt.StartCall(ctx, Slug, e.opts)
	log := call.Logger()

	clip, err := audio.Read(r)
	if err != nil {
		log.Error("cannot read audio", logger.ErrorFields("read_audio", err))
		call.Error(err)
		return call.End(stt.OutcomeFailedInput, nil)
	}
	call.AudioBytes(len(clip.PCM()))

	resp, err := e.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     e.requestURL,
		Headers: map[string]string{"Content-Type": fmt.Sprintf("audio/l16; rate=%d", clip.SampleRate())},
		Body:    clip.PCM(),
	})
	if resp != nil {
		call.Status(resp.StatusCode)
	}
	if err != nil {
		call.Error(err)
		if resp == nil {
			log.Error("request failed", logger.ErrorFields("recognize", err))
			return call.End(stt.OutcomeFailedTransport, nil)
		}
		log.Critical("request failed with http status", logger.Fields(logger.FieldStatus, resp.StatusCode))
		if resp.StatusCode == http.StatusForbidden {
			log.Warn("status 403 is probably caused by an invalid Google API key")
			return call.End(stt.OutcomeFailedAuth, nil)
		}
		return call.End(stt.OutcomeFailedHTTP, nil)
	}

	texts, err := parseResponse(resp.Body)
	switch {
	case err != nil:
		log.Critical("cannot parse response", logger.Fields(logger.FieldError, err.Error(), "body", string(resp.Body)))
		call.Error(err)
		return call.End(stt.OutcomeFailedParse, nil)
	case len(texts) == 0:
		log.Warn("empty response: nothing has been transcribed")
		return call.End(stt.OutcomeEmpty, nil)
	}

	result := stt.NewResult(texts...)
	log.Info("transcribed", logger.Fields("candidates", []string(result)))
	return call.End(stt.OutcomeSuccess, result)
}

// lastDocument returns the last non-empty line of body. The API streams
// interim documents before the final one, one per line.
func lastDocument(body []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(body), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if line := bytes.TrimSpace(lines[i]); len(line) > 0 {
			return line
		}
	}
	return nil
}

type recognizeResponse struct {
	Result *[]struct {
		Alternative []struct {
			Transcript *string `json:"transcript"`
		} `json:"alternative"`
	} `json:"result"`
}

// parseResponse returns the transcripts of the first result of the final
// document. An empty result list yields no transcripts and no error.
func parseResponse(body []byte) ([]string, error) {
	doc := lastDocument(body)
	if doc == nil {
		return nil, fmt.Errorf("empty response body")
	}
	var parsed recognizeResponse
	if err := (&httpclient.Response{Body: doc}).DecodeJSON(&parsed); err != nil {
		return nil, err
	}
	if parsed.Result == nil {
		return nil, fmt.Errorf("response has no result field")
	}
	results := *parsed.Result
	if len(results) == 0 {
		return nil, nil
	}
	if results[0].Alternative == nil {
		return nil, fmt.Errorf("first result has no alternative field")
	}
	texts := make([]string, 0, len(results[0].Alternative))
	for i, alt := range results[0].Alternative {
		if alt.Transcript == nil {
			return nil, fmt.Errorf("alternative %d has no transcript", i)
		}
		texts = append(texts, *alt.Transcript)
	}
	return texts, nil
}

package att

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/sttkit/httpclient"
	"github.com/kbukum/sttkit/logger"
	"github.com/kbukum/sttkit/observability"
	"github.com/kbukum/sttkit/tokenstore"
)

var errTokenExchange = errors.New("token exchange failed")

// fetchFunc performs a client-credentials exchange.
type fetchFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// tokenCache holds the access token of one engine. The mutex is held across
// the exchange so concurrent first calls share a single exchange.
type tokenCache struct {
	mu    sync.Mutex
	token string

	key   string
	store tokenstore.Store
	fetch fetchFunc
	log   *logger.Logger
}

// Get returns the cached token, then the mirrored one, and exchanges
// credentials for a new one when neither exists.
func (c *tokenCache) Get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}
	if c.store != nil {
		tok, ok, err := c.store.Get(ctx, c.key)
		switch {
		case err != nil:
			c.log.Warn("token store read failed", logger.ErrorFields("token_get", err))
		case ok:
			c.token = tok
			return tok, nil
		}
	}

	tok, ttl, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	c.token = tok
	if c.store != nil {
		if err := c.store.Set(ctx, c.key, tok, ttl); err != nil {
			c.log.Warn("token store write failed", logger.ErrorFields("token_set", err))
		}
	}
	return tok, nil
}

// Invalidate drops stale if it is still the cached token. A token refreshed
// by a concurrent call in the meantime is kept.
func (c *tokenCache) Invalidate(ctx context.Context, stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != stale {
		return
	}
	c.token = ""
	if c.store != nil {
		if err := c.store.Delete(ctx, c.key); err != nil {
			c.log.Warn("token store delete failed", logger.ErrorFields("token_delete", err))
		}
	}
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// exchange trades the app credentials for an access token.
func (e *Engine) exchange(ctx context.Context) (string, time.Duration, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTokenRefresh,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(observability.AttrProvider, Slug)),
	)
	defer span.End()

	tok, ttl, err := e.requestToken(ctx)
	e.opts.Metrics.RecordTokenRefresh(ctx, Slug, err == nil)
	if err != nil {
		observability.SetSpanError(span, err)
		return "", 0, err
	}
	return tok, ttl, nil
}

func (e *Engine) requestToken(ctx context.Context) (string, time.Duration, error) {
	resp, err := e.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		URL:     e.cfg.TokenURL,
		Headers: map[string]string{"Accept": "application/json"},
		Body: url.Values{
			"client_id":     {e.cfg.AppKey},
			"client_secret": {e.cfg.AppSecret},
			"scope":         {scope},
			"grant_type":    {"client_credentials"},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", errTokenExchange, err)
	}

	var tr tokenResponse
	if err := resp.DecodeJSON(&tr); err != nil {
		return "", 0, fmt.Errorf("%w: %w", errTokenExchange, err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: response has no access_token", errTokenExchange)
	}

	var ttl time.Duration
	if n, err := tr.ExpiresIn.Int64(); err == nil && n > 0 {
		ttl = time.Duration(n) * time.Second
	}
	return tr.AccessToken, ttl, nil
}

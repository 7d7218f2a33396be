package httpclient

import (
	"encoding/json"
	"fmt"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// URL is the absolute request URL.
	URL string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Body accepts io.Reader, []byte, url.Values (form encoded), string, or
	// any value that will be JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// DecodeJSON unmarshals the response body into v. Malformed bodies are
// reported as ErrCodeDecode.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return NewDecodeError(fmt.Errorf("decode response: %w", err), r.Body)
	}
	return nil
}

package stttest

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/kbukum/sttkit/audio"
)

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

// RoundTrip calls f.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// FailingTransport fails every request with err and counts the attempts.
type FailingTransport struct {
	Err   error
	calls atomic.Int64
}

// RoundTrip returns t.Err.
func (t *FailingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	if req.Body != nil {
		_ = req.Body.Close()
	}
	return nil, t.Err
}

// Calls returns the number of attempted requests.
func (t *FailingTransport) Calls() int { return int(t.calls.Load()) }

// Response builds a response for use inside a RoundTripFunc.
func Response(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Request:    req,
	}
}

// WAV returns a mono 16-bit PCM WAV file holding n samples of a sawtooth at
// sampleRate.
func WAV(t testing.TB, sampleRate, n int) []byte {
	t.Helper()
	samples := make([]int, n)
	for i := range samples {
		samples[i] = (i%200)*300 - 30000
	}
	data, err := audio.Encode(samples, sampleRate, 16, 1)
	if err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	return data
}

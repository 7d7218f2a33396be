// Package stttest provides fakes for testing speech providers without the
// network.
//
// Server is a fake remote API built on gin. Routes are configured with a
// queue of replies or a handler, and every request is recorded:
//
//	srv := stttest.NewServer(t)
//	srv.Reply(http.MethodPost, "/speech", stttest.JSON(http.StatusOK, map[string]any{"_text": "hi"}))
//	engine, _ := witai.NewEngine(witai.Config{AccessToken: "t", Endpoint: srv.URL("/speech")}, opts)
//	engine.Transcribe(ctx, bytes.NewReader(stttest.WAV(t, 16000, 1600)))
//	if srv.Count(http.MethodPost, "/speech") != 1 { ... }
//
// RoundTripFunc and FailingTransport stand in for http.RoundTripper where a
// server is not needed.
package stttest

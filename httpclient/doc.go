// Package httpclient is the HTTP transport shared by the speech providers.
//
// Every Client has a bounded timeout: zero means DefaultTimeout, never "wait
// forever". Non-2xx responses come back as a *Error alongside the response so
// callers can both classify the failure and log the body. Transport errors
// never carry the request query, where API keys travel.
//
//	client, err := httpclient.New(httpclient.Config{
//	    Timeout: 30 * time.Second,
//	    Headers: map[string]string{"Accept": "application/json"},
//	    Auth:    httpclient.BearerAuth(token),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    URL:    "https://api.wit.ai/speech?v=20150101",
//	    Body:   wavFile,
//	})
package httpclient

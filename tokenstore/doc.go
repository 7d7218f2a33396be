// Package tokenstore persists short-lived provider access tokens so that
// several processes, or a restarted one, can reuse a token instead of
// performing a fresh credential exchange.
//
// MemoryStore keeps tokens in process; RedisStore shares them through Redis.
// Both honour a per-token TTL, normally the expires_in value returned by the
// token endpoint.
package tokenstore

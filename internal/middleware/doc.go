// Package middleware wraps the public router with request instrumentation:
// request ids, one structured log line per request and metric events.
package middleware

// Package httpserver runs an http.Handler behind a validated address with
// conservative timeouts and bounded graceful shutdown.
package httpserver

// Package handler implements the public HTTP endpoints on top of net/http.
// The handlers are shared by the stdlib and chi engines.
package handler

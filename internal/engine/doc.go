// Package engine selects the HTTP runtime that drives the service. The kind
// is chosen once at startup; request handlers never inspect it. Only the echo
// engine is accelerated, which is what tags the root response.
package engine

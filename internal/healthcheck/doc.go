// Package healthcheck probes the service's own /health endpoint. Probe runs a
// single check for container health commands; Watch polls periodically and
// reports up/down transitions.
package healthcheck

package hostinfo

import (
	"errors"
	"fmt"
	"os"
)

// Marker prefixes the host name when the process is served by the
// accelerated engine. Kept verbatim.
const Marker = "D0001 0004 (FROM ACTION)"

// StatusHealthy is the only status the health endpoint ever reports.
const StatusHealthy = "healthy"

var errEmptyHostname = errors.New("empty hostname")

// Lookup returns the name of the current machine.
type Lookup func() (string, error)

// ResolutionError reports that the operating system could not provide a
// host name.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve hostname: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Health is the body of the health endpoint.
type Health struct {
	Status string `json:"status"`
}

// Healthy returns the constant health record.
func Healthy() Health {
	return Health{Status: StatusHealthy}
}

// Responder produces the root response. The tagged flag is fixed at
// construction from the engine the process was started with.
type Responder struct {
	tagged bool
	lookup Lookup
}

// NewResponder returns a Responder. A nil lookup falls back to os.Hostname.
func NewResponder(tagged bool, lookup Lookup) *Responder {
	if lookup == nil {
		lookup = os.Hostname
	}

	return &Responder{
		tagged: tagged,
		lookup: lookup,
	}
}

// Tagged reports whether root responses carry the Marker prefix.
func (r *Responder) Tagged() bool {
	return r.tagged
}

// Root resolves the host name and formats the root response.
// The host name is looked up on every call.
func (r *Responder) Root() (string, error) {
	hostname, err := r.lookup()
	if err != nil {
		return "", &ResolutionError{Err: err}
	}

	if hostname == "" {
		return "", &ResolutionError{Err: errEmptyHostname}
	}

	if r.tagged {
		return Marker + ": " + hostname, nil
	}

	return hostname, nil
}

// Package hostinfo builds the two public response bodies of the service:
// the host name greeting served on "/" and the static health record served
// on "/health".
package hostinfo

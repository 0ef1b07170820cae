package engine

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

type Kind string

const (
	KindStdlib Kind = "stdlib"
	KindChi    Kind = "chi"
	KindEcho   Kind = "echo"
)

// Kinds lists every supported engine, default first.
func Kinds() []Kind {
	return []Kind{KindStdlib, KindChi, KindEcho}
}

// Parse maps a configuration value to a Kind.
func Parse(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, k := range Kinds() {
		if k == kind {
			return k, nil
		}
	}

	return "", fmt.Errorf("unknown engine %q", name)
}

// Accelerated reports whether the kind is the high-performance engine.
func (k Kind) Accelerated() bool {
	return k == KindEcho
}

func (k Kind) String() string {
	return string(k)
}

// New builds the public router for kind. The responder must have been
// created with kind.Accelerated().
func New(kind Kind, responder *hostinfo.Responder, logger *slog.Logger) (http.Handler, error) {
	switch kind {
	case KindStdlib:
		return newStdlib(responder, logger), nil
	case KindChi:
		return newChi(responder, logger), nil
	case KindEcho:
		return newEcho(responder, logger), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", string(kind))
	}
}

package edit

import (
	"fmt"
	"strings"

	"github.com/CornHusker89/MagicStorage/internal/errors"
)

// FailurePolicy decides what happens when a patch reports failure.
type FailurePolicy int

const (
	// Suppress logs and records the failure and lets the method compile
	// unpatched.
	Suppress FailurePolicy = iota
	// Propagate returns the failure to the host, failing the compile.
	Propagate
)

// String returns the config spelling of the policy.
func (p FailurePolicy) String() string {
	switch p {
	case Suppress:
		return "suppress"
	case Propagate:
		return "propagate"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParseFailurePolicy parses "suppress" or "propagate", ignoring case.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suppress":
		return Suppress, nil
	case "propagate":
		return Propagate, nil
	default:
		return Suppress, errors.NewValidationError("must be suppress or propagate").
			WithField("patching.failure_policy").
			WithValue(s)
	}
}

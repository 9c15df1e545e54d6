package logging

import "strings"

// ComponentNamespace marks messages that originate inside the framework's
// own components. Every Component logger stamps it; the interceptor keys
// off it.
const ComponentNamespace = "pnaf/"

// IsInternal reports whether a warning originated inside the framework.
// This predicate is the single place origin classification happens; call
// sites must not reimplement it.
func IsInternal(message string) bool {
	return strings.Contains(message, ComponentNamespace)
}

package instance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Loader registers a capture file for processing and returns the instance
// name derived from it. The packet-level registration itself is an
// external collaborator; the orchestrator only consumes the name.
type Loader interface {
	Register(capPath string) (string, error)
}

// CaptureLoader is the default Loader: it verifies the capture exists and
// names the instance after the capture's base name, falling back to a
// generated identifier when the base name yields nothing usable.
type CaptureLoader struct{}

// Register implements Loader.
func (CaptureLoader) Register(capPath string) (string, error) {
	info, err := os.Stat(capPath)
	if err != nil {
		return "", fmt.Errorf("capture file not readable: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("capture path %s is a directory", capPath)
	}

	base := filepath.Base(capPath)
	name := sanitizeName(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "capture-" + uuid.NewString()[:8]
	}
	return name, nil
}

// sanitizeName keeps the instance name filesystem- and URL-safe: anything
// outside [A-Za-z0-9._-] becomes an underscore.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}

// Package instance derives one audit run's identity: the instance name,
// the raw-log directory holding tool-native output, and the JSON directory
// the normalized data is written to. Locating computes paths only;
// directory creation belongs to the dispatch stage.
package instance

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/netklass/pnaf/config"
)

// ErrInvalidInstanceDir is returned when no instance name can be derived
// from the supplied directory path. Hard precondition: the run must not
// proceed to dispatch.
var ErrInvalidInstanceDir = errors.New("invalid instance directory")

// Instance ties one run's input to a named output location. Computed once
// from RunOptions and never mutated afterward.
type Instance struct {
	Name      string
	RawLogDir string
	JSONDir   string
}

// Locate resolves the Instance for the run's input mode.
//
// Capture-file mode registers the capture through the loader. An explicit
// log_dir selects the flat layout (raw logs in log_dir, JSON in
// log_dir/json); otherwise the layout nests under the configured roots,
// keyed by instance name.
//
// Instance-directory mode uses the supplied directory as the raw-log
// source. An explicit log_dir is used directly as the JSON target;
// otherwise the name derives from the final path component and the JSON
// directory nests under the web root.
func Locate(opts *config.RunOptions, loader Loader) (Instance, error) {
	if opts.CaptureMode() {
		return locateCapture(opts, loader)
	}
	return locateInstanceDir(opts)
}

func locateCapture(opts *config.RunOptions, loader Loader) (Instance, error) {
	name, err := loader.Register(opts.CapFile)
	if err != nil {
		return Instance{}, fmt.Errorf("registering capture %s: %w", opts.CapFile, err)
	}

	if opts.LogDir != "" {
		return Instance{
			Name:      name,
			RawLogDir: opts.LogDir,
			JSONDir:   filepath.Join(opts.LogDir, "json"),
		}, nil
	}
	return Instance{
		Name:      name,
		RawLogDir: filepath.Join(opts.LogRoot, name),
		JSONDir:   filepath.Join(opts.WebRoot, name, "json"),
	}, nil
}

func locateInstanceDir(opts *config.RunOptions) (Instance, error) {
	if opts.LogDir != "" {
		// Name derivation is not required here; keep it best-effort for
		// diagnostics.
		return Instance{
			Name:      deriveName(opts.InstanceDir),
			RawLogDir: opts.InstanceDir,
			JSONDir:   opts.LogDir,
		}, nil
	}

	name := deriveName(opts.InstanceDir)
	if name == "" {
		return Instance{}, fmt.Errorf("%w: no instance name derivable from %q", ErrInvalidInstanceDir, opts.InstanceDir)
	}
	return Instance{
		Name:      name,
		RawLogDir: opts.InstanceDir,
		JSONDir:   filepath.Join(opts.WebRoot, name, "json"),
	}, nil
}

// deriveName strips trailing path separators and returns the final path
// component, or "" when the path yields none (empty, root, or malformed).
func deriveName(path string) string {
	trimmed := strings.TrimRight(path, "/"+string(filepath.Separator))
	if trimmed == "" {
		return ""
	}
	name := filepath.Base(trimmed)
	if name == "." || name == ".." || name == "/" || name == string(filepath.Separator) {
		return ""
	}
	return name
}

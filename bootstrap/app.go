// Package bootstrap assembles one audit run: configuration resolution,
// logger construction, instance location, parser selection, and the single
// dispatch into the processing stage. Stages run to completion in that
// order; there is no concurrency at this level.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/netklass/pnaf/config"
	"github.com/netklass/pnaf/dispatch"
	"github.com/netklass/pnaf/instance"
	"github.com/netklass/pnaf/logging"
	"github.com/netklass/pnaf/metrics"
	"github.com/netklass/pnaf/parser"
	"github.com/netklass/pnaf/processing"
)

// App holds the components of one orchestrator invocation.
type App struct {
	Options *config.RunOptions
	Logger  *logging.Logger

	// Collaborator boundaries, replaceable in tests.
	Loader    instance.Loader
	Processor dispatch.Processor
}

// NewApp resolves configuration and builds the logger and default
// collaborators. Configuration errors are returned unwrapped enough for
// the caller to map them to exit codes.
func NewApp(confFile string, flags *pflag.FlagSet) (*App, error) {
	opts, err := config.Load(confFile, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to resolve configuration: %v\n", err)
		return nil, err
	}

	// Best effort; the logger degrades to stderr if the sink stays
	// unwritable.
	_ = os.MkdirAll(filepath.Dir(opts.LogFile), 0o755)

	log := logging.New(logging.Options{LogFile: opts.LogFile, Debug: opts.Debug})

	slog := log.Component("config")
	for _, w := range opts.Warnings {
		slog.Warnw("Configuration degraded", "warning", w)
	}
	if opts.Debug {
		slog.Debugf("resolved options:\n%s", opts.DebugDump())
	}

	return &App{
		Options:   opts,
		Logger:    log,
		Loader:    instance.CaptureLoader{},
		Processor: processing.NewRunner(opts, log),
	}, nil
}

// Run executes the pipeline: locate -> select -> dispatch. Called once per
// process. A panic in the pipeline itself is an internal fault: it is
// logged on the primary sink and surfaces as a failed run, never as a
// successful exit.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Component("bootstrap").Errorw("Pipeline panic", "panic", r)
			err = fmt.Errorf("pipeline panicked: %v", r)
		}
	}()

	mode := "instance_dir"
	if a.Options.CaptureMode() {
		mode = "cap_file"
	}
	metrics.RunsStarted.WithLabelValues(mode).Inc()

	slog := a.Logger.Component("bootstrap")
	slog.Infow("Starting audit run", "mode", mode)

	inst, err := instance.Locate(a.Options, a.Loader)
	if err != nil {
		slog.Errorw("Instance location failed", "error", err)
		return err
	}
	slog.Infow("Instance located",
		"name", inst.Name,
		"raw_log_dir", inst.RawLogDir,
		"json_dir", inst.JSONDir)

	set, err := parser.Select(a.Options.Parsers)
	if err != nil {
		slog.Errorw("Parser selection failed", "error", err)
		return fmt.Errorf("selecting parsers: %w", err)
	}
	slog.Infow("Parser set selected", "parsers", set.Strings())

	return dispatch.New(a.Processor, a.Logger).Run(ctx, inst, set)
}

// Close flushes and closes the log sinks.
func (a *App) Close() {
	if a.Logger != nil {
		a.Logger.Sync()
	}
}

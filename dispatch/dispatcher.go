// Package dispatch hands one located instance and one validated parser set
// to the processing stage. The processing stage is an external
// collaborator; this package owns the call boundary: output layout
// creation, the at-most-once guarantee, panic containment, and
// failure propagation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/netklass/pnaf/instance"
	"github.com/netklass/pnaf/logging"
	"github.com/netklass/pnaf/metrics"
	"github.com/netklass/pnaf/parser"
)

// ErrDispatchFailed wraps processing-stage failures. The orchestrator does
// not retry; the error is propagated for top-level logging only.
var ErrDispatchFailed = errors.New("dispatch failed")

// Processor is the processing-stage collaborator: it runs the selected
// parsers over the raw logs and writes normalized output to the JSON
// directory. One blocking call per run; internal parallelism is the
// collaborator's concern.
type Processor interface {
	Process(ctx context.Context, rawLogDir string, parsers parser.Set, jsonOutDir string) error
}

// Dispatcher performs the single processing call of one run.
type Dispatcher struct {
	proc       Processor
	log        *logging.Logger
	slog       *zap.SugaredLogger
	dispatched bool
}

// New creates a Dispatcher around the given collaborator.
func New(proc Processor, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		proc: proc,
		log:  log,
		slog: log.Component("dispatch"),
	}
}

// Run creates the instance output layout and invokes the processing stage
// exactly once. A second call on the same Dispatcher is a programming
// error and fails without touching the collaborator.
func (d *Dispatcher) Run(ctx context.Context, inst instance.Instance, set parser.Set) error {
	if d.dispatched {
		return fmt.Errorf("%w: dispatch already performed for this run", ErrDispatchFailed)
	}
	d.dispatched = true

	if err := createLayout(inst.JSONDir); err != nil {
		return fmt.Errorf("creating output layout under %s: %w", inst.JSONDir, err)
	}

	for _, id := range set {
		metrics.ParsersSelected.WithLabelValues(id.String()).Inc()
	}

	d.slog.Infow("Dispatching to processing stage",
		"instance", inst.Name,
		"raw_log_dir", inst.RawLogDir,
		"json_dir", inst.JSONDir,
		"parsers", set.Strings())

	start := time.Now()
	err := d.invoke(ctx, inst.RawLogDir, set, inst.JSONDir)
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Dispatches.WithLabelValues("failure").Inc()
		d.slog.Errorw("Processing stage failed", "instance", inst.Name, "error", err)
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	metrics.Dispatches.WithLabelValues("success").Inc()
	d.slog.Infow("Processing stage completed", "instance", inst.Name)
	return nil
}

// invoke contains collaborator panics: a panic becomes an external warning
// through the interceptor plus a normal dispatch error, never a crash.
func (d *Dispatcher) invoke(ctx context.Context, rawLogDir string, set parser.Set, jsonOutDir string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.CaptureWarning(fmt.Sprintf("processing stage panic: %v", r))
			err = fmt.Errorf("processing stage panicked: %v", r)
		}
	}()
	return d.proc.Process(ctx, rawLogDir, set, jsonOutDir)
}

// createLayout builds the JSON directory skeleton the downstream
// visualizer consumes.
func createLayout(jsonDir string) error {
	for _, dir := range []string{jsonDir, filepath.Join(jsonDir, SummaryDir), filepath.Join(jsonDir, ViewDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

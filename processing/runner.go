// Package processing bridges the orchestrator to the external analysis
// parsers. Each parser identifier maps to a tool wrapper executable
// (pnaf-parse-<id>) that turns one tool's raw logs into normalized JSON;
// this package only invokes them, their internals are not part of the
// orchestration core.
package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/netklass/pnaf/config"
	"github.com/netklass/pnaf/logging"
	"github.com/netklass/pnaf/parser"
)

// toolPrefix names the wrapper executable for one parser identifier.
const toolPrefix = "pnaf-parse-"

// Runner implements dispatch.Processor by running one wrapper per selected
// parser, sequentially and in set order.
type Runner struct {
	opts *config.RunOptions
	log  *logging.Logger
	slog *zap.SugaredLogger
}

// NewRunner creates a Runner bound to one run's options.
func NewRunner(opts *config.RunOptions, log *logging.Logger) *Runner {
	return &Runner{
		opts: opts,
		log:  log,
		slog: log.Component("processing"),
	}
}

// Process runs every selected parser over the raw logs. A failing parser
// does not stop the others; failures are joined into one error so the
// dispatcher sees a single outcome per run.
func (r *Runner) Process(ctx context.Context, rawLogDir string, parsers parser.Set, jsonOutDir string) error {
	var errs []error
	for _, id := range parsers {
		if err := r.runParser(ctx, id, rawLogDir, jsonOutDir); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) runParser(ctx context.Context, id parser.ID, rawLogDir, jsonOutDir string) error {
	args := []string{"--in", rawLogDir, "--out", jsonOutDir, "--dataset", string(r.opts.OutDataset)}
	if r.opts.Payload {
		args = append(args, "--payload")
	}
	if len(r.opts.HomeNets) > 0 {
		args = append(args, "--home-net", strings.Join(r.opts.HomeNets, ","))
	}
	if r.opts.AuditDict != "" {
		args = append(args, "--audit-dict", r.opts.AuditDict)
	}

	cmd := exec.CommandContext(ctx, toolPrefix+id.String(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.slog.Debugw("Running parser tool", "parser", id.String(), "args", args)
	err := cmd.Run()

	// Tool diagnostics go through the interceptor: wrapper output carries
	// no framework marker, so it lands in the external sink.
	for _, line := range strings.Split(stderr.String(), "\n") {
		if strings.TrimSpace(line) != "" {
			r.log.CaptureWarning(line)
		}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("tool exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("tool not runnable: %w", err)
	}
	return nil
}

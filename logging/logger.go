// Package logging provides the process-wide message sink for the pnaf
// orchestrator: severity-gated component logging to a primary sink, plus an
// interceptor that classifies warnings by origin and routes external noise
// to a secondary sink so it does not pollute the main stream.
//
// Sinks are append-only files written by a single process; concurrent runs
// sharing a log directory are outside the contract and get no multi-process
// safety guarantee.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/netklass/pnaf/metrics"
)

// ExternalSuffix is appended to the primary log file path to derive the
// secondary sink that collects warnings from external dependencies.
const ExternalSuffix = ".external"

// Options controls sink placement and verbosity.
type Options struct {
	// LogFile is the primary sink path. Empty means console only.
	LogFile string
	// Debug lowers the primary severity threshold to debug.
	Debug bool
}

// Logger routes component messages and intercepted warnings. The zero value
// is not usable; construct with New.
type Logger struct {
	primary  *zap.SugaredLogger
	external *zap.SugaredLogger
	files    []*os.File
}

// New builds a Logger from Options. Sink failures never abort construction:
// if a sink cannot be opened the Logger degrades to standard error and
// keeps going.
func New(opts Options) *Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	fileConfig := zap.NewProductionEncoderConfig()
	fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileEncoder := zapcore.NewConsoleEncoder(fileConfig)

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	l := &Logger{}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	}
	if opts.LogFile != "" {
		if f, ok := l.openSink(opts.LogFile); ok {
			cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(f), level))
		}
	}
	l.primary = zap.New(zapcore.NewTee(cores...)).Sugar()

	// The external sink is always-on: external noise is kept out of the
	// main stream but must not be lost.
	externalSink := zapcore.AddSync(os.Stderr)
	if opts.LogFile != "" {
		if f, ok := l.openSink(opts.LogFile + ExternalSuffix); ok {
			externalSink = zapcore.AddSync(f)
		}
	}
	l.external = zap.New(zapcore.NewCore(fileEncoder, externalSink, zapcore.InfoLevel)).Sugar()

	return l
}

// openSink opens an append-only sink file, reporting failure to stderr
// rather than propagating it.
func (l *Logger) openSink(path string) (*os.File, bool) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pnaf: cannot open log sink %s, falling back to stderr: %v\n", path, err)
		return nil, false
	}
	l.files = append(l.files, f)
	return f, true
}

// newWithCores wires explicit cores; used by tests to observe routing.
func newWithCores(primary, external zapcore.Core) *Logger {
	return &Logger{
		primary:  zap.New(primary).Sugar(),
		external: zap.New(external).Sugar(),
	}
}

// Component returns a logger for one orchestrator component, stamped with
// the framework namespace so its messages classify as internal.
func (l *Logger) Component(name string) *zap.SugaredLogger {
	return l.primary.With("component", ComponentNamespace+name)
}

// CaptureWarning is the process-wide warning interceptor. Warnings whose
// text carries the framework component namespace go to the primary sink at
// elevated severity; everything else is tagged as an external warning and
// written to the secondary sink. Never fatal, never returns an error.
func (l *Logger) CaptureWarning(message string) {
	message = sanitizeMessage(message)
	if IsInternal(message) {
		metrics.WarningsCaptured.WithLabelValues("internal").Inc()
		l.primary.Warnw("Internal warning", "message", message)
		return
	}
	metrics.WarningsCaptured.WithLabelValues("external").Inc()
	l.external.Infow("External Warning", "message", message)
}

// Sync flushes buffered entries and closes file sinks. Errors are swallowed:
// logging teardown must never fail the run.
func (l *Logger) Sync() {
	_ = l.primary.Sync()
	_ = l.external.Sync()
	for _, f := range l.files {
		_ = f.Close()
	}
}

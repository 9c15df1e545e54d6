//go:build !windows

package processing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netklass/pnaf/config"
	"github.com/netklass/pnaf/logging"
	"github.com/netklass/pnaf/parser"
)

// installTool drops a fake parser wrapper on PATH.
func installTool(t *testing.T, binDir string, id parser.ID, script string) {
	t.Helper()
	path := filepath.Join(binDir, toolPrefix+id.String())
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
}

func testRunner(t *testing.T, opts *config.RunOptions) (*Runner, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "pnaf.log")
	log := logging.New(logging.Options{LogFile: logFile})
	t.Cleanup(log.Sync)
	return NewRunner(opts, log), logFile
}

func TestProcess_RunsToolPerParser(t *testing.T) {
	binDir := t.TempDir()
	outDir := t.TempDir()
	t.Setenv("PATH", binDir)

	installTool(t, binDir, parser.P0f, `echo "$@" > "$4"/p0f-args`)
	installTool(t, binDir, parser.Bro, `echo "$@" > "$4"/bro-args`)

	opts := &config.RunOptions{OutDataset: config.DatasetAll, Payload: true, HomeNets: []string{"10.0.0.0/8"}}
	runner, _ := testRunner(t, opts)

	err := runner.Process(context.Background(), "/raw/case1", parser.Set{parser.P0f, parser.Bro}, outDir)
	require.NoError(t, err)

	args, readErr := os.ReadFile(filepath.Join(outDir, "p0f-args"))
	require.NoError(t, readErr)
	assert.Contains(t, string(args), "--in /raw/case1")
	assert.Contains(t, string(args), "--dataset all")
	assert.Contains(t, string(args), "--payload")
	assert.Contains(t, string(args), "--home-net 10.0.0.0/8")

	_, readErr = os.ReadFile(filepath.Join(outDir, "bro-args"))
	require.NoError(t, readErr, "every selected parser tool must run")
}

// TestProcess_FailureDoesNotStopOthers: one failing wrapper is joined into
// the run error but the remaining parsers still execute.
func TestProcess_FailureDoesNotStopOthers(t *testing.T) {
	binDir := t.TempDir()
	outDir := t.TempDir()
	t.Setenv("PATH", binDir)

	installTool(t, binDir, parser.P0f, "exit 3")
	installTool(t, binDir, parser.Bro, `echo ok > "$4"/bro-ran`)

	runner, _ := testRunner(t, &config.RunOptions{OutDataset: config.DatasetAll})

	err := runner.Process(context.Background(), "/raw", parser.Set{parser.P0f, parser.Bro}, outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p0f")
	assert.Contains(t, err.Error(), "code 3")

	_, statErr := os.Stat(filepath.Join(outDir, "bro-ran"))
	assert.NoError(t, statErr)
}

func TestProcess_MissingToolReported(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	runner, _ := testRunner(t, &config.RunOptions{OutDataset: config.DatasetAll})

	err := runner.Process(context.Background(), "/raw", parser.Set{parser.Tcpdstat}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tcpdstat")
	assert.Contains(t, err.Error(), "not runnable")
}

// TestProcess_StderrRoutedExternally: wrapper diagnostics carry no
// framework marker and land in the external sink.
func TestProcess_StderrRoutedExternally(t *testing.T) {
	binDir := t.TempDir()
	t.Setenv("PATH", binDir)
	installTool(t, binDir, parser.Httpry, `echo "httpry: malformed request line" >&2`)

	runner, logFile := testRunner(t, &config.RunOptions{OutDataset: config.DatasetAll})

	err := runner.Process(context.Background(), "/raw", parser.Set{parser.Httpry}, t.TempDir())
	require.NoError(t, err)

	external, readErr := os.ReadFile(logFile + logging.ExternalSuffix)
	require.NoError(t, readErr)
	assert.Contains(t, string(external), "malformed request line")
}

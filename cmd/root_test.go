package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netklass/pnaf/config"
)

// TestNewRootCmd_FlagSurface: the documented flags are all present.
func TestNewRootCmd_FlagSurface(t *testing.T) {
	rootCmd := NewRootCmd()

	for _, name := range []string{
		"debug", "conf", "parser", "out_dataset", "home_net", "payload",
		"cap_file", "audit_dict", "instance_dir", "log_dir", "log_file",
	} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestRootCmd_NoInput(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))

	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNoInput)
}

func TestRootCmd_Version(t *testing.T) {
	out := new(bytes.Buffer)
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"--version"})
	rootCmd.SetOut(out)

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), Version)
}

func TestRootCmd_UnknownParser(t *testing.T) {
	capFile := filepath.Join(t.TempDir(), "case.pcap")
	require.NoError(t, os.WriteFile(capFile, []byte{0xd4, 0xc3, 0xb2, 0xa1}, 0o644))

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{
		"--cap_file", capFile,
		"--log_dir", t.TempDir(),
		"--log_file", filepath.Join(t.TempDir(), "pnaf.log"),
		"--parser", "nmap",
	})
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))

	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser")
}

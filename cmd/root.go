// Package cmd provides the command-line interface for the pnaf
// orchestrator.
package cmd

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/netklass/pnaf/bootstrap"
)

// CLI output formatters
var (
	errorColor = color.New(color.FgRed, color.Bold)
	infoColor  = color.New(color.FgCyan)
)

// Version is the build version, overridden at link time.
var Version = "dev"

// NewRootCmd creates the pnaf root command carrying the documented flag
// surface.
func NewRootCmd() *cobra.Command {
	var confFile string

	rootCmd := &cobra.Command{
		Use:   "pnaf",
		Short: "Passive network audit orchestrator",
		Long: `pnaf orchestrates a passive network-audit run: it derives an instance
identity from a packet capture or an existing raw-log directory, selects the
analysis parsers to run, arranges the output layout, and dispatches the
parsers over the input.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.NewApp(confFile, cmd.Flags())
			if err != nil {
				return err
			}
			defer app.Close()

			infoColor.Fprintf(cmd.OutOrStdout(), "pnaf %s\n", Version)
			return app.Run(cmd.Context())
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&confFile, "conf", "", "Config file path")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("parser", "", "Comma-separated parser list (default: documented parser set)")
	flags.String("out_dataset", "all", "Output dataset kind: all or audit")
	flags.String("home_net", "", "Comma-separated home-network CIDR list")
	flags.Bool("payload", false, "Enable payload decoding")
	flags.String("cap_file", "", "Packet capture file to process")
	flags.String("audit_dict", "", "Vulnerability dictionary path for the audit stage")
	flags.String("instance_dir", "", "Existing raw-log directory to process")
	flags.String("log_dir", "", "Explicit output/log directory (flat layout)")
	flags.String("log_file", "", "Primary diagnostic log file")

	return rootCmd
}

// Execute runs the root command and reports failure on stderr.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// Package main is the entry point for the pnaf audit orchestrator.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/netklass/pnaf/cmd"
	"github.com/netklass/pnaf/config"
	"github.com/netklass/pnaf/instance"
)

// Exit codes, part of the CLI contract.
const (
	exitOK          = 0
	exitConfigError = 1
	exitInvalidPath = 2
	exitNoInput     = 3
)

// exitCode maps the error taxonomy to process exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrNoInput):
		return exitNoInput
	case errors.Is(err, instance.ErrInvalidInstanceDir):
		return exitInvalidPath
	default:
		return exitConfigError
	}
}

func main() {
	err := cmd.Execute(context.Background())
	os.Exit(exitCode(err))
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/luulek/packforge/internal/app"
	"github.com/luulek/packforge/internal/cli"
	"github.com/luulek/packforge/internal/hcl"
	"github.com/luulek/packforge/internal/pypi"
)

// main is the entrypoint for the packforge application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// app.NewApp panics on critical config errors; recover into a clean,
	// testable error instead of a crash.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	resolver := pypi.NewClient("")
	defer resolver.Close()

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	forgeApp := app.NewApp(outW, appConfig, loader, app.WithResolver(resolver))

	return forgeApp.Run(context.Background())
}

// Command fop is the demonstration CLI for the file-or-pattern
// pipeline: it lifts positional arguments into Fops, runs one of the
// built-in recipes over them, and renders or persists the result.
//
// Usage:
//
//	fop run [flags] <file-or-pattern>...
//	fop stats [flags] <file-or-pattern>...
//	fop version
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "fop",
		Usage:          "run a file-or-pattern pipeline over CLI arguments",
		Version:        fmt.Sprintf("%s (commit: %s)", version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			runCommand(),
			statsCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		if msg := exitCoder.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(exitCoder.ExitCode())
	}

	fmt.Fprintf(os.Stderr, "fop: %v\n", err)
	os.Exit(1)
}

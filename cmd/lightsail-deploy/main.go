// Package main is the entry point for the lightsail-deploy CLI.
package main

import (
	"errors"
	"os"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/cli"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.Execute(); err != nil {
		var cliErr *output.CLIError
		if errors.As(err, &cliErr) {
			// Commands print structured errors themselves only when they
			// have extra context; the summary always lands on stderr.
			os.Stderr.WriteString("Error: " + cliErr.Summary + "\n")
			if cliErr.Detail != "" {
				os.Stderr.WriteString("  " + cliErr.Detail + "\n")
			}
			if cliErr.Suggestion != "" {
				os.Stderr.WriteString("  Suggestion: " + cliErr.Suggestion + "\n")
			}
			return cliErr.ExitCode
		}
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return output.ExitGeneral
	}
	return output.ExitSuccess
}

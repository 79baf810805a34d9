package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deployconfig"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate an existing deployment descriptor",
	Long: `Parse a descriptor file and run the full consistency check.

All violations are reported, not just the first, so one run shows
everything that needs fixing.

Examples:
  lightsail-deploy validate deployment-nodejs.config.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter()
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return &output.CLIError{
			Summary:  fmt.Sprintf("failed to read %s", path),
			Detail:   err.Error(),
			ExitCode: output.ExitUsageError,
		}
	}

	descriptor, err := deployconfig.Parse(data)
	if err != nil {
		return &output.CLIError{
			Summary:    fmt.Sprintf("%s is not a valid descriptor", path),
			Detail:     err.Error(),
			Suggestion: "Regenerate the file with 'lightsail-deploy generate'",
			ExitCode:   output.ExitSerializationError,
		}
	}

	if violations := deployconfig.Validate(descriptor); len(violations) > 0 {
		printer.Violations(fmt.Sprintf("%s failed validation", path), violations)
		return violationError(fmt.Sprintf("%s is invalid", path), len(violations))
	}

	printer.Success("%s is valid (%s deployment of %s)",
		path, descriptor.Application.Type, descriptor.Application.Name)
	return nil
}

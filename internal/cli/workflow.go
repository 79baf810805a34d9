package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deployconfig"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/workflow"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/configfile"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow <config-file>",
	Short: "Regenerate the trigger workflow from an existing descriptor",
	Long: `Regenerate only the GitHub Actions workflow from a descriptor file.

Use this after editing a descriptor by hand, or when the reusable
workflow reference changed. The descriptor is validated first; the
workflow always references the descriptor's canonical filename.

Examples:
  lightsail-deploy workflow deployment-nodejs.config.yml
  lightsail-deploy workflow deployment-lamp.config.yml --workflow-dir .github/workflows`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	rootCmd.AddCommand(workflowCmd)

	workflowCmd.Flags().String("workflow-dir", "", "workflow output directory (default from config)")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
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

	workflowDir, _ := cmd.Flags().GetString("workflow-dir")
	if workflowDir == "" {
		workflowDir = cfg.Output.WorkflowDir
	}

	writer := configfile.NewWriter(logger)
	workflowPath, err := writer.WriteWorkflow(workflowDir,
		workflow.FromDescriptor(descriptor, cfg.GitHub.WorkflowRef))
	if err != nil {
		return &output.CLIError{
			Summary:  "failed to write workflow",
			Detail:   err.Error(),
			ExitCode: output.ExitSerializationError,
		}
	}

	printer.Success("Wrote %s (reads %s)", workflowPath, descriptor.GitHubActions.ConfigFile)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/compose"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deployconfig"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deps"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/workflow"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/configfile"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/lightsail"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/prompt"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a deployment descriptor and its trigger workflow",
	Long: `Generate a deployment descriptor and the GitHub Actions workflow that
consumes it.

Input is collected interactively, or from LSD_* environment variables when
LSD_APP_TYPE, LSD_APP_NAME, and LSD_INSTANCE_NAME are all set. Environment
mode never substitutes a default for an invalid value; every violation is
reported and nothing is written.

Both files are written atomically: a failed run never leaves a partial
descriptor behind.

Examples:
  lightsail-deploy generate                         # Interactive
  LSD_APP_TYPE=nodejs LSD_APP_NAME=api \
    LSD_INSTANCE_NAME=api-server lightsail-deploy generate
  lightsail-deploy generate --env-file deploy.env   # Seed env mode from a file
  lightsail-deploy generate --compose-file docker-compose.yml`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("env-file", "", "dotenv file to seed environment mode")
	generateCmd.Flags().String("output-dir", "", "descriptor output directory (default from config)")
	generateCmd.Flags().String("workflow-dir", "", "workflow output directory (default from config)")
	generateCmd.Flags().String("compose-file", "", "docker-compose file to preflight (docker type only)")
	generateCmd.Flags().Bool("check-availability", false, "verify blueprint/bundle against the Lightsail API")
	generateCmd.Flags().Bool("skip-workflow", false, "write only the descriptor")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter()
	if err != nil {
		return err
	}

	req, err := collectRequest(cmd, printer)
	if err != nil {
		return err
	}

	if err := preflightCompose(cmd, printer, req); err != nil {
		return err
	}
	if err := preflightAvailability(cmd, printer, req); err != nil {
		return err
	}

	// Pure pipeline: resolve, build, validate. Files are written only
	// after the full descriptor passed validation.
	set, err := deps.Resolve(req)
	if err != nil {
		return &output.CLIError{
			Summary:  "dependency resolution failed",
			Detail:   err.Error(),
			ExitCode: output.ExitGeneral,
		}
	}

	descriptor, err := deployconfig.Build(req, set)
	if err != nil {
		return &output.CLIError{
			Summary:  "descriptor build failed",
			Detail:   err.Error(),
			ExitCode: output.ExitGeneral,
		}
	}

	if violations := deployconfig.Validate(descriptor); len(violations) > 0 {
		printer.Violations("Generated descriptor failed validation", violations)
		return violationError("generated descriptor is invalid", len(violations))
	}

	writer := configfile.NewWriter(logger)

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}
	descriptorPath, err := writer.WriteDescriptor(outputDir, descriptor, deployconfig.EmitOptions{
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return &output.CLIError{
			Summary:  "failed to write descriptor",
			Detail:   err.Error(),
			ExitCode: output.ExitSerializationError,
		}
	}
	printer.Success("Wrote %s", descriptorPath)

	skipWorkflow, _ := cmd.Flags().GetBool("skip-workflow")
	if !skipWorkflow {
		workflowDir, _ := cmd.Flags().GetString("workflow-dir")
		if workflowDir == "" {
			workflowDir = cfg.Output.WorkflowDir
		}
		workflowPath, err := writer.WriteWorkflow(workflowDir,
			workflow.FromDescriptor(descriptor, cfg.GitHub.WorkflowRef))
		if err != nil {
			return &output.CLIError{
				Summary:  "failed to write workflow",
				Detail:   err.Error(),
				ExitCode: output.ExitSerializationError,
			}
		}
		printer.Success("Wrote %s", workflowPath)
	}

	printSummary(printer, descriptor, set)
	return nil
}

// collectRequest gathers the deployment request from the environment or
// interactively, and maps validation violations to a usage error.
func collectRequest(cmd *cobra.Command, printer *output.Printer) (request.DeploymentRequest, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := prompt.Seed(envFile); err != nil {
		return request.DeploymentRequest{}, &output.CLIError{
			Summary:  "failed to load environment file",
			Detail:   err.Error(),
			ExitCode: output.ExitConfigError,
		}
	}

	var req request.DeploymentRequest
	var violations []error
	if prompt.EnvActive() {
		printer.Info("Using environment variables (non-interactive mode)")
		req, violations = prompt.FromEnv()
	} else {
		req, violations = prompt.Interactive()
	}

	if len(violations) > 0 {
		printer.Violations("Invalid deployment request", violations)
		return request.DeploymentRequest{}, violationError("deployment request is invalid", len(violations))
	}
	return req, nil
}

// preflightCompose inspects a docker-compose file for the docker type
// and warns when the chosen bundle is too small for it.
func preflightCompose(cmd *cobra.Command, printer *output.Printer, req request.DeploymentRequest) error {
	composeFile, _ := cmd.Flags().GetString("compose-file")
	if composeFile == "" {
		return nil
	}
	if req.ApplicationType != request.AppTypeDocker {
		return &output.CLIError{
			Summary:    "--compose-file only applies to the docker application type",
			Suggestion: fmt.Sprintf("Remove the flag or set the application type to docker (got %s)", req.ApplicationType),
			ExitCode:   output.ExitUsageError,
		}
	}

	content, err := os.ReadFile(composeFile)
	if err != nil {
		return &output.CLIError{
			Summary:  "failed to read compose file",
			Detail:   err.Error(),
			ExitCode: output.ExitUsageError,
		}
	}

	spec, err := compose.Parse(string(content))
	if err != nil {
		return &output.CLIError{
			Summary:    "compose file is not deployable",
			Detail:     err.Error(),
			Suggestion: "Fix the compose file or deploy without --compose-file",
			ExitCode:   output.ExitUsageError,
		}
	}

	if fit := spec.CheckFit(req.InstanceBundle); !fit.Ok() {
		printer.Warning("Compose services may not fit bundle %s: %s", req.InstanceBundle, fit.Reason)
	} else {
		printer.Info("Compose file OK: %d services fit bundle %s", len(spec.Services), req.InstanceBundle)
	}
	return nil
}

// preflightAvailability checks the chosen blueprint and bundle against
// the live Lightsail API when requested.
func preflightAvailability(cmd *cobra.Command, printer *output.Printer, req request.DeploymentRequest) error {
	check, _ := cmd.Flags().GetBool("check-availability")
	if !check {
		return nil
	}

	ctx := context.Background()
	svc, err := lightsail.NewFromConfig(ctx, awsConfigFor(req.AWSRegion), logger)
	if err != nil {
		return &output.CLIError{
			Summary:  "failed to create Lightsail client",
			Detail:   err.Error(),
			ExitCode: output.ExitCollaboratorError,
		}
	}
	if err := svc.CheckAvailability(ctx, req.OSBlueprint, req.InstanceBundle); err != nil {
		return &output.CLIError{
			Summary:    "blueprint/bundle not available",
			Detail:     err.Error(),
			Suggestion: "Run 'lightsail-deploy list --refresh' to see live availability",
			ExitCode:   output.ExitCollaboratorError,
		}
	}
	printer.Success("Blueprint %s and bundle %s are available in %s",
		req.OSBlueprint, req.InstanceBundle, req.AWSRegion)
	return nil
}

// printSummary reports what was generated.
func printSummary(printer *output.Printer, d deployconfig.Descriptor, set deps.Set) {
	if printer.IsQuiet() {
		return
	}
	printer.Header("Deployment Summary")
	printer.Print("  Application:  %s (%s)", printer.Bold(d.Application.Name), d.Application.Type)
	printer.Print("  Instance:     %s (%s, %s, %s)",
		d.Lightsail.InstanceName, d.AWS.Region, d.Lightsail.Blueprint, d.Lightsail.Bundle)
	printer.Print("  Dependencies: %v", set.Names())
	printer.Print("  Health check: %s:%d%s expecting %q",
		d.Lightsail.InstanceName, d.Monitoring.HealthCheck.Port,
		d.Monitoring.HealthCheck.Path, d.Monitoring.HealthCheck.ExpectedContent)
	printer.Print("")
	printer.Info("Commit both files, then push to %s to deploy", d.GitHubActions.Branch)
}

// Package cli contains all commands of the lightsail-deploy CLI.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/config"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
)

var (
	cfgFile   string
	colorFlag string
	quiet     bool
	cfg       *config.Config
	logger    *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lightsail-deploy",
	Short: "Generate AWS Lightsail deployment configuration",
	Long: `lightsail-deploy generates deployment descriptors and GitHub Actions
workflows for deploying applications to AWS Lightsail.

A descriptor (deployment-<type>.config.yml) describes the target instance,
the dependencies to install, and the operational policy for one application.
The generated workflow deploys on push by delegating to a reusable workflow
that reads the descriptor.

Example usage:
  lightsail-deploy generate              # Interactive generation
  lightsail-deploy list                  # Show supported types, regions, sizes
  lightsail-deploy validate deployment-nodejs.config.yml
  lightsail-deploy setup-oidc --owner me --repo my-app`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .lightsail-deploy.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
}

// initConfig loads the tool configuration and sets up the logger.
func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:  "failed to load configuration",
			Detail:   err.Error(),
			ExitCode: output.ExitConfigError,
		}
	}
	logger = config.SetupLogger(cfg)
	return nil
}

// newPrinter builds the printer from the global flags and config.
func newPrinter() (*output.Printer, error) {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return nil, &output.CLIError{
			Summary:    err.Error(),
			Suggestion: "Use --color auto, always, or never",
			ExitCode:   output.ExitUsageError,
		}
	}
	return output.NewPrinter(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        quiet,
	}), nil
}

// awsConfigFor returns the AWS client configuration with the region
// replaced by the request's region. Credentials and profile still come
// from the tool config.
func awsConfigFor(region string) config.AWSConfig {
	awsCfg := cfg.AWS
	if region != "" {
		awsCfg.Region = region
	}
	return awsCfg
}

// violationError wraps batch validation output in a CLIError after the
// individual violations were already printed.
func violationError(summary string, count int) *output.CLIError {
	return &output.CLIError{
		Summary:  summary,
		Detail:   pluralViolations(count),
		ExitCode: output.ExitUsageError,
	}
}

func pluralViolations(count int) string {
	if count == 1 {
		return "1 violation found"
	}
	return fmt.Sprintf("%d violations found", count)
}

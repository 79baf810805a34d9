package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deployconfig"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/github"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/identity"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/shell/prompt"
)

var setupOIDCCmd = &cobra.Command{
	Use:   "setup-oidc",
	Short: "Create the GitHub Actions OIDC deploy role and record its ARN",
	Long: `Set up keyless deployment authentication.

Ensures the GitHub OIDC identity provider exists in the AWS account,
creates or updates the deploy role with a federated trust policy scoped
to the repository, attaches the managed policies the reusable workflow
needs, and records the role ARN as the repository's AWS_ROLE_ARN
Actions variable.

Safe to re-run: an existing role gets its trust policy refreshed and
the variable is updated in place.

Examples:
  lightsail-deploy setup-oidc --owner acme --repo my-app
  lightsail-deploy setup-oidc --owner acme --repo my-app --trust-scope main_branch_only
  lightsail-deploy setup-oidc --owner acme --repo my-app --dry-run`,
	Args: cobra.NoArgs,
	RunE: runSetupOIDC,
}

func init() {
	rootCmd.AddCommand(setupOIDCCmd)

	setupOIDCCmd.Flags().String("owner", "", "GitHub repository owner (default from config)")
	setupOIDCCmd.Flags().String("repo", "", "GitHub repository name (default from config)")
	setupOIDCCmd.Flags().String("role-name", prompt.DefaultRoleName, "IAM role name to create or update")
	setupOIDCCmd.Flags().String("trust-scope", string(request.TrustScopeAnyBranch),
		"which refs may assume the role: any_branch or main_branch_only")
	setupOIDCCmd.Flags().Bool("dry-run", false, "print what would be done without calling AWS or GitHub")
}

func runSetupOIDC(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter()
	if err != nil {
		return err
	}

	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		owner = cfg.GitHub.Owner
	}
	repo, _ := cmd.Flags().GetString("repo")
	if repo == "" {
		repo = cfg.GitHub.Repo
	}
	if owner == "" || repo == "" {
		return &output.CLIError{
			Summary:    "repository not specified",
			Suggestion: "Pass --owner and --repo, or set github.owner and github.repo in the config file",
			ExitCode:   output.ExitUsageError,
		}
	}

	roleName, _ := cmd.Flags().GetString("role-name")
	scopeValue, _ := cmd.Flags().GetString("trust-scope")
	scope := request.TrustScope(scopeValue)
	if !scope.Valid() {
		return &output.CLIError{
			Summary:    fmt.Sprintf("invalid trust scope %q", scopeValue),
			Suggestion: "Use any_branch or main_branch_only",
			ExitCode:   output.ExitUsageError,
		}
	}

	roleReq := identity.RoleRequest{
		RoleName:   roleName,
		Owner:      owner,
		Repo:       repo,
		TrustScope: scope,
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		printer.Header("Dry Run")
		printer.Info("Would ensure GitHub OIDC provider in account (region %s)", cfg.AWS.Region)
		printer.Info("Would create or update role %s trusted by %s/%s (%s)",
			roleName, owner, repo, scope)
		printer.Info("Would set repository variable %s on %s/%s",
			deployconfig.RoleVariableName, owner, repo)
		return nil
	}

	ctx := context.Background()
	svc, err := identity.NewFromConfig(ctx, cfg.AWS, logger)
	if err != nil {
		return &output.CLIError{
			Summary:  "failed to create AWS clients",
			Detail:   err.Error(),
			ExitCode: output.ExitCollaboratorError,
		}
	}

	result, err := svc.Setup(ctx, roleReq)
	if err != nil {
		return &output.CLIError{
			Summary:    "OIDC setup failed",
			Detail:     err.Error(),
			Suggestion: "Check that the configured AWS credentials can manage IAM",
			ExitCode:   output.ExitCollaboratorError,
		}
	}

	if result.Created {
		printer.Success("Created deploy role %s", result.RoleARN)
	} else {
		printer.Success("Updated deploy role %s", result.RoleARN)
	}

	client := githubClient(printer)
	if err := client.SetRepoVariable(ctx, owner, repo, deployconfig.RoleVariableName, result.RoleARN); err != nil {
		return &output.CLIError{
			Summary: fmt.Sprintf("failed to set %s on %s/%s", deployconfig.RoleVariableName, owner, repo),
			Detail:  err.Error(),
			Suggestion: fmt.Sprintf("Set it manually: gh variable set %s --body %q",
				deployconfig.RoleVariableName, result.RoleARN),
			ExitCode: output.ExitCollaboratorError,
		}
	}
	printer.Success("Recorded %s on %s/%s", deployconfig.RoleVariableName, owner, repo)

	return nil
}

// githubClient builds the API client, or a no-op when no token is
// configured so the AWS half of setup still completes.
func githubClient(printer *output.Printer) github.Client {
	token := os.Getenv(cfg.GitHub.TokenEnv)
	if token == "" {
		printer.Warning("%s is not set; skipping the repository variable update", cfg.GitHub.TokenEnv)
		return github.NewNoopClient(logger)
	}
	return github.NewRESTClient(github.RESTConfig{
		BaseURL: cfg.GitHub.APIURL,
		Token:   token,
	}, logger)
}

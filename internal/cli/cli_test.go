package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/output"
)

// resetFlags clears flag state left behind by earlier executions; flag
// values stick to the shared command tree between runs.
func resetFlags(t *testing.T) {
	t.Helper()
	rootCmd.PersistentFlags().Set("quiet", "false")
	rootCmd.PersistentFlags().Set("color", "auto")
	for name, value := range map[string]string{
		"env-file":           "",
		"output-dir":         "",
		"workflow-dir":       "",
		"compose-file":       "",
		"check-availability": "false",
		"skip-workflow":      "false",
	} {
		generateCmd.Flags().Set(name, value)
	}
	workflowCmd.Flags().Set("workflow-dir", "")
	setupOIDCCmd.Flags().Set("dry-run", "false")
	setupOIDCCmd.Flags().Set("trust-scope", "any_branch")
}

// execute runs the root command with the given args and returns its
// combined output and error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(t)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// envModeVars sets the required trio plus quiet defaults for a nodejs
// generation in env mode.
func envModeVars(t *testing.T) {
	t.Helper()
	t.Setenv("LSD_APP_TYPE", "nodejs")
	t.Setenv("LSD_APP_NAME", "my-api")
	t.Setenv("LSD_INSTANCE_NAME", "my-api-server")
}

// =============================================================================
// Root / Version Tests
// =============================================================================

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "lightsail-deploy")
	assert.Contains(t, out, "generate")
	assert.Contains(t, out, "setup-oidc")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lightsail-deploy")
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	require.Error(t, err)
}

// =============================================================================
// Generate Tests (environment mode)
// =============================================================================

func TestGenerate_EnvMode(t *testing.T) {
	envModeVars(t)
	dir := t.TempDir()

	_, err := execute(t, "generate", "--quiet",
		"--output-dir", dir,
		"--workflow-dir", filepath.Join(dir, "workflows"))
	require.NoError(t, err)

	descriptor, err := os.ReadFile(filepath.Join(dir, "deployment-nodejs.config.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(descriptor), "type: nodejs")
	assert.Contains(t, string(descriptor), "expected_content: Node.js")

	wf, err := os.ReadFile(filepath.Join(dir, "workflows", "deploy-nodejs.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(wf), "config_file: deployment-nodejs.config.yml")
}

func TestGenerate_EnvMode_InvalidType(t *testing.T) {
	envModeVars(t)
	t.Setenv("LSD_APP_TYPE", "cobol")
	dir := t.TempDir()

	_, err := execute(t, "generate", "--quiet", "--output-dir", dir)
	require.Error(t, err)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitUsageError, cliErr.ExitCode)

	// Nothing may be written for an invalid request.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestGenerate_EnvMode_DockerTooSmall(t *testing.T) {
	envModeVars(t)
	t.Setenv("LSD_APP_TYPE", "docker")
	t.Setenv("LSD_INSTANCE_BUNDLE", "nano_3_0")
	dir := t.TempDir()

	_, err := execute(t, "generate", "--quiet", "--output-dir", dir)
	require.Error(t, err)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitUsageError, cliErr.ExitCode)
}

func TestGenerate_ComposeFileRequiresDockerType(t *testing.T) {
	envModeVars(t)
	dir := t.TempDir()
	composePath := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(composePath, []byte("services:\n  web:\n    image: nginx\n"), 0644))

	_, err := execute(t, "generate", "--quiet",
		"--output-dir", dir, "--compose-file", composePath)
	require.Error(t, err)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitUsageError, cliErr.ExitCode)
}

// =============================================================================
// Validate / Workflow Tests
// =============================================================================

func TestValidate_GeneratedDescriptor(t *testing.T) {
	envModeVars(t)
	dir := t.TempDir()

	_, err := execute(t, "generate", "--quiet",
		"--output-dir", dir,
		"--workflow-dir", filepath.Join(dir, "workflows"))
	require.NoError(t, err)

	_, err = execute(t, "validate", filepath.Join(dir, "deployment-nodejs.config.yml"))
	require.NoError(t, err)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitUsageError, cliErr.ExitCode)
}

func TestValidate_Unparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0644))

	_, err := execute(t, "validate", path)
	require.Error(t, err)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitSerializationError, cliErr.ExitCode)
}

func TestWorkflow_FromDescriptor(t *testing.T) {
	envModeVars(t)
	dir := t.TempDir()

	_, err := execute(t, "generate", "--quiet",
		"--output-dir", dir,
		"--workflow-dir", filepath.Join(dir, "workflows"))
	require.NoError(t, err)

	outDir := filepath.Join(dir, "regenerated")
	_, err = execute(t, "workflow",
		filepath.Join(dir, "deployment-nodejs.config.yml"),
		"--workflow-dir", outDir)
	require.NoError(t, err)

	wf, err := os.ReadFile(filepath.Join(outDir, "deploy-nodejs.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(wf), "config_file: deployment-nodejs.config.yml")
}

// =============================================================================
// Setup-OIDC Tests
// =============================================================================

func TestSetupOIDC_DryRun(t *testing.T) {
	_, err := execute(t, "setup-oidc", "--dry-run", "--owner", "acme", "--repo", "widgets")
	require.NoError(t, err)
}

func TestSetupOIDC_MissingRepo(t *testing.T) {
	_, err := execute(t, "setup-oidc", "--owner", "", "--repo", "")
	require.Error(t, err)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitUsageError, cliErr.ExitCode)
}

func TestSetupOIDC_InvalidTrustScope(t *testing.T) {
	_, err := execute(t, "setup-oidc",
		"--owner", "acme", "--repo", "widgets", "--trust-scope", "sometimes")
	require.Error(t, err)

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitUsageError, cliErr.ExitCode)
}

// =============================================================================
// List Tests
// =============================================================================

func TestList_StaticCatalog(t *testing.T) {
	_, err := execute(t, "list", "--quiet")
	require.NoError(t, err)
}

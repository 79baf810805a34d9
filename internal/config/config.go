// Package config loads tool configuration from defaults, an optional
// config file, and LIGHTSAIL_DEPLOY_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all tool configuration.
type Config struct {
	Output OutputConfig `mapstructure:"output"`
	GitHub GitHubConfig `mapstructure:"github"`
	AWS    AWSConfig    `mapstructure:"aws"`
	Log    LogConfig    `mapstructure:"log"`
}

// OutputConfig holds descriptor and workflow output configuration.
type OutputConfig struct {
	// Dir is the directory descriptors are written to.
	Dir string `mapstructure:"dir"`

	// WorkflowDir is the directory workflow documents are written to.
	WorkflowDir string `mapstructure:"workflow_dir"`

	// Colors enables colored terminal output. The --color flag and the
	// NO_COLOR convention both override this.
	Colors bool `mapstructure:"colors"`
}

// GitHubConfig holds GitHub API and workflow configuration.
type GitHubConfig struct {
	// Owner and Repo identify the repository that receives the
	// AWS_ROLE_ARN variable and whose pushes trigger deployment.
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`

	// WorkflowRef is the reusable workflow the generated document calls.
	WorkflowRef string `mapstructure:"workflow_ref"`

	// APIURL is the GitHub REST API base URL. Point it at a GitHub
	// Enterprise host when needed.
	APIURL string `mapstructure:"api_url"`

	// TokenEnv names the environment variable holding the API token.
	TokenEnv string `mapstructure:"token_env"`
}

// AWSConfig holds AWS client configuration.
type AWSConfig struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`

	// Static credentials take precedence over the profile when both
	// are set. Prefer the profile; these exist for CI environments.
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// FullRepo returns the repository in owner/repo format.
func (c GitHubConfig) FullRepo() string {
	return fmt.Sprintf("%s/%s", c.Owner, c.Repo)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// DefaultWorkflowRef is the reusable deployment workflow generated
// documents call unless github.workflow_ref overrides it.
const DefaultWorkflowRef = "naveenraj44125-creator/lightsail-deploy/.github/workflows/deploy.yml@v1"

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.workflow_dir", ".github/workflows")
	v.SetDefault("output.colors", true)
	v.SetDefault("github.owner", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.workflow_ref", DefaultWorkflowRef)
	v.SetDefault("github.api_url", "https://api.github.com")
	v.SetDefault("github.token_env", "GITHUB_TOKEN")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.access_key_id", "")
	v.SetDefault("aws.secret_access_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("LIGHTSAIL_DEPLOY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
// Logs go to stderr; stdout is reserved for command output.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

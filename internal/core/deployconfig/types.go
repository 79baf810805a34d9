// Package deployconfig builds, validates, and serializes deployment
// descriptors. A descriptor is the single artifact the generator
// produces: a YAML document describing how one application is deployed
// to a Lightsail instance.
//
// The package is part of the Functional Core - every function is pure
// and deterministic. Reading and writing descriptor files is the
// shell's job.
package deployconfig

import (
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deps"
)

// Descriptor is the full deployment configuration document. Field order
// matches the section order of the serialized form.
type Descriptor struct {
	AWS           AWSSection           `yaml:"aws"`
	Lightsail     LightsailSection     `yaml:"lightsail"`
	Application   ApplicationSection   `yaml:"application"`
	Dependencies  deps.Set             `yaml:"dependencies"`
	Deployment    DeploymentSection    `yaml:"deployment"`
	GitHubActions GitHubActionsSection `yaml:"github_actions"`
	Monitoring    MonitoringSection    `yaml:"monitoring"`
	Security      SecuritySection      `yaml:"security"`
	Backup        BackupSection        `yaml:"backup"`
}

// AWSSection holds account-level settings.
type AWSSection struct {
	Region string `yaml:"region"`
}

// LightsailSection identifies the target instance.
type LightsailSection struct {
	InstanceName string `yaml:"instance_name"`
	Blueprint    string `yaml:"blueprint"`
	Bundle       string `yaml:"bundle"`
}

// ApplicationSection describes the deployed application itself.
type ApplicationSection struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Port        int               `yaml:"port"`
	Environment map[string]string `yaml:"environment"`
}

// DeploymentSection carries the operational policy for deploy runs.
type DeploymentSection struct {
	ConnectionTimeoutSeconds int `yaml:"connection_timeout_seconds"`
	CommandTimeoutSeconds    int `yaml:"command_timeout_seconds"`
	MaxRetries               int `yaml:"max_retries"`
	SSHRetries               int `yaml:"ssh_retries"`
}

// GitHubActionsSection wires the descriptor to its CI workflow. The
// ConfigFile field must name this descriptor's own file; the workflow
// reads the descriptor through it.
type GitHubActionsSection struct {
	Enabled      bool   `yaml:"enabled"`
	WorkflowFile string `yaml:"workflow_file"`
	ConfigFile   string `yaml:"config_file"`
	Branch       string `yaml:"branch"`
	RoleVariable string `yaml:"role_variable"`
}

// MonitoringSection holds post-deploy health checking.
type MonitoringSection struct {
	HealthCheck HealthCheck `yaml:"health_check"`
}

// HealthCheck probes the application after a deploy. ExpectedContent is
// a marker string the response body must contain.
type HealthCheck struct {
	Path            string `yaml:"path"`
	Port            int    `yaml:"port"`
	ExpectedStatus  int    `yaml:"expected_status"`
	ExpectedContent string `yaml:"expected_content"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	IntervalSeconds int    `yaml:"interval_seconds"`
}

// SecuritySection fixes file ownership and permissions on the instance.
type SecuritySection struct {
	FilePermissions FilePermissions `yaml:"file_permissions"`
	ServiceUser     string          `yaml:"service_user"`
}

// FilePermissions are octal mode strings applied to the deployed tree.
type FilePermissions struct {
	WebRoot string `yaml:"web_root"`
	Files   string `yaml:"files"`
	EnvFile string `yaml:"env_file"`
}

// BackupSection controls instance snapshot retention.
type BackupSection struct {
	Enabled       bool   `yaml:"enabled"`
	RetentionDays int    `yaml:"retention_days"`
	Schedule      string `yaml:"schedule"`
}

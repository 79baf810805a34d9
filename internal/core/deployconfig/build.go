package deployconfig

import (
	"fmt"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deps"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

// Operational policy applied to every descriptor. Command timeouts come
// from the application profile instead because docker deploys need more
// headroom.
const (
	ConnectionTimeoutSeconds   = 120
	MaxRetries                 = 3
	SSHRetries                 = 5
	HealthCheckTimeoutSeconds  = 180
	HealthCheckIntervalSeconds = 10
	BackupRetentionDays        = 7
)

// RoleVariableName is the repository variable the generated workflow
// reads the deploy role ARN from.
const RoleVariableName = "AWS_ROLE_ARN"

// DefaultBranch is the branch the generated workflow deploys from.
const DefaultBranch = "main"

// Build assembles the descriptor for a validated request and its
// resolved dependency set. It is deterministic: equal inputs produce
// equal descriptors.
func Build(req request.DeploymentRequest, set deps.Set) (Descriptor, error) {
	profile, ok := catalog.ProfileFor(string(req.ApplicationType))
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: no profile for application type %q",
			ErrInternalInconsistency, req.ApplicationType)
	}
	if len(set) == 0 {
		return Descriptor{}, fmt.Errorf("%w: empty dependency set", ErrInternalInconsistency)
	}

	appType := string(req.ApplicationType)

	return Descriptor{
		AWS: AWSSection{
			Region: req.AWSRegion,
		},
		Lightsail: LightsailSection{
			InstanceName: req.InstanceName,
			Blueprint:    req.OSBlueprint,
			Bundle:       req.InstanceBundle,
		},
		Application: ApplicationSection{
			Name:        req.ApplicationName,
			Type:        appType,
			Port:        profile.Port,
			Environment: environment(req, profile),
		},
		Dependencies: set,
		Deployment: DeploymentSection{
			ConnectionTimeoutSeconds: ConnectionTimeoutSeconds,
			CommandTimeoutSeconds:    profile.CommandTimeoutSeconds,
			MaxRetries:               MaxRetries,
			SSHRetries:               SSHRetries,
		},
		GitHubActions: GitHubActionsSection{
			Enabled:      true,
			WorkflowFile: WorkflowFileName(appType),
			ConfigFile:   ConfigFileName(appType),
			Branch:       DefaultBranch,
			RoleVariable: RoleVariableName,
		},
		Monitoring: MonitoringSection{
			HealthCheck: HealthCheck{
				Path:            profile.HealthPath,
				Port:            profile.Port,
				ExpectedStatus:  200,
				ExpectedContent: profile.HealthMarker,
				TimeoutSeconds:  HealthCheckTimeoutSeconds,
				IntervalSeconds: HealthCheckIntervalSeconds,
			},
		},
		Security: SecuritySection{
			FilePermissions: FilePermissions{
				WebRoot: "755",
				Files:   "644",
				EnvFile: "600",
			},
			ServiceUser: profile.ServiceUser,
		},
		Backup: BackupSection{
			Enabled:       true,
			RetentionDays: BackupRetentionDays,
			Schedule:      "daily",
		},
	}, nil
}

// environment layers the variable block: the base APP_ENV, then the
// profile's type-specific variables, then database and bucket wiring.
func environment(req request.DeploymentRequest, profile catalog.Profile) map[string]string {
	env := map[string]string{
		"APP_ENV": "production",
	}
	for k, v := range profile.Env {
		env[k] = v
	}

	if req.Database.Kind != request.DatabaseNone {
		host := "localhost"
		if req.Database.External {
			// Placeholder the deploy pipeline substitutes once the RDS
			// endpoint is known.
			host = "RDS_ENDPOINT"
		}
		env["DB_HOST"] = host
		env["DB_PORT"] = databasePort(req.Database.Kind)
		env["DB_NAME"] = req.Database.DatabaseName
		env["DB_USER"] = "admin"
		env["DB_PASSWORD"] = "CHANGE_ME"
	}

	if req.Bucket.Enabled {
		env["BUCKET_NAME"] = req.Bucket.Name
	}

	return env
}

func databasePort(kind request.DatabaseKind) string {
	if kind == request.DatabasePostgreSQL {
		return "5432"
	}
	return "3306"
}

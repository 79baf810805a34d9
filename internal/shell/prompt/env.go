package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

// The required trio that switches the tool into non-interactive mode.
const (
	EnvAppType      = "LSD_APP_TYPE"
	EnvAppName      = "LSD_APP_NAME"
	EnvInstanceName = "LSD_INSTANCE_NAME"
)

// DefaultRoleName is the deploy role name used when none is given.
const DefaultRoleName = "lightsail-deploy-role"

// envRequest mirrors the deployment request as flat LSD_* variables.
// Optional variables carry their documented defaults; a present but
// invalid value is never replaced, it fails validation.
type envRequest struct {
	AppType        string `env:"LSD_APP_TYPE,required,notEmpty"`
	AppName        string `env:"LSD_APP_NAME,required,notEmpty"`
	InstanceName   string `env:"LSD_INSTANCE_NAME,required,notEmpty"`
	AWSRegion      string `env:"LSD_AWS_REGION" envDefault:"us-east-1"`
	OSBlueprint    string `env:"LSD_OS_BLUEPRINT" envDefault:"ubuntu_22_04"`
	InstanceBundle string `env:"LSD_INSTANCE_BUNDLE" envDefault:"small_3_0"`

	DatabaseKind     string `env:"LSD_DATABASE_KIND" envDefault:"none"`
	DatabaseExternal bool   `env:"LSD_DATABASE_EXTERNAL" envDefault:"false"`
	RDSInstanceName  string `env:"LSD_RDS_INSTANCE_NAME"`
	DatabaseName     string `env:"LSD_DATABASE_NAME"`

	BucketEnabled bool   `env:"LSD_BUCKET_ENABLED" envDefault:"false"`
	BucketName    string `env:"LSD_BUCKET_NAME"`
	BucketAccess  string `env:"LSD_BUCKET_ACCESS" envDefault:"read_write"`
	BucketSize    string `env:"LSD_BUCKET_SIZE" envDefault:"small"`

	AuthMode   string `env:"LSD_AUTH_MODE" envDefault:"create_role"`
	RoleARN    string `env:"LSD_ROLE_ARN"`
	RoleName   string `env:"LSD_ROLE_NAME"`
	TrustScope string `env:"LSD_TRUST_SCOPE" envDefault:"any_branch"`
}

func (e envRequest) toRequest() request.DeploymentRequest {
	req := request.DeploymentRequest{
		ApplicationType: request.AppType(e.AppType),
		ApplicationName: e.AppName,
		InstanceName:    e.InstanceName,
		AWSRegion:       e.AWSRegion,
		OSBlueprint:     e.OSBlueprint,
		InstanceBundle:  e.InstanceBundle,
		Database: request.Database{
			Kind:            request.DatabaseKind(e.DatabaseKind),
			External:        e.DatabaseExternal,
			RDSInstanceName: e.RDSInstanceName,
			DatabaseName:    e.DatabaseName,
		},
		Bucket: request.Bucket{
			Enabled:     e.BucketEnabled,
			Name:        e.BucketName,
			AccessLevel: request.BucketAccess(e.BucketAccess),
			SizeTier:    request.BucketSize(e.BucketSize),
		},
		Auth: request.Auth{
			Mode:       request.AuthMode(e.AuthMode),
			RoleARN:    e.RoleARN,
			RoleName:   e.RoleName,
			TrustScope: request.TrustScope(e.TrustScope),
		},
	}

	// A conflicting role ARN or role name stays in place for
	// validation to flag; only the absent role name is filled in.
	switch req.Auth.Mode {
	case request.AuthModeCreateRole:
		if req.Auth.RoleName == "" {
			req.Auth.RoleName = DefaultRoleName
		}
	case request.AuthModeExistingRole:
		// The trust scope only applies to created roles.
		req.Auth.TrustScope = ""
	}

	return req
}

// EnvActive reports whether the required trio is present, which selects
// non-interactive mode.
func EnvActive() bool {
	for _, key := range []string{EnvAppType, EnvAppName, EnvInstanceName} {
		if _, ok := os.LookupEnv(key); !ok {
			return false
		}
	}
	return true
}

// Seed loads a dotenv file into the process environment before env-mode
// detection. An explicitly named file must exist; without a path the
// conventional .env is loaded when present. Variables already set in
// the environment win over the file.
func Seed(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// FromEnv builds a validated request from LSD_* variables. All
// violations are returned in one batch; an invalid value fails rather
// than falling back to a default.
func FromEnv() (request.DeploymentRequest, []error) {
	var raw envRequest
	if err := env.Parse(&raw); err != nil {
		return request.DeploymentRequest{}, splitEnvErrors(err)
	}
	return request.Finalize(raw.toRequest())
}

func splitEnvErrors(err error) []error {
	var agg env.AggregateError
	if errors.As(err, &agg) {
		return agg.Errors
	}
	return []error{err}
}

package request

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRequest returns a request that passes every check.
func validRequest() DeploymentRequest {
	return DeploymentRequest{
		ApplicationType: AppTypeNodeJS,
		ApplicationName: "my-api",
		InstanceName:    "my-api-server",
		AWSRegion:       "us-east-1",
		OSBlueprint:     "ubuntu_22_04",
		InstanceBundle:  "small_3_0",
		Database:        Database{Kind: DatabaseNone},
		Auth: Auth{
			Mode:       AuthModeCreateRole,
			RoleName:   "github-actions-deploy",
			TrustScope: TrustScopeAnyBranch,
		},
	}
}

// fieldsOf extracts the Field of every ValidationError in errs.
func fieldsOf(errs []error) []string {
	var fields []string
	for _, err := range errs {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			fields = append(fields, vErr.Field)
		}
	}
	return fields
}

// =============================================================================
// Validate Tests
// =============================================================================

func TestValidate_ValidRequest(t *testing.T) {
	assert.Empty(t, Validate(validRequest()))
}

func TestValidate_UnknownApplicationType(t *testing.T) {
	req := validRequest()
	req.ApplicationType = "cobol"

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidEnum)
	assert.Contains(t, errs[0].Error(), "applicationType")
	// The error names the full allowed set.
	assert.Contains(t, errs[0].Error(), "nodejs")
	assert.Contains(t, errs[0].Error(), "docker")
}

func TestValidate_MissingInstanceName(t *testing.T) {
	req := validRequest()
	req.InstanceName = ""

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingRequired)
	assert.Equal(t, []string{"instanceName"}, fieldsOf(errs))
}

func TestValidate_InvalidInstanceName(t *testing.T) {
	req := validRequest()
	req.InstanceName = "9 bad name!"

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidName)
}

func TestValidate_UnknownRegionBlueprintBundle(t *testing.T) {
	req := validRequest()
	req.AWSRegion = "mars-north-1"
	req.OSBlueprint = "templeos"
	req.InstanceBundle = "mega_9_9"

	errs := Validate(req)
	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrInvalidEnum)
	}
	assert.ElementsMatch(t, []string{"awsRegion", "osBlueprint", "instanceBundle"}, fieldsOf(errs))
}

func TestValidate_DockerUndersizedBundle(t *testing.T) {
	tests := []struct {
		bundle string
		wantOK bool
	}{
		{"nano_3_0", false},
		{"micro_3_0", false},
		{"small_3_0", true},
		{"medium_3_0", true},
	}
	for _, tt := range tests {
		t.Run(tt.bundle, func(t *testing.T) {
			req := validRequest()
			req.ApplicationType = AppTypeDocker
			req.InstanceBundle = tt.bundle

			errs := Validate(req)
			if tt.wantOK {
				assert.Empty(t, errs)
			} else {
				require.Len(t, errs, 1)
				assert.ErrorIs(t, errs[0], ErrInsufficientResources)
				assert.Equal(t, []string{"instanceBundle"}, fieldsOf(errs))
			}
		})
	}
}

func TestValidate_NonDockerAllowsSmallestBundle(t *testing.T) {
	req := validRequest()
	req.InstanceBundle = "nano_3_0"
	assert.Empty(t, Validate(req))
}

func TestValidate_ExternalDatabaseRequiresNames(t *testing.T) {
	req := validRequest()
	req.Database = Database{Kind: DatabasePostgreSQL, External: true}

	errs := Validate(req)
	assert.ElementsMatch(t, []string{"database.databaseName", "database.rdsInstanceName"}, fieldsOf(errs))
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrMissingRequired)
	}
}

func TestValidate_InternalDatabaseRequiresDatabaseName(t *testing.T) {
	req := validRequest()
	req.Database = Database{Kind: DatabaseMySQL}

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.Equal(t, []string{"database.databaseName"}, fieldsOf(errs))

	req.Database.DatabaseName = "appdb"
	assert.Empty(t, Validate(req))
}

func TestValidate_ExternalWithoutKindIsInconsistent(t *testing.T) {
	req := validRequest()
	req.Database = Database{Kind: DatabaseNone, External: true}

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInconsistentInput)
}

func TestValidate_UnknownDatabaseKind(t *testing.T) {
	req := validRequest()
	req.Database.Kind = "oracle"

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidEnum)
	assert.Contains(t, errs[0].Error(), "postgresql")
}

func TestValidate_BucketRules(t *testing.T) {
	tests := []struct {
		name       string
		bucket     Bucket
		wantFields []string
	}{
		{
			name:   "disabled_bucket_is_ignored",
			bucket: Bucket{Enabled: false},
		},
		{
			name:       "enabled_needs_name_and_enums",
			bucket:     Bucket{Enabled: true},
			wantFields: []string{"bucket.name", "bucket.accessLevel", "bucket.sizeTier"},
		},
		{
			name:       "uppercase_name_rejected",
			bucket:     Bucket{Enabled: true, Name: "MyBucket", AccessLevel: BucketAccessReadOnly, SizeTier: BucketSizeSmall},
			wantFields: []string{"bucket.name"},
		},
		{
			name:   "valid_bucket",
			bucket: Bucket{Enabled: true, Name: "my-uploads-01", AccessLevel: BucketAccessReadWrite, SizeTier: BucketSizeMedium},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.Bucket = tt.bucket

			errs := Validate(req)
			assert.ElementsMatch(t, tt.wantFields, fieldsOf(errs))
		})
	}
}

func TestValidate_AuthExistingRole(t *testing.T) {
	req := validRequest()
	req.Auth = Auth{Mode: AuthModeExistingRole, RoleARN: "arn:aws:iam::123456789012:role/deploy"}
	assert.Empty(t, Validate(req))

	req.Auth.RoleARN = "not-an-arn"
	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidName)
}

func TestValidate_AuthBothVariantsPopulated(t *testing.T) {
	req := validRequest()
	req.Auth = Auth{
		Mode:       AuthModeExistingRole,
		RoleARN:    "arn:aws:iam::123456789012:role/deploy",
		RoleName:   "also-set",
		TrustScope: TrustScopeAnyBranch,
	}

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInconsistentInput)
}

func TestValidate_AuthCreateRoleNeedsScope(t *testing.T) {
	req := validRequest()
	req.Auth = Auth{Mode: AuthModeCreateRole, RoleName: "deploy"}

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingRequired)
	assert.Equal(t, []string{"auth.trustScope"}, fieldsOf(errs))
}

func TestValidate_AuthMissingMode(t *testing.T) {
	req := validRequest()
	req.Auth = Auth{}

	errs := Validate(req)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingRequired)
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	// Everything wrong at once: the validator must report the full set.
	req := DeploymentRequest{
		ApplicationType: "cobol",
		AWSRegion:       "mars-north-1",
		Database:        Database{Kind: "oracle"},
		Bucket:          Bucket{Enabled: true},
		Auth:            Auth{Mode: "magic"},
	}

	errs := Validate(req)
	assert.GreaterOrEqual(t, len(errs), 9)
	assert.ElementsMatch(t, []string{
		"applicationType", "applicationName", "instanceName",
		"awsRegion", "osBlueprint", "instanceBundle",
		"database.kind",
		"bucket.name", "bucket.accessLevel", "bucket.sizeTier",
		"auth.mode",
	}, fieldsOf(errs))
}

// =============================================================================
// Normalize Tests
// =============================================================================

func TestNormalize_CanonicalizesCaseAndSpace(t *testing.T) {
	req := DeploymentRequest{
		ApplicationType: " NODEJS ",
		ApplicationName: " my-api ",
		InstanceName:    "my-api-server",
		AWSRegion:       "US-EAST-1",
		OSBlueprint:     "Ubuntu_22_04",
		InstanceBundle:  "SMALL_3_0",
		Auth:            Auth{Mode: "Create_Role", RoleName: "deploy", TrustScope: "Any_Branch"},
	}

	got := Normalize(req)
	assert.Equal(t, AppTypeNodeJS, got.ApplicationType)
	assert.Equal(t, "my-api", got.ApplicationName)
	assert.Equal(t, "us-east-1", got.AWSRegion)
	assert.Equal(t, "ubuntu_22_04", got.OSBlueprint)
	assert.Equal(t, "small_3_0", got.InstanceBundle)
	assert.Equal(t, AuthModeCreateRole, got.Auth.Mode)
	assert.Equal(t, TrustScopeAnyBranch, got.Auth.TrustScope)
}

func TestNormalize_EmptyDatabaseKindMeansNone(t *testing.T) {
	got := Normalize(DeploymentRequest{})
	assert.Equal(t, DatabaseNone, got.Database.Kind)
}

func TestNormalize_DerivesRDSInstanceName(t *testing.T) {
	req := validRequest()
	req.ApplicationType = AppTypePython
	req.Database = Database{Kind: DatabasePostgreSQL, External: true, DatabaseName: "appdb"}

	got := Normalize(req)
	assert.Equal(t, "python-postgresql-db", got.Database.RDSInstanceName)
}

func TestNormalize_KeepsExplicitRDSInstanceName(t *testing.T) {
	req := validRequest()
	req.Database = Database{Kind: DatabaseMySQL, External: true, RDSInstanceName: "prod-db-01", DatabaseName: "appdb"}

	got := Normalize(req)
	assert.Equal(t, "prod-db-01", got.Database.RDSInstanceName)
}

func TestNormalize_NoDerivationForInternalDatabase(t *testing.T) {
	req := validRequest()
	req.Database = Database{Kind: DatabaseMySQL, DatabaseName: "appdb"}

	got := Normalize(req)
	assert.Empty(t, got.Database.RDSInstanceName)
}

// =============================================================================
// Finalize Tests
// =============================================================================

func TestFinalize_ValidRequest(t *testing.T) {
	got, errs := Finalize(validRequest())
	require.Empty(t, errs)
	assert.Equal(t, validRequest(), got)
}

func TestFinalize_NormalizesBeforeValidating(t *testing.T) {
	req := validRequest()
	req.ApplicationType = "NodeJS"

	got, errs := Finalize(req)
	require.Empty(t, errs)
	assert.Equal(t, AppTypeNodeJS, got.ApplicationType)
}

func TestFinalize_InvalidReturnsZeroRequest(t *testing.T) {
	req := validRequest()
	req.InstanceName = ""

	got, errs := Finalize(req)
	assert.NotEmpty(t, errs)
	assert.Equal(t, DeploymentRequest{}, got)
}

package request

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
)

// =============================================================================
// Name Rules
// =============================================================================

var (
	// namePattern covers application and instance names. Lightsail accepts
	// letters, digits, dots, underscores and hyphens, starting with a letter.
	namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]{0,254}$`)

	// bucketNamePattern follows the Lightsail bucket rules: 3-54 lowercase
	// letters, digits and hyphens, starting and ending alphanumeric.
	bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,52}[a-z0-9]$`)

	// roleNamePattern follows the IAM role-name character set.
	roleNamePattern = regexp.MustCompile(`^[A-Za-z0-9+=,.@_-]{1,64}$`)
)

// =============================================================================
// Normalization
// =============================================================================

// Normalize trims whitespace, canonicalizes enum case, and applies the
// documented derivations. It never substitutes a value for an invalid one;
// anything questionable is left in place for Validate to reject.
//
// Derivations:
//   - an empty database kind means DatabaseNone
//   - an external database with no RDS instance name gets the deterministic
//     {applicationType}-{databaseKind}-db name
func Normalize(req DeploymentRequest) DeploymentRequest {
	req.ApplicationType = AppType(strings.ToLower(strings.TrimSpace(string(req.ApplicationType))))
	req.ApplicationName = strings.TrimSpace(req.ApplicationName)
	req.InstanceName = strings.TrimSpace(req.InstanceName)
	req.AWSRegion = strings.ToLower(strings.TrimSpace(req.AWSRegion))
	req.OSBlueprint = strings.ToLower(strings.TrimSpace(req.OSBlueprint))
	req.InstanceBundle = strings.ToLower(strings.TrimSpace(req.InstanceBundle))

	req.Database.Kind = DatabaseKind(strings.ToLower(strings.TrimSpace(string(req.Database.Kind))))
	req.Database.RDSInstanceName = strings.TrimSpace(req.Database.RDSInstanceName)
	req.Database.DatabaseName = strings.TrimSpace(req.Database.DatabaseName)
	if req.Database.Kind == "" {
		req.Database.Kind = DatabaseNone
	}
	if req.Database.External && req.Database.Kind != DatabaseNone && req.Database.RDSInstanceName == "" {
		req.Database.RDSInstanceName = fmt.Sprintf("%s-%s-db", req.ApplicationType, req.Database.Kind)
	}

	req.Bucket.Name = strings.TrimSpace(req.Bucket.Name)
	req.Bucket.AccessLevel = BucketAccess(strings.ToLower(strings.TrimSpace(string(req.Bucket.AccessLevel))))
	req.Bucket.SizeTier = BucketSize(strings.ToLower(strings.TrimSpace(string(req.Bucket.SizeTier))))

	req.Auth.Mode = AuthMode(strings.ToLower(strings.TrimSpace(string(req.Auth.Mode))))
	req.Auth.RoleARN = strings.TrimSpace(req.Auth.RoleARN)
	req.Auth.RoleName = strings.TrimSpace(req.Auth.RoleName)
	req.Auth.TrustScope = TrustScope(strings.ToLower(strings.TrimSpace(string(req.Auth.TrustScope))))

	return req
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every field of a normalized request against the catalog
// allow-lists and cross-field rules. It returns all violations found, not
// just the first.
func Validate(req DeploymentRequest) []error {
	var errs []error

	// Application type
	switch {
	case req.ApplicationType == "":
		errs = append(errs, missingField("applicationType"))
	case !req.ApplicationType.Valid():
		errs = append(errs, invalidEnum("applicationType", string(req.ApplicationType), catalog.AppTypes()))
	}

	// Names
	errs = append(errs, validateName("applicationName", req.ApplicationName)...)
	errs = append(errs, validateName("instanceName", req.InstanceName)...)

	// Catalog allow-lists
	switch {
	case req.AWSRegion == "":
		errs = append(errs, missingField("awsRegion"))
	case catalog.LookupRegion(req.AWSRegion) == nil:
		errs = append(errs, invalidEnum("awsRegion", req.AWSRegion, catalog.RegionIDs()))
	}
	switch {
	case req.OSBlueprint == "":
		errs = append(errs, missingField("osBlueprint"))
	case catalog.LookupBlueprint(req.OSBlueprint) == nil:
		errs = append(errs, invalidEnum("osBlueprint", req.OSBlueprint, catalog.BlueprintIDs()))
	}
	switch {
	case req.InstanceBundle == "":
		errs = append(errs, missingField("instanceBundle"))
	case catalog.LookupBundle(req.InstanceBundle) == nil:
		errs = append(errs, invalidEnum("instanceBundle", req.InstanceBundle, catalog.BundleIDs()))
	default:
		// Bundle exists; enforce the per-type minimum (docker needs small_3_0+).
		if fit := catalog.CheckBundleFit(string(req.ApplicationType), req.InstanceBundle); !fit.Allowed {
			errs = append(errs, NewValidationError("instanceBundle", req.InstanceBundle, fit.Reason, ErrInsufficientResources))
		}
	}

	errs = append(errs, validateDatabase(req.Database)...)
	errs = append(errs, validateBucket(req.Bucket)...)
	errs = append(errs, validateAuth(req.Auth)...)

	return errs
}

// Finalize normalizes and validates a raw request. On success it returns the
// normalized request; on failure it returns every violation found.
func Finalize(req DeploymentRequest) (DeploymentRequest, []error) {
	req = Normalize(req)
	if errs := Validate(req); len(errs) > 0 {
		return DeploymentRequest{}, errs
	}
	return req, nil
}

// =============================================================================
// Field Validators
// =============================================================================

func validateName(field, value string) []error {
	if value == "" {
		return []error{missingField(field)}
	}
	if !namePattern.MatchString(value) {
		return []error{NewValidationError(field, value,
			"must start with a letter and contain only letters, digits, dots, underscores, or hyphens",
			ErrInvalidName)}
	}
	return nil
}

func validateDatabase(db Database) []error {
	var errs []error

	if !db.Kind.Valid() {
		errs = append(errs, invalidEnum("database.kind", string(db.Kind), databaseKindIDs()))
		return errs
	}

	if db.Kind == DatabaseNone {
		if db.External {
			errs = append(errs, NewValidationError("database.external", "true",
				"cannot use an external database without a database kind", ErrInconsistentInput))
		}
		return errs
	}

	if db.DatabaseName == "" {
		errs = append(errs, missingField("database.databaseName"))
	}

	if db.External {
		switch {
		case db.RDSInstanceName == "":
			errs = append(errs, missingField("database.rdsInstanceName"))
		case !namePattern.MatchString(db.RDSInstanceName):
			errs = append(errs, NewValidationError("database.rdsInstanceName", db.RDSInstanceName,
				"must start with a letter and contain only letters, digits, dots, underscores, or hyphens",
				ErrInvalidName))
		}
	}

	return errs
}

func validateBucket(b Bucket) []error {
	if !b.Enabled {
		return nil
	}

	var errs []error

	switch {
	case b.Name == "":
		errs = append(errs, missingField("bucket.name"))
	case !bucketNamePattern.MatchString(b.Name):
		errs = append(errs, NewValidationError("bucket.name", b.Name,
			"must be 3-54 lowercase letters, digits, or hyphens, starting and ending alphanumeric",
			ErrInvalidName))
	}

	if !b.AccessLevel.Valid() {
		errs = append(errs, invalidEnum("bucket.accessLevel", string(b.AccessLevel), bucketAccessIDs()))
	}
	if !b.SizeTier.Valid() {
		errs = append(errs, invalidEnum("bucket.sizeTier", string(b.SizeTier), bucketSizeIDs()))
	}

	return errs
}

func validateAuth(a Auth) []error {
	var errs []error

	switch {
	case a.Mode == "":
		errs = append(errs, missingField("auth.mode"))
		return errs
	case !a.Mode.Valid():
		errs = append(errs, invalidEnum("auth.mode", string(a.Mode), authModeIDs()))
		return errs
	}

	switch a.Mode {
	case AuthModeExistingRole:
		switch {
		case a.RoleARN == "":
			errs = append(errs, missingField("auth.roleArn"))
		case !strings.HasPrefix(a.RoleARN, "arn:") || !strings.Contains(a.RoleARN, ":role/"):
			errs = append(errs, NewValidationError("auth.roleArn", a.RoleARN,
				"must be an IAM role ARN (arn:aws:iam::ACCOUNT:role/NAME)", ErrInvalidName))
		}
		if a.RoleName != "" {
			errs = append(errs, NewValidationError("auth.roleName", a.RoleName,
				"only one auth variant may be populated", ErrInconsistentInput))
		}

	case AuthModeCreateRole:
		switch {
		case a.RoleName == "":
			errs = append(errs, missingField("auth.roleName"))
		case !roleNamePattern.MatchString(a.RoleName):
			errs = append(errs, NewValidationError("auth.roleName", a.RoleName,
				"must be 1-64 IAM role-name characters", ErrInvalidName))
		}
		switch {
		case a.TrustScope == "":
			errs = append(errs, missingField("auth.trustScope"))
		case !a.TrustScope.Valid():
			errs = append(errs, invalidEnum("auth.trustScope", string(a.TrustScope), trustScopeIDs()))
		}
		if a.RoleARN != "" {
			errs = append(errs, NewValidationError("auth.roleArn", a.RoleARN,
				"only one auth variant may be populated", ErrInconsistentInput))
		}
	}

	return errs
}

// =============================================================================
// Allow-List Helpers
// =============================================================================

func databaseKindIDs() []string {
	kinds := DatabaseKinds()
	ids := make([]string, len(kinds))
	for i, k := range kinds {
		ids[i] = string(k)
	}
	return ids
}

func bucketAccessIDs() []string {
	levels := BucketAccessLevels()
	ids := make([]string, len(levels))
	for i, l := range levels {
		ids[i] = string(l)
	}
	return ids
}

func bucketSizeIDs() []string {
	sizes := BucketSizes()
	ids := make([]string, len(sizes))
	for i, s := range sizes {
		ids[i] = string(s)
	}
	return ids
}

func authModeIDs() []string {
	return []string{string(AuthModeExistingRole), string(AuthModeCreateRole)}
}

func trustScopeIDs() []string {
	scopes := TrustScopes()
	ids := make([]string, len(scopes))
	for i, s := range scopes {
		ids[i] = string(s)
	}
	return ids
}

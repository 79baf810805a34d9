// Package request defines the deployment request: the validated user intent
// every generated descriptor is derived from.
// This is part of the Functional Core - all functions are pure with no I/O.
package request

// =============================================================================
// Enum Types
// =============================================================================

// AppType identifies one of the supported application types.
type AppType string

const (
	AppTypeLamp   AppType = "lamp"
	AppTypeNginx  AppType = "nginx"
	AppTypeNodeJS AppType = "nodejs"
	AppTypePython AppType = "python"
	AppTypeReact  AppType = "react"
	AppTypeDocker AppType = "docker"
)

// DatabaseKind identifies the database engine attached to a deployment.
type DatabaseKind string

const (
	DatabaseNone       DatabaseKind = "none"
	DatabaseMySQL      DatabaseKind = "mysql"
	DatabasePostgreSQL DatabaseKind = "postgresql"
)

// BucketAccess is the access level granted to the application on its bucket.
type BucketAccess string

const (
	BucketAccessReadOnly  BucketAccess = "read_only"
	BucketAccessReadWrite BucketAccess = "read_write"
)

// BucketSize is the storage tier of an attached bucket.
type BucketSize string

const (
	BucketSizeSmall  BucketSize = "small"
	BucketSizeMedium BucketSize = "medium"
	BucketSizeLarge  BucketSize = "large"
)

// AuthMode selects how the GitHub Actions deploy role is obtained.
type AuthMode string

const (
	// AuthModeExistingRole reuses an IAM role the user already created.
	AuthModeExistingRole AuthMode = "existing_role"
	// AuthModeCreateRole creates the OIDC deploy role during setup.
	AuthModeCreateRole AuthMode = "create_role"
)

// TrustScope restricts which repository refs may assume the deploy role.
type TrustScope string

const (
	TrustScopeAnyBranch  TrustScope = "any_branch"
	TrustScopeMainBranch TrustScope = "main_branch_only"
)

// =============================================================================
// Request Types
// =============================================================================

// Database describes the optional database attachment.
type Database struct {
	// Kind is the engine, or DatabaseNone for no database.
	Kind DatabaseKind

	// External selects a managed RDS instance instead of an on-instance install.
	External bool

	// RDSInstanceName names the RDS instance when External is true.
	// Derived as {applicationType}-{kind}-db when left empty.
	RDSInstanceName string

	// DatabaseName is the application database name.
	DatabaseName string
}

// Bucket describes the optional object-storage attachment.
type Bucket struct {
	Enabled     bool
	Name        string
	AccessLevel BucketAccess
	SizeTier    BucketSize
}

// Auth describes how the CI deploy role is provided. Exactly one variant
// is populated: RoleARN for AuthModeExistingRole, RoleName plus TrustScope
// for AuthModeCreateRole.
type Auth struct {
	Mode       AuthMode
	RoleARN    string
	RoleName   string
	TrustScope TrustScope
}

// DeploymentRequest is the immutable user intent for one deployment.
// Construct it from collected input, then pass it through Finalize before
// handing it to the resolver and builder.
type DeploymentRequest struct {
	ApplicationType AppType
	ApplicationName string
	InstanceName    string
	AWSRegion       string
	OSBlueprint     string
	InstanceBundle  string
	Database        Database
	Bucket          Bucket
	Auth            Auth
}

// =============================================================================
// Enum Membership
// =============================================================================

// Valid reports whether the application type is a supported enum value.
func (t AppType) Valid() bool {
	switch t {
	case AppTypeLamp, AppTypeNginx, AppTypeNodeJS, AppTypePython, AppTypeReact, AppTypeDocker:
		return true
	}
	return false
}

// Valid reports whether the database kind is a supported enum value.
func (k DatabaseKind) Valid() bool {
	switch k {
	case DatabaseNone, DatabaseMySQL, DatabasePostgreSQL:
		return true
	}
	return false
}

// Valid reports whether the bucket access level is a supported enum value.
func (a BucketAccess) Valid() bool {
	return a == BucketAccessReadOnly || a == BucketAccessReadWrite
}

// Valid reports whether the bucket size tier is a supported enum value.
func (s BucketSize) Valid() bool {
	switch s {
	case BucketSizeSmall, BucketSizeMedium, BucketSizeLarge:
		return true
	}
	return false
}

// Valid reports whether the auth mode is a supported enum value.
func (m AuthMode) Valid() bool {
	return m == AuthModeExistingRole || m == AuthModeCreateRole
}

// Valid reports whether the trust scope is a supported enum value.
func (s TrustScope) Valid() bool {
	return s == TrustScopeAnyBranch || s == TrustScopeMainBranch
}

// DatabaseKinds returns the selectable database kinds.
func DatabaseKinds() []DatabaseKind {
	return []DatabaseKind{DatabaseNone, DatabaseMySQL, DatabasePostgreSQL}
}

// BucketAccessLevels returns the selectable bucket access levels.
func BucketAccessLevels() []BucketAccess {
	return []BucketAccess{BucketAccessReadOnly, BucketAccessReadWrite}
}

// BucketSizes returns the selectable bucket size tiers.
func BucketSizes() []BucketSize {
	return []BucketSize{BucketSizeSmall, BucketSizeMedium, BucketSizeLarge}
}

// TrustScopes returns the selectable trust scopes.
func TrustScopes() []TrustScope {
	return []TrustScope{TrustScopeAnyBranch, TrustScopeMainBranch}
}

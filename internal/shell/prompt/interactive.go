// Package prompt collects deployment input and produces a validated
// request. Two modes: interactive terminal prompts, and a
// non-interactive mode driven by LSD_* environment variables. Both feed
// the same normalization and validation; invalid values always fail
// loudly instead of being replaced with defaults.
package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

/* ===================== Validators ===================== */

var (
	// Lightsail resource names: a letter followed by letters, digits,
	// dots, underscores, or hyphens.
	reName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]{0,254}$`)

	// Bucket names: 3-54 lowercase letters, digits, or hyphens,
	// starting and ending alphanumeric.
	reBucketName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,52}[a-z0-9]$`)

	// IAM role ARNs.
	reRoleARN = regexp.MustCompile(`^arn:aws[a-z-]*:iam::\d{12}:role/.+$`)
)

func nameValidator(label string) survey.Validator {
	return func(ans interface{}) error {
		s := strings.TrimSpace(ans.(string))
		if s == "" {
			return fmt.Errorf("%s is required", label)
		}
		if !reName.MatchString(s) {
			return fmt.Errorf("%s must start with a letter and contain only letters, digits, dots, underscores, or hyphens", label)
		}
		return nil
	}
}

func bucketNameValidator(ans interface{}) error {
	s := strings.TrimSpace(ans.(string))
	if s == "" {
		return errors.New("bucket name is required")
	}
	if !reBucketName.MatchString(s) {
		return errors.New("bucket name must be 3-54 lowercase letters, digits, or hyphens, starting and ending alphanumeric")
	}
	return nil
}

func roleARNValidator(ans interface{}) error {
	s := strings.TrimSpace(ans.(string))
	if s == "" {
		return errors.New("role ARN is required")
	}
	if !reRoleARN.MatchString(s) {
		return errors.New("must be an IAM role ARN (arn:aws:iam::ACCOUNT:role/NAME)")
	}
	return nil
}

/* ===================== Interactive Flow ===================== */

// Interactive collects a deployment request through terminal prompts.
// Every prompt pre-fills its documented default so the user confirms
// rather than discovers it. The collected request passes through the
// same Finalize as the environment mode.
func Interactive() (request.DeploymentRequest, []error) {
	var req request.DeploymentRequest

	for _, ask := range []func(*request.DeploymentRequest) error{
		askApplication,
		askTarget,
		askDatabase,
		askBucket,
		askAuth,
	} {
		if err := ask(&req); err != nil {
			return request.DeploymentRequest{}, []error{err}
		}
	}

	return request.Finalize(req)
}

func askApplication(req *request.DeploymentRequest) error {
	var appType string
	if err := survey.AskOne(&survey.Select{
		Message:     "Application type:",
		Options:     catalog.AppTypes(),
		Default:     string(request.AppTypeNodeJS),
		Description: appTypeDescription,
	}, &appType); err != nil {
		return err
	}
	req.ApplicationType = request.AppType(appType)

	if err := survey.AskOne(&survey.Input{
		Message: "Application name:",
	}, &req.ApplicationName, survey.WithValidator(nameValidator("application name"))); err != nil {
		return err
	}

	return survey.AskOne(&survey.Input{
		Message: "Instance name:",
		Default: defaultInstanceName(req.ApplicationName),
	}, &req.InstanceName, survey.WithValidator(nameValidator("instance name")))
}

func askTarget(req *request.DeploymentRequest) error {
	if err := survey.AskOne(&survey.Select{
		Message:     "AWS region:",
		Options:     catalog.RegionIDs(),
		Default:     catalog.DefaultRegion,
		Description: regionDescription,
	}, &req.AWSRegion); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Select{
		Message:     "OS blueprint:",
		Options:     catalog.BlueprintIDs(),
		Default:     catalog.DefaultBlueprint,
		Description: blueprintDescription,
	}, &req.OSBlueprint); err != nil {
		return err
	}

	// Bundles too small for the chosen type are not offered at all;
	// the docker type starts at small_3_0.
	options := bundleOptions(string(req.ApplicationType))
	defaultBundle := catalog.DefaultBundle
	if len(options) > 0 && !contains(options, defaultBundle) {
		defaultBundle = options[0]
	}
	return survey.AskOne(&survey.Select{
		Message:     "Instance bundle:",
		Options:     options,
		Default:     defaultBundle,
		Description: bundleDescription,
	}, &req.InstanceBundle)
}

func askDatabase(req *request.DeploymentRequest) error {
	var kind string
	if err := survey.AskOne(&survey.Select{
		Message: "Database:",
		Options: enumOptions(request.DatabaseKinds()),
		Default: string(request.DatabaseNone),
	}, &kind); err != nil {
		return err
	}
	req.Database.Kind = request.DatabaseKind(kind)
	if req.Database.Kind == request.DatabaseNone {
		return nil
	}

	if err := survey.AskOne(&survey.Confirm{
		Message: "Use an external managed RDS instance?",
		Default: false,
	}, &req.Database.External); err != nil {
		return err
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Database name:",
		Default: "appdb",
	}, &req.Database.DatabaseName, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if !req.Database.External {
		return nil
	}
	return survey.AskOne(&survey.Input{
		Message: "RDS instance name:",
		Default: fmt.Sprintf("%s-%s-db", req.ApplicationType, kind),
	}, &req.Database.RDSInstanceName, survey.WithValidator(nameValidator("RDS instance name")))
}

func askBucket(req *request.DeploymentRequest) error {
	if err := survey.AskOne(&survey.Confirm{
		Message: "Attach an object-storage bucket?",
		Default: false,
	}, &req.Bucket.Enabled); err != nil {
		return err
	}
	if !req.Bucket.Enabled {
		return nil
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Bucket name:",
	}, &req.Bucket.Name, survey.WithValidator(bucketNameValidator)); err != nil {
		return err
	}

	var access string
	if err := survey.AskOne(&survey.Select{
		Message: "Bucket access level:",
		Options: enumOptions(request.BucketAccessLevels()),
		Default: string(request.BucketAccessReadWrite),
	}, &access); err != nil {
		return err
	}
	req.Bucket.AccessLevel = request.BucketAccess(access)

	var size string
	if err := survey.AskOne(&survey.Select{
		Message: "Bucket size tier:",
		Options: enumOptions(request.BucketSizes()),
		Default: string(request.BucketSizeSmall),
	}, &size); err != nil {
		return err
	}
	req.Bucket.SizeTier = request.BucketSize(size)
	return nil
}

func askAuth(req *request.DeploymentRequest) error {
	var mode string
	if err := survey.AskOne(&survey.Select{
		Message:     "GitHub Actions deploy role:",
		Options:     []string{string(request.AuthModeCreateRole), string(request.AuthModeExistingRole)},
		Default:     string(request.AuthModeCreateRole),
		Description: authModeDescription,
	}, &mode); err != nil {
		return err
	}
	req.Auth.Mode = request.AuthMode(mode)

	if req.Auth.Mode == request.AuthModeExistingRole {
		return survey.AskOne(&survey.Input{
			Message: "IAM role ARN:",
		}, &req.Auth.RoleARN, survey.WithValidator(roleARNValidator))
	}

	if err := survey.AskOne(&survey.Input{
		Message: "Role name to create:",
		Default: DefaultRoleName,
	}, &req.Auth.RoleName, survey.WithValidator(nameValidator("role name"))); err != nil {
		return err
	}

	var scope string
	if err := survey.AskOne(&survey.Select{
		Message:     "Which refs may assume the role?",
		Options:     enumOptions(request.TrustScopes()),
		Default:     string(request.TrustScopeAnyBranch),
		Description: trustScopeDescription,
	}, &scope); err != nil {
		return err
	}
	req.Auth.TrustScope = request.TrustScope(scope)
	return nil
}

/* ===================== Option Helpers ===================== */

// defaultInstanceName derives the pre-filled instance name from the
// application name.
func defaultInstanceName(appName string) string {
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return ""
	}
	return appName + "-server"
}

// bundleOptions returns the bundle IDs large enough for the type.
func bundleOptions(appType string) []string {
	var ids []string
	for _, b := range catalog.Bundles() {
		if catalog.CheckBundleFit(appType, b.ID).Ok() {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

func appTypeDescription(value string, _ int) string {
	if p, ok := catalog.ProfileFor(value); ok {
		return p.Name
	}
	return ""
}

func regionDescription(value string, _ int) string {
	if r := catalog.LookupRegion(value); r != nil {
		return r.Name
	}
	return ""
}

func blueprintDescription(value string, _ int) string {
	if b := catalog.LookupBlueprint(value); b != nil {
		return b.Name
	}
	return ""
}

func bundleDescription(value string, _ int) string {
	if b := catalog.LookupBundle(value); b != nil {
		return fmt.Sprintf("%s, %d GB SSD, $%.0f/mo", b.Name, b.DiskGB, b.PriceMonthly)
	}
	return ""
}

func authModeDescription(value string, _ int) string {
	switch request.AuthMode(value) {
	case request.AuthModeCreateRole:
		return "create an OIDC deploy role in your AWS account"
	case request.AuthModeExistingRole:
		return "reuse an IAM role you already configured"
	}
	return ""
}

func trustScopeDescription(value string, _ int) string {
	switch request.TrustScope(value) {
	case request.TrustScopeAnyBranch:
		return "any branch of the repository"
	case request.TrustScopeMainBranch:
		return "pushes to main only"
	}
	return ""
}

func enumOptions[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func contains(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}

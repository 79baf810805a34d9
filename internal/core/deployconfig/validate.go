package deployconfig

import (
	"fmt"
	"reflect"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deps"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

// Validate checks a descriptor for structural and policy violations.
// It collects every violation instead of stopping at the first, so a
// corrupted file is diagnosed in one pass. Descriptors built by Build
// from a validated request always pass.
func Validate(d Descriptor) []error {
	var violations []error

	profile, hasProfile := validateApplication(d, &violations)
	validateTarget(d, &violations)
	if hasProfile {
		validateDependencies(d, profile, &violations)
	}
	validateMonitoring(d, &violations)
	validateDeployment(d, &violations)
	validateGitHubActions(d, &violations)
	validateSecurity(d, &violations)
	validateBackup(d, &violations)
	validateRoundTrip(d, &violations)

	return violations
}

// validateApplication checks the application section and resolves the
// type's profile for the dependent checks.
func validateApplication(d Descriptor, violations *[]error) (catalog.Profile, bool) {
	app := d.Application

	profile, ok := catalog.ProfileFor(app.Type)
	if !ok {
		*violations = append(*violations, NewDescriptorError("application",
			fmt.Sprintf("unknown application type %q", app.Type), ErrInconsistentDescriptor))
	}
	if app.Name == "" {
		*violations = append(*violations, NewDescriptorError("application",
			"name is required", ErrMissingSection))
	}
	if ok && app.Port != profile.Port {
		*violations = append(*violations, NewDescriptorError("application",
			fmt.Sprintf("port %d does not match the %s application port %d", app.Port, app.Type, profile.Port),
			ErrInconsistentDescriptor))
	}
	if app.Environment["APP_ENV"] == "" {
		*violations = append(*violations, NewDescriptorError("application",
			"environment is missing APP_ENV", ErrMissingSection))
	}
	return profile, ok
}

// validateTarget checks the aws and lightsail sections.
func validateTarget(d Descriptor, violations *[]error) {
	if d.AWS.Region == "" {
		*violations = append(*violations, NewDescriptorError("aws",
			"region is required", ErrMissingSection))
	}
	if d.Lightsail.InstanceName == "" {
		*violations = append(*violations, NewDescriptorError("lightsail",
			"instance_name is required", ErrMissingSection))
	}
	if d.Lightsail.Blueprint == "" {
		*violations = append(*violations, NewDescriptorError("lightsail",
			"blueprint is required", ErrMissingSection))
	}
	if d.Lightsail.Bundle == "" {
		*violations = append(*violations, NewDescriptorError("lightsail",
			"bundle is required", ErrMissingSection))
		return
	}
	if fit := catalog.CheckBundleFit(d.Application.Type, d.Lightsail.Bundle); !fit.Ok() {
		*violations = append(*violations, NewDescriptorError("lightsail",
			fit.Reason, request.ErrInsufficientResources))
	}
}

// validateDependencies checks that the profile's base dependencies,
// git, and the firewall are all present and consistent.
func validateDependencies(d Descriptor, profile catalog.Profile, violations *[]error) {
	set := d.Dependencies
	if len(set) == 0 {
		*violations = append(*violations, NewDescriptorError("dependencies",
			"dependency set is empty", ErrMissingSection))
		return
	}

	for _, name := range profile.Dependencies {
		dep, present := set[name]
		if !present {
			*violations = append(*violations, NewDescriptorError("dependencies",
				fmt.Sprintf("%s entry is required for %s applications", name, profile.Type),
				ErrMissingSection))
			continue
		}
		if !dep.Enabled {
			*violations = append(*violations, NewDescriptorError("dependencies",
				fmt.Sprintf("%s entry must be enabled", name), ErrInconsistentDescriptor))
		}
	}

	if git, present := set["git"]; !present || !git.Enabled {
		*violations = append(*violations, NewDescriptorError("dependencies",
			"git entry must be present and enabled", ErrMissingSection))
	}

	validateFirewall(set, profile, violations)
	validateDatabases(set, violations)
}

func validateFirewall(set deps.Set, profile catalog.Profile, violations *[]error) {
	fw, present := set["firewall"]
	if !present || !fw.Enabled {
		*violations = append(*violations, NewDescriptorError("dependencies",
			"firewall entry must be present and enabled", ErrMissingSection))
		return
	}
	if fw.DefaultPolicy != "deny" {
		*violations = append(*violations, NewDescriptorError("dependencies",
			fmt.Sprintf("firewall default_policy must be deny, got %q", fw.DefaultPolicy),
			ErrInconsistentDescriptor))
	}

	want := []int{22, 80, 443}
	if profile.ExtraPort > 0 {
		want = append(want, profile.ExtraPort)
	}
	open := make(map[int]bool, len(fw.AllowedPorts))
	for _, p := range fw.AllowedPorts {
		open[p] = true
	}
	for _, p := range want {
		if !open[p] {
			*violations = append(*violations, NewDescriptorError("dependencies",
				fmt.Sprintf("firewall must allow port %d", p), ErrInconsistentDescriptor))
		}
	}
}

// validateDatabases checks enabled/external coupling on any database
// entry present in the set.
func validateDatabases(set deps.Set, violations *[]error) {
	for _, kind := range []string{"mysql", "postgresql"} {
		dep, present := set[kind]
		if !present {
			continue
		}
		external := dep.External != nil && *dep.External
		if dep.Enabled == external {
			*violations = append(*violations, NewDescriptorError("dependencies",
				fmt.Sprintf("%s entry must be enabled exactly when it is not external", kind),
				ErrInconsistentDescriptor))
		}
		if external {
			if dep.RDS == nil || dep.RDS.InstanceName == "" || dep.RDS.Region == "" || dep.RDS.MasterDatabase == "" {
				*violations = append(*violations, NewDescriptorError("dependencies",
					fmt.Sprintf("external %s entry requires a complete rds block", kind),
					ErrMissingSection))
			}
		}
	}
}

func validateDeployment(d Descriptor, violations *[]error) {
	dep := d.Deployment
	if dep.ConnectionTimeoutSeconds <= 0 || dep.CommandTimeoutSeconds <= 0 {
		*violations = append(*violations, NewDescriptorError("deployment",
			"timeouts must be positive", ErrInconsistentDescriptor))
	}
	if dep.MaxRetries <= 0 || dep.SSHRetries <= 0 {
		*violations = append(*violations, NewDescriptorError("deployment",
			"retry counts must be positive", ErrInconsistentDescriptor))
	}
}

// validateGitHubActions checks the auth wiring. The config_file value
// is the contract between descriptor and workflow: it must be the
// canonical name for the application type.
func validateGitHubActions(d Descriptor, violations *[]error) {
	gh := d.GitHubActions
	if gh == (GitHubActionsSection{}) {
		*violations = append(*violations, NewDescriptorError("github_actions",
			"section is required", ErrMissingSection))
		return
	}
	if !gh.Enabled {
		return
	}
	if want := ConfigFileName(d.Application.Type); gh.ConfigFile != want {
		*violations = append(*violations, NewDescriptorError("github_actions",
			fmt.Sprintf("config_file must be %q, got %q", want, gh.ConfigFile),
			ErrInconsistentDescriptor))
	}
	if gh.WorkflowFile == "" {
		*violations = append(*violations, NewDescriptorError("github_actions",
			"workflow_file is required", ErrMissingSection))
	}
	if gh.Branch == "" {
		*violations = append(*violations, NewDescriptorError("github_actions",
			"branch is required", ErrMissingSection))
	}
	if gh.RoleVariable != RoleVariableName {
		*violations = append(*violations, NewDescriptorError("github_actions",
			fmt.Sprintf("role_variable must be %q, got %q", RoleVariableName, gh.RoleVariable),
			ErrInconsistentDescriptor))
	}
}

func validateMonitoring(d Descriptor, violations *[]error) {
	hc := d.Monitoring.HealthCheck
	if hc == (HealthCheck{}) {
		*violations = append(*violations, NewDescriptorError("monitoring",
			"health_check is required", ErrMissingSection))
		return
	}
	if hc.Path == "" {
		*violations = append(*violations, NewDescriptorError("monitoring",
			"health_check path is required", ErrMissingSection))
	}
	if hc.Port != d.Application.Port {
		*violations = append(*violations, NewDescriptorError("monitoring",
			fmt.Sprintf("health_check port %d does not match application port %d", hc.Port, d.Application.Port),
			ErrInconsistentDescriptor))
	}
	if hc.ExpectedContent == "" {
		*violations = append(*violations, NewDescriptorError("monitoring",
			"health_check expected_content is required", ErrMissingSection))
	}
	if hc.ExpectedStatus <= 0 || hc.TimeoutSeconds <= 0 || hc.IntervalSeconds <= 0 {
		*violations = append(*violations, NewDescriptorError("monitoring",
			"health_check status, timeout, and interval must be positive", ErrInconsistentDescriptor))
	}
}

func validateSecurity(d Descriptor, violations *[]error) {
	sec := d.Security
	if sec.ServiceUser == "" {
		*violations = append(*violations, NewDescriptorError("security",
			"service_user is required", ErrMissingSection))
	}
	if sec.FilePermissions.WebRoot == "" || sec.FilePermissions.Files == "" || sec.FilePermissions.EnvFile == "" {
		*violations = append(*violations, NewDescriptorError("security",
			"file_permissions must set web_root, files, and env_file", ErrMissingSection))
	}
}

func validateBackup(d Descriptor, violations *[]error) {
	if d.Backup.Enabled && d.Backup.RetentionDays <= 0 {
		*violations = append(*violations, NewDescriptorError("backup",
			"retention_days must be positive when backups are enabled", ErrInconsistentDescriptor))
	}
	if d.Backup.Enabled && d.Backup.Schedule == "" {
		*violations = append(*violations, NewDescriptorError("backup",
			"schedule is required when backups are enabled", ErrMissingSection))
	}
}

// validateRoundTrip serializes the descriptor and parses it back. A
// descriptor that does not survive the round trip must never be
// written to disk.
func validateRoundTrip(d Descriptor, violations *[]error) {
	data, err := Emit(d)
	if err != nil {
		*violations = append(*violations, NewDescriptorError("",
			fmt.Sprintf("descriptor does not serialize: %v", err), ErrSerialization))
		return
	}
	parsed, err := Parse(data)
	if err != nil {
		*violations = append(*violations, NewDescriptorError("",
			fmt.Sprintf("serialized descriptor does not parse: %v", err), ErrSerialization))
		return
	}
	if !reflect.DeepEqual(d, parsed) {
		*violations = append(*violations, NewDescriptorError("",
			"descriptor does not survive a serialization round trip", ErrSerialization))
	}
}

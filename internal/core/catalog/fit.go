package catalog

import "fmt"

// =============================================================================
// Fit Checks
// =============================================================================

// ValidationResult represents the outcome of a catalog fit check.
type ValidationResult struct {
	// Allowed indicates whether the combination is permitted
	Allowed bool

	// Reason explains why the combination was rejected (empty if Allowed is true)
	Reason string
}

// Ok returns true if the check passed.
func (r ValidationResult) Ok() bool {
	return r.Allowed
}

// Err returns the reason as an error if the check failed, nil otherwise.
func (r ValidationResult) Err() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("bundle check failed: %s", r.Reason)
}

// CheckBundleFit checks whether a bundle satisfies the minimum size an
// application type requires. Unknown types and unknown bundles pass here;
// enum membership is validated separately.
func CheckBundleFit(appType, bundleID string) ValidationResult {
	prof, ok := ProfileFor(appType)
	if !ok || prof.MinBundle == "" {
		return ValidationResult{Allowed: true}
	}

	idx := BundleIndex(bundleID)
	min := BundleIndex(prof.MinBundle)
	if idx < 0 || min < 0 {
		return ValidationResult{Allowed: true}
	}

	if idx < min {
		return ValidationResult{
			Allowed: false,
			Reason:  fmt.Sprintf("application type %q requires at least the %s bundle, got %s", appType, prof.MinBundle, bundleID),
		}
	}

	return ValidationResult{Allowed: true}
}

// CheckResourceFit checks whether a bundle can satisfy explicit resource
// requirements (CPU cores, memory, disk). Used by the docker compose
// preflight, where requirements are computed from the compose file.
func CheckResourceFit(bundleID string, cpuCores float64, memoryMB, diskMB int64) ValidationResult {
	bundle := LookupBundle(bundleID)
	if bundle == nil {
		return ValidationResult{Allowed: true}
	}

	if cpuCores > bundle.CPUCores {
		return ValidationResult{
			Allowed: false,
			Reason:  fmt.Sprintf("CPU requirement exceeds bundle %s: %.1f/%.1f cores", bundleID, cpuCores, bundle.CPUCores),
		}
	}

	if memoryMB > bundle.MemoryMB {
		return ValidationResult{
			Allowed: false,
			Reason:  fmt.Sprintf("memory requirement exceeds bundle %s: %d/%d MB", bundleID, memoryMB, bundle.MemoryMB),
		}
	}

	if diskMB > int64(bundle.DiskGB)*1024 {
		return ValidationResult{
			Allowed: false,
			Reason:  fmt.Sprintf("disk requirement exceeds bundle %s: %d/%d MB", bundleID, diskMB, int64(bundle.DiskGB)*1024),
		}
	}

	return ValidationResult{Allowed: true}
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Bundle Fit Tests
// =============================================================================

func TestCheckBundleFit_DockerRejectsTwoSmallestTiers(t *testing.T) {
	for _, bundleID := range []string{"nano_3_0", "micro_3_0"} {
		t.Run(bundleID, func(t *testing.T) {
			result := CheckBundleFit("docker", bundleID)
			assert.False(t, result.Allowed)
			assert.Contains(t, result.Reason, "small_3_0")
			assert.Error(t, result.Err())
		})
	}
}

func TestCheckBundleFit_DockerAllowsMinimumAndAbove(t *testing.T) {
	for _, bundleID := range []string{"small_3_0", "medium_3_0", "large_3_0", "xlarge_3_0", "2xlarge_3_0"} {
		t.Run(bundleID, func(t *testing.T) {
			result := CheckBundleFit("docker", bundleID)
			assert.True(t, result.Allowed)
			assert.Empty(t, result.Reason)
			assert.NoError(t, result.Err())
		})
	}
}

func TestCheckBundleFit_TypesWithoutMinimum(t *testing.T) {
	for _, appType := range []string{"lamp", "nginx", "nodejs", "python", "react"} {
		t.Run(appType, func(t *testing.T) {
			result := CheckBundleFit(appType, "nano_3_0")
			assert.True(t, result.Allowed)
		})
	}
}

func TestCheckBundleFit_UnknownInputsPass(t *testing.T) {
	// Enum membership is validated elsewhere; the fit check stays silent.
	assert.True(t, CheckBundleFit("cobol", "nano_3_0").Allowed)
	assert.True(t, CheckBundleFit("docker", "mega_9_9").Allowed)
}

// =============================================================================
// Resource Fit Tests
// =============================================================================

func TestCheckResourceFit_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		bundleID string
		cpuCores float64
		memoryMB int64
		diskMB   int64
		allowed  bool
	}{
		{"fits_small", "small_3_0", 1.0, 1024, 2048, true},
		{"exact_fit", "small_3_0", 2.0, 2048, 60 * 1024, true},
		{"cpu_exceeded", "small_3_0", 2.5, 512, 1024, false},
		{"memory_exceeded", "nano_3_0", 0.5, 1024, 1024, false},
		{"disk_exceeded", "nano_3_0", 0.5, 256, 64 * 1024, false},
		{"unknown_bundle_passes", "mega_9_9", 64, 1 << 20, 1 << 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckResourceFit(tt.bundleID, tt.cpuCores, tt.memoryMB, tt.diskMB)
			assert.Equal(t, tt.allowed, result.Allowed, result.Reason)
		})
	}
}

func TestCheckResourceFit_ReasonNamesTheBundle(t *testing.T) {
	result := CheckResourceFit("nano_3_0", 0.5, 4096, 0)
	assert.False(t, result.Allowed)
	assert.Contains(t, result.Reason, "nano_3_0")
	assert.Contains(t, result.Reason, "memory")
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Region Catalog Tests
// =============================================================================

func TestRegions_ContainsDefault(t *testing.T) {
	region := LookupRegion(DefaultRegion)
	require.NotNil(t, region)
	assert.Equal(t, "us-east-1", region.ID)
	assert.True(t, region.Available)
}

func TestLookupRegion_Unknown(t *testing.T) {
	assert.Nil(t, LookupRegion("mars-north-1"))
}

func TestRegionIDs_MatchesCatalog(t *testing.T) {
	ids := RegionIDs()
	assert.Len(t, ids, len(Regions()))
	assert.Equal(t, "us-east-1", ids[0])
}

// =============================================================================
// Blueprint Catalog Tests
// =============================================================================

func TestBlueprints_ContainsDefault(t *testing.T) {
	bp := LookupBlueprint(DefaultBlueprint)
	require.NotNil(t, bp)
	assert.Equal(t, "ubuntu_22_04", bp.ID)
}

func TestLookupBlueprint_Unknown(t *testing.T) {
	assert.Nil(t, LookupBlueprint("windows_3_1"))
}

// =============================================================================
// Bundle Catalog Tests
// =============================================================================

func TestBundles_AscendingOrder(t *testing.T) {
	bundles := Bundles()
	require.Len(t, bundles, 7)

	for i := 1; i < len(bundles); i++ {
		assert.Greater(t, bundles[i].MemoryMB, bundles[i-1].MemoryMB,
			"bundle %s should be larger than %s", bundles[i].ID, bundles[i-1].ID)
		assert.Greater(t, bundles[i].PriceMonthly, bundles[i-1].PriceMonthly)
	}
}

func TestBundleIndex_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		bundleID string
		want     int
	}{
		{"smallest", "nano_3_0", 0},
		{"micro", "micro_3_0", 1},
		{"default", "small_3_0", 2},
		{"largest", "2xlarge_3_0", 6},
		{"unknown", "mega_9_9", -1},
		{"empty", "", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BundleIndex(tt.bundleID))
		})
	}
}

func TestLookupBundle_Known(t *testing.T) {
	b := LookupBundle("medium_3_0")
	require.NotNil(t, b)
	assert.Equal(t, int64(4096), b.MemoryMB)
	assert.Equal(t, 80, b.DiskGB)
}

// =============================================================================
// Profile Tests
// =============================================================================

func TestProfiles_AllTypesPresent(t *testing.T) {
	assert.Equal(t, []string{"lamp", "nginx", "nodejs", "python", "react", "docker"}, AppTypes())
}

func TestProfileFor_TableDriven(t *testing.T) {
	tests := []struct {
		appType      string
		dependencies []string
		port         int
		marker       string
		extraPort    int
		serviceUser  string
		timeout      int
	}{
		{"lamp", []string{"apache", "php", "mysql_client"}, 80, "LAMP", 8080, "www-data", 300},
		{"nginx", []string{"nginx"}, 80, "Welcome to nginx", 0, "www-data", 300},
		{"nodejs", []string{"nodejs", "pm2"}, 3000, "Node.js", 3000, "ubuntu", 300},
		{"python", []string{"python", "pip"}, 5000, "Flask", 5000, "ubuntu", 300},
		{"react", []string{"nodejs", "nginx"}, 80, "React App", 0, "www-data", 300},
		{"docker", []string{"docker"}, 80, "Docker", 0, "ubuntu", 600},
	}
	for _, tt := range tests {
		t.Run(tt.appType, func(t *testing.T) {
			prof, ok := ProfileFor(tt.appType)
			require.True(t, ok)
			assert.Equal(t, tt.dependencies, prof.Dependencies)
			assert.Equal(t, tt.port, prof.Port)
			assert.Equal(t, tt.marker, prof.HealthMarker)
			assert.Equal(t, tt.extraPort, prof.ExtraPort)
			assert.Equal(t, tt.serviceUser, prof.ServiceUser)
			assert.Equal(t, tt.timeout, prof.CommandTimeoutSeconds)
		})
	}
}

func TestProfileFor_Unknown(t *testing.T) {
	_, ok := ProfileFor("cobol")
	assert.False(t, ok)
}

func TestProfileFor_DockerMinBundle(t *testing.T) {
	prof, ok := ProfileFor("docker")
	require.True(t, ok)
	assert.Equal(t, "small_3_0", prof.MinBundle)
}

func TestProfileFor_TypeSpecificEnv(t *testing.T) {
	nodejs, _ := ProfileFor("nodejs")
	assert.Equal(t, map[string]string{"PORT": "3000"}, nodejs.Env)

	python, _ := ProfileFor("python")
	assert.Equal(t, map[string]string{"FLASK_APP": "app.py"}, python.Env)

	nginx, _ := ProfileFor("nginx")
	assert.Empty(t, nginx.Env)
}

// =============================================================================
// Runtime Version Tests
// =============================================================================

func TestRuntimeVersion_TableDriven(t *testing.T) {
	tests := []struct {
		dependency string
		want       string
	}{
		{"nodejs", "20"},
		{"php", "8.2"},
		{"python", "3.11"},
		{"mysql", "8.0"},
		{"postgresql", "15"},
		{"git", ""},
		{"firewall", ""},
		{"apache", ""},
	}
	for _, tt := range tests {
		t.Run(tt.dependency, func(t *testing.T) {
			assert.Equal(t, tt.want, RuntimeVersion(tt.dependency))
		})
	}
}

// Package catalog holds the static Lightsail allow-lists: AWS regions, OS
// blueprints, instance bundles, and the per-application-type profiles that
// drive dependency resolution and descriptor defaults.
// This is part of the Functional Core - all functions are pure with no I/O.
package catalog

// Region represents an AWS region where Lightsail is offered.
type Region struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Blueprint represents a Lightsail OS blueprint.
type Blueprint struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Bundle represents a Lightsail instance bundle (size tier).
type Bundle struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CPUCores     float64 `json:"cpu_cores"`
	MemoryMB     int64   `json:"memory_mb"`
	DiskGB       int     `json:"disk_gb"`
	PriceMonthly float64 `json:"price_monthly"`
}

// Defaults offered when the user does not choose otherwise.
const (
	DefaultRegion    = "us-east-1"
	DefaultBlueprint = "ubuntu_22_04"
	DefaultBundle    = "small_3_0"
)

// =============================================================================
// Region Catalog
// =============================================================================

// Regions returns the AWS regions with Lightsail availability.
func Regions() []Region {
	return []Region{
		{ID: "us-east-1", Name: "US East (N. Virginia)", Available: true},
		{ID: "us-east-2", Name: "US East (Ohio)", Available: true},
		{ID: "us-west-2", Name: "US West (Oregon)", Available: true},
		{ID: "eu-west-1", Name: "EU (Ireland)", Available: true},
		{ID: "eu-west-2", Name: "EU (London)", Available: true},
		{ID: "eu-central-1", Name: "EU (Frankfurt)", Available: true},
		{ID: "ap-southeast-1", Name: "Asia Pacific (Singapore)", Available: true},
		{ID: "ap-southeast-2", Name: "Asia Pacific (Sydney)", Available: true},
		{ID: "ap-northeast-1", Name: "Asia Pacific (Tokyo)", Available: true},
		{ID: "ca-central-1", Name: "Canada (Central)", Available: true},
	}
}

// RegionIDs returns the region identifiers in catalog order.
func RegionIDs() []string {
	regions := Regions()
	ids := make([]string, len(regions))
	for i, r := range regions {
		ids[i] = r.ID
	}
	return ids
}

// LookupRegion returns the Region for an ID, or nil if not found.
func LookupRegion(id string) *Region {
	for _, r := range Regions() {
		if r.ID == id {
			return &r
		}
	}
	return nil
}

// =============================================================================
// Blueprint Catalog
// =============================================================================

// Blueprints returns the supported OS blueprints.
func Blueprints() []Blueprint {
	return []Blueprint{
		{ID: "ubuntu_22_04", Name: "Ubuntu 22.04 LTS"},
		{ID: "ubuntu_20_04", Name: "Ubuntu 20.04 LTS"},
		{ID: "debian_12", Name: "Debian 12"},
		{ID: "debian_11", Name: "Debian 11"},
		{ID: "amazon_linux_2023", Name: "Amazon Linux 2023"},
		{ID: "amazon_linux_2", Name: "Amazon Linux 2"},
	}
}

// BlueprintIDs returns the blueprint identifiers in catalog order.
func BlueprintIDs() []string {
	blueprints := Blueprints()
	ids := make([]string, len(blueprints))
	for i, b := range blueprints {
		ids[i] = b.ID
	}
	return ids
}

// LookupBlueprint returns the Blueprint for an ID, or nil if not found.
func LookupBlueprint(id string) *Blueprint {
	for _, b := range Blueprints() {
		if b.ID == id {
			return &b
		}
	}
	return nil
}

// =============================================================================
// Bundle Catalog
// =============================================================================

// Bundles returns the Lightsail instance bundles in ascending size order.
func Bundles() []Bundle {
	return []Bundle{
		{ID: "nano_3_0", Name: "Nano (2 vCPU, 512 MB)", CPUCores: 2, MemoryMB: 512, DiskGB: 20, PriceMonthly: 5},
		{ID: "micro_3_0", Name: "Micro (2 vCPU, 1 GB)", CPUCores: 2, MemoryMB: 1024, DiskGB: 40, PriceMonthly: 7},
		{ID: "small_3_0", Name: "Small (2 vCPU, 2 GB)", CPUCores: 2, MemoryMB: 2048, DiskGB: 60, PriceMonthly: 12},
		{ID: "medium_3_0", Name: "Medium (2 vCPU, 4 GB)", CPUCores: 2, MemoryMB: 4096, DiskGB: 80, PriceMonthly: 24},
		{ID: "large_3_0", Name: "Large (2 vCPU, 8 GB)", CPUCores: 2, MemoryMB: 8192, DiskGB: 160, PriceMonthly: 44},
		{ID: "xlarge_3_0", Name: "XLarge (4 vCPU, 16 GB)", CPUCores: 4, MemoryMB: 16384, DiskGB: 320, PriceMonthly: 84},
		{ID: "2xlarge_3_0", Name: "2XLarge (8 vCPU, 32 GB)", CPUCores: 8, MemoryMB: 32768, DiskGB: 640, PriceMonthly: 164},
	}
}

// BundleIDs returns the bundle identifiers in ascending size order.
func BundleIDs() []string {
	bundles := Bundles()
	ids := make([]string, len(bundles))
	for i, b := range bundles {
		ids[i] = b.ID
	}
	return ids
}

// LookupBundle returns the Bundle for an ID, or nil if not found.
func LookupBundle(id string) *Bundle {
	for _, b := range Bundles() {
		if b.ID == id {
			return &b
		}
	}
	return nil
}

// BundleIndex returns the position of a bundle in the ascending size order,
// or -1 if the bundle is unknown.
func BundleIndex(id string) int {
	for i, b := range Bundles() {
		if b.ID == id {
			return i
		}
	}
	return -1
}

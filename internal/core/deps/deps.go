// Package deps resolves the dependency set for a deployment request.
//
// The resolver expands an application type into the packages, services,
// and infrastructure entries the generated configuration must provision.
// It is part of the Functional Core - pure functions, no I/O.
package deps

import (
	"errors"
	"fmt"
	"sort"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/request"
)

// ErrInternalInconsistency reports a resolver input that validation should
// have rejected. Seeing it means Resolve was called on an unvalidated
// request.
var ErrInternalInconsistency = errors.New("internal inconsistency")

// FirewallBasePorts are open for every deployment regardless of type.
// 22 for SSH, 80 and 443 for web traffic.
var FirewallBasePorts = []int{22, 80, 443}

// Dependency is a single entry in the resolved dependency set. Only the
// fields relevant to the entry's kind are populated; the rest stay at
// their zero value and are omitted from serialized output.
type Dependency struct {
	Enabled       bool       `yaml:"enabled"`
	Version       string     `yaml:"version,omitempty"`
	External      *bool      `yaml:"external,omitempty"`
	RDS           *RDSConfig `yaml:"rds,omitempty"`
	LFS           *bool      `yaml:"lfs,omitempty"`
	DefaultPolicy string     `yaml:"default_policy,omitempty"`
	AllowedPorts  []int      `yaml:"allowed_ports,omitempty,flow"`
	Name          string     `yaml:"name,omitempty"`
	AccessLevel   string     `yaml:"access_level,omitempty"`
	SizeTier      string     `yaml:"size_tier,omitempty"`
}

// RDSConfig points a database dependency at a managed RDS instance
// instead of a locally installed server.
type RDSConfig struct {
	InstanceName   string `yaml:"instance_name"`
	Region         string `yaml:"region"`
	MasterDatabase string `yaml:"master_database"`
}

// Set maps dependency names to their configuration.
type Set map[string]Dependency

// Names returns the dependency names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve expands a validated request into its full dependency set.
//
// Every set contains the application type's base dependencies plus git
// and firewall. Database and bucket entries are added when the request
// asks for them. The firewall entry always opens the base ports and adds
// the type's extra port when it has one.
func Resolve(req request.DeploymentRequest) (Set, error) {
	profile, ok := catalog.ProfileFor(string(req.ApplicationType))
	if !ok {
		return nil, fmt.Errorf("%w: no dependency profile for application type %q",
			ErrInternalInconsistency, req.ApplicationType)
	}

	set := make(Set, len(profile.Dependencies)+4)

	for _, name := range profile.Dependencies {
		set[name] = Dependency{
			Enabled: true,
			Version: catalog.RuntimeVersion(name),
		}
	}

	if req.Database.Kind != request.DatabaseNone {
		dep, err := databaseDependency(req)
		if err != nil {
			return nil, err
		}
		set[string(req.Database.Kind)] = dep
	}

	if req.Bucket.Enabled {
		set["bucket"] = Dependency{
			Enabled:     true,
			Name:        req.Bucket.Name,
			AccessLevel: string(req.Bucket.AccessLevel),
			SizeTier:    string(req.Bucket.SizeTier),
		}
	}

	set["git"] = Dependency{
		Enabled: true,
		LFS:     boolPtr(false),
	}

	set["firewall"] = Dependency{
		Enabled:       true,
		DefaultPolicy: "deny",
		AllowedPorts:  firewallPorts(profile.ExtraPort),
	}

	return set, nil
}

// databaseDependency builds the entry for the requested database kind.
// An external database is disabled locally and carries the RDS pointer;
// an internal one is installed on the instance.
func databaseDependency(req request.DeploymentRequest) (Dependency, error) {
	dep := Dependency{
		Enabled:  !req.Database.External,
		Version:  catalog.RuntimeVersion(string(req.Database.Kind)),
		External: boolPtr(req.Database.External),
	}
	if req.Database.External {
		if req.Database.RDSInstanceName == "" || req.Database.DatabaseName == "" {
			return Dependency{}, fmt.Errorf("%w: external database entry is missing its instance or database name",
				ErrInternalInconsistency)
		}
		dep.RDS = &RDSConfig{
			InstanceName:   req.Database.RDSInstanceName,
			Region:         req.AWSRegion,
			MasterDatabase: req.Database.DatabaseName,
		}
	}
	return dep, nil
}

// firewallPorts returns the sorted port allow-list: the base ports plus
// the type's extra port, deduplicated.
func firewallPorts(extra int) []int {
	ports := make([]int, len(FirewallBasePorts), len(FirewallBasePorts)+1)
	copy(ports, FirewallBasePorts)
	if extra > 0 {
		seen := false
		for _, p := range ports {
			if p == extra {
				seen = true
				break
			}
		}
		if !seen {
			ports = append(ports, extra)
		}
	}
	sort.Ints(ports)
	return ports
}

func boolPtr(b bool) *bool {
	return &b
}

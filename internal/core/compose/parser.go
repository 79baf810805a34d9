package compose

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/catalog"
)

// =============================================================================
// Resource Defaults
// =============================================================================

const (
	// DefaultCPUPerService is assumed for services without a CPU limit.
	DefaultCPUPerService = 0.5
	// DefaultMemoryMBPerService is assumed for services without a
	// memory limit.
	DefaultMemoryMBPerService = 256
	// DefaultDiskMBPerVolume is reserved for each named volume.
	DefaultDiskMBPerVolume = 1024
)

// =============================================================================
// Parser
// =============================================================================

// Parse reads Docker Compose YAML into a Spec. Pure function: the
// content arrives as a string, nothing is read from disk.
func Parse(yamlContent string) (*Spec, error) {
	if strings.TrimSpace(yamlContent) == "" {
		return nil, ErrEmptyInput
	}

	project, err := loadProject(yamlContent)
	if err != nil {
		return nil, err
	}

	if err := checkUnsupportedFeatures(project); err != nil {
		return nil, err
	}
	if len(project.Services) == 0 {
		return nil, ErrNoServices
	}

	spec := &Spec{
		Services: make([]Service, 0, len(project.Services)),
		Volumes:  make([]string, 0, len(project.Volumes)),
	}

	for _, svc := range project.Services {
		converted, err := convertService(svc)
		if err != nil {
			return nil, err
		}
		spec.Services = append(spec.Services, converted)
	}
	// compose-go hands services back in map order.
	sort.Slice(spec.Services, func(i, j int) bool {
		return spec.Services[i].Name < spec.Services[j].Name
	})

	if err := detectCircularDependencies(spec.Services); err != nil {
		return nil, err
	}

	for name := range project.Volumes {
		spec.Volumes = append(spec.Volumes, name)
	}
	sort.Strings(spec.Volumes)

	return spec, nil
}

// loadProject loads the compose project in-memory.
func loadProject(yamlContent string) (*types.Project, error) {
	var dict map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &dict); err != nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	if dict == nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}

	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: []byte(yamlContent),
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName("lightsail-deploy-preflight", false)
		opts.SkipValidation = false
		opts.SkipInterpolation = false
		// In-memory input: nothing to normalize or extend from disk.
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "dependency cycle detected") {
			return nil, NewParseError("", "circular dependency detected", ErrCircularDependency)
		}
		if strings.Contains(errStr, "image") && strings.Contains(errStr, "build") {
			return nil, NewParseError("", "service must have image or build", ErrServiceNoImage)
		}
		return nil, NewParseError("", errStr, ErrInvalidYAML)
	}

	return project, nil
}

// checkUnsupportedFeatures rejects compose features a single Lightsail
// instance cannot honor.
func checkUnsupportedFeatures(project *types.Project) error {
	if len(project.Secrets) > 0 {
		return NewParseError("secrets", "secrets are not supported", ErrUnsupportedFeature)
	}
	if len(project.Configs) > 0 {
		return NewParseError("configs", "configs are not supported", ErrUnsupportedFeature)
	}
	for _, svc := range project.Services {
		if svc.Extends != nil && svc.Extends.File != "" {
			return NewParseError("services."+svc.Name+".extends", "extends is not supported", ErrUnsupportedFeature)
		}
	}
	return nil
}

// convertService reduces a compose-go service to the preflight view.
func convertService(svc types.ServiceConfig) (Service, error) {
	service := Service{
		Name:        svc.Name,
		Image:       svc.Image,
		FromSource:  svc.Build != nil,
		Environment: make(map[string]string),
	}

	if service.Image == "" && !service.FromSource {
		return Service{}, NewParseError("services."+svc.Name, "service must have image or build", ErrServiceNoImage)
	}

	for i, p := range svc.Ports {
		if p.Target == 0 || p.Target > 65535 {
			return Service{}, NewParseError(
				fmt.Sprintf("services.%s.ports[%d]", svc.Name, i),
				"target port must be between 1 and 65535",
				ErrServiceInvalidPort,
			)
		}
		if p.Published == "" {
			continue
		}
		published, err := strconv.ParseUint(p.Published, 10, 32)
		if err != nil || published == 0 || published > 65535 {
			return Service{}, NewParseError(
				fmt.Sprintf("services.%s.ports[%d]", svc.Name, i),
				"published port must be between 1 and 65535",
				ErrServiceInvalidPort,
			)
		}
		service.PublishedPorts = append(service.PublishedPorts, int(published))
	}
	sort.Ints(service.PublishedPorts)

	for k, v := range svc.Environment {
		if v != nil {
			service.Environment[k] = *v
		}
	}

	for dep := range svc.DependsOn {
		service.DependsOn = append(service.DependsOn, dep)
	}
	sort.Strings(service.DependsOn)

	// compose-go's NanoCPUs field actually carries the core count.
	if svc.Deploy != nil && svc.Deploy.Resources.Limits != nil {
		limits := svc.Deploy.Resources.Limits
		service.CPUCores = float64(limits.NanoCPUs)
		service.MemoryMB = int64(limits.MemoryBytes) / (1024 * 1024)
	}

	return service, nil
}

// detectCircularDependencies runs a DFS over depends_on edges.
func detectCircularDependencies(services []Service) error {
	deps := make(map[string][]string)
	for _, svc := range services {
		deps[svc.Name] = svc.DependsOn
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var hasCycle func(node string) bool
	hasCycle = func(node string) bool {
		visited[node] = true
		recStack[node] = true

		for _, dep := range deps[node] {
			if dep == node {
				return true
			}
			if !visited[dep] {
				if hasCycle(dep) {
					return true
				}
			} else if recStack[dep] {
				return true
			}
		}

		recStack[node] = false
		return false
	}

	for _, svc := range services {
		if !visited[svc.Name] {
			if hasCycle(svc.Name) {
				return ErrCircularDependency
			}
		}
	}

	return nil
}

// =============================================================================
// Preflight Calculations
// =============================================================================

// TotalResources sums the declared limits across services, applying the
// per-service defaults where the file declares none, plus disk for each
// named volume.
func (s *Spec) TotalResources() (cpuCores float64, memoryMB, diskMB int64) {
	for _, svc := range s.Services {
		if svc.CPUCores > 0 {
			cpuCores += svc.CPUCores
		} else {
			cpuCores += DefaultCPUPerService
		}
		if svc.MemoryMB > 0 {
			memoryMB += svc.MemoryMB
		} else {
			memoryMB += DefaultMemoryMBPerService
		}
	}
	diskMB = int64(len(s.Volumes)) * DefaultDiskMBPerVolume
	return cpuCores, memoryMB, diskMB
}

// AllPublishedPorts returns the unique host ports the file publishes,
// sorted. The caller cross-checks them against the firewall allow-list.
func (s *Spec) AllPublishedPorts() []int {
	seen := make(map[int]bool)
	var ports []int
	for _, svc := range s.Services {
		for _, p := range svc.PublishedPorts {
			if !seen[p] {
				seen[p] = true
				ports = append(ports, p)
			}
		}
	}
	sort.Ints(ports)
	return ports
}

// CheckFit compares the spec's resource totals against a bundle's
// capacity.
func (s *Spec) CheckFit(bundleID string) catalog.ValidationResult {
	cpu, memoryMB, diskMB := s.TotalResources()
	return catalog.CheckResourceFit(bundleID, cpu, memoryMB, diskMB)
}

// =============================================================================
// Variable Extraction
// =============================================================================

// variablePlaceholderRegex matches ${VAR_NAME} or ${VAR_NAME:-default}
var variablePlaceholderRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-[^}]*)?\}`)

// ExtractVariablesFromYAML returns the unique environment placeholders
// referenced by the raw file, before interpolation resolves them. The
// generator warns about each one so the instance environment can be
// prepared ahead of the first deploy.
func ExtractVariablesFromYAML(yamlContent string) []string {
	seen := make(map[string]bool)
	var vars []string

	matches := variablePlaceholderRegex.FindAllStringSubmatch(yamlContent, -1)
	for _, match := range matches {
		if len(match) >= 2 {
			varName := match[1]
			if !seen[varName] {
				seen[varName] = true
				vars = append(vars, varName)
			}
		}
	}

	return vars
}

package compose

// =============================================================================
// Preflight Types
// =============================================================================

// Spec is the distilled view of a compose file that deployment
// generation cares about: which services run, what they publish, and
// what they cost.
type Spec struct {
	Services []Service `json:"services"`
	Volumes  []string  `json:"volumes,omitempty"`
}

// Service is one service entry. CPUCores and MemoryMB are the declared
// deploy limits; zero means the file declared none and the preflight
// defaults apply.
type Service struct {
	Name           string            `json:"name"`
	Image          string            `json:"image,omitempty"`
	FromSource     bool              `json:"from_source,omitempty"`
	PublishedPorts []int             `json:"published_ports,omitempty"`
	Environment    map[string]string `json:"environment,omitempty"`
	DependsOn      []string          `json:"depends_on,omitempty"`
	CPUCores       float64           `json:"cpu_cores,omitempty"`
	MemoryMB       int64             `json:"memory_mb,omitempty"`
}

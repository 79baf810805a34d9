package catalog

// =============================================================================
// Application Profiles
// =============================================================================

// Profile describes the type-specific fragment of a deployment: the base
// dependency set, default port, health-check marker, extra firewall port,
// service user, and operational timeouts. Every per-type decision the
// generator makes comes from this table.
type Profile struct {
	// Type is the application type identifier (e.g. "nodejs").
	Type string `json:"type"`

	// Name is the human-readable name shown in menus.
	Name string `json:"name"`

	// Dependencies are the base dependency names installed for this type.
	Dependencies []string `json:"dependencies"`

	// Port is the port the application listens on.
	Port int `json:"port"`

	// HealthPath is the HTTP path probed by the health check.
	HealthPath string `json:"health_path"`

	// HealthMarker is the content expected in a healthy response body.
	HealthMarker string `json:"health_marker"`

	// ExtraPort is an additional firewall port beyond 22/80/443 (0 = none).
	ExtraPort int `json:"extra_port,omitempty"`

	// ServiceUser is the OS user the application runs as.
	ServiceUser string `json:"service_user"`

	// Env holds type-specific environment variables layered on the defaults.
	Env map[string]string `json:"env,omitempty"`

	// CommandTimeoutSeconds bounds each remote deployment command.
	CommandTimeoutSeconds int `json:"command_timeout_seconds"`

	// MinBundle is the smallest allowed bundle ID ("" = no minimum).
	MinBundle string `json:"min_bundle,omitempty"`
}

// Profiles returns the supported application profiles in menu order.
func Profiles() []Profile {
	return []Profile{
		{
			Type:                  "lamp",
			Name:                  "LAMP (Apache + PHP + MySQL client)",
			Dependencies:          []string{"apache", "php", "mysql_client"},
			Port:                  80,
			HealthPath:            "/",
			HealthMarker:          "LAMP",
			ExtraPort:             8080,
			ServiceUser:           "www-data",
			CommandTimeoutSeconds: 300,
		},
		{
			Type:                  "nginx",
			Name:                  "Nginx static site",
			Dependencies:          []string{"nginx"},
			Port:                  80,
			HealthPath:            "/",
			HealthMarker:          "Welcome to nginx",
			ServiceUser:           "www-data",
			CommandTimeoutSeconds: 300,
		},
		{
			Type:                  "nodejs",
			Name:                  "Node.js (PM2)",
			Dependencies:          []string{"nodejs", "pm2"},
			Port:                  3000,
			HealthPath:            "/",
			HealthMarker:          "Node.js",
			ExtraPort:             3000,
			ServiceUser:           "ubuntu",
			Env:                   map[string]string{"PORT": "3000"},
			CommandTimeoutSeconds: 300,
		},
		{
			Type:                  "python",
			Name:                  "Python (Flask)",
			Dependencies:          []string{"python", "pip"},
			Port:                  5000,
			HealthPath:            "/",
			HealthMarker:          "Flask",
			ExtraPort:             5000,
			ServiceUser:           "ubuntu",
			Env:                   map[string]string{"FLASK_APP": "app.py"},
			CommandTimeoutSeconds: 300,
		},
		{
			Type:                  "react",
			Name:                  "React (Nginx served)",
			Dependencies:          []string{"nodejs", "nginx"},
			Port:                  80,
			HealthPath:            "/",
			HealthMarker:          "React App",
			ServiceUser:           "www-data",
			CommandTimeoutSeconds: 300,
		},
		{
			Type:                  "docker",
			Name:                  "Docker (compose)",
			Dependencies:          []string{"docker"},
			Port:                  80,
			HealthPath:            "/",
			HealthMarker:          "Docker",
			ServiceUser:           "ubuntu",
			CommandTimeoutSeconds: 600,
			MinBundle:             "small_3_0",
		},
	}
}

// AppTypes returns the application type identifiers in menu order.
func AppTypes() []string {
	profiles := Profiles()
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.Type
	}
	return ids
}

// ProfileFor returns the profile for an application type.
func ProfileFor(appType string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Type == appType {
			return p, true
		}
	}
	return Profile{}, false
}

// =============================================================================
// Runtime Versions
// =============================================================================

// RuntimeVersion returns the pinned version installed for a dependency,
// or "" when the dependency is not version-pinned.
func RuntimeVersion(dependency string) string {
	switch dependency {
	case "nodejs":
		return "20"
	case "php":
		return "8.2"
	case "python":
		return "3.11"
	case "mysql":
		return "8.0"
	case "postgresql":
		return "15"
	default:
		return ""
	}
}

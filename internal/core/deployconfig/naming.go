package deployconfig

import "fmt"

// ConfigFileName returns the descriptor filename for an application
// type. The generated workflow references the descriptor through this
// exact name, so both sides derive it from here.
func ConfigFileName(appType string) string {
	return fmt.Sprintf("deployment-%s.config.yml", appType)
}

// WorkflowFileName returns the GitHub Actions workflow filename for an
// application type.
func WorkflowFileName(appType string) string {
	return fmt.Sprintf("deploy-%s.yml", appType)
}

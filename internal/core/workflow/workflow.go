// Package workflow renders the GitHub Actions workflow that deploys an
// application from its descriptor. The workflow delegates to a reusable
// workflow and passes the descriptor filename through, so the two files
// stay coupled by name.
//
// Part of the Functional Core - rendering is pure and deterministic.
package workflow

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deployconfig"
)

// Workflow errors.
var (
	// ErrConfigFileMismatch reports a workflow that would reference a
	// descriptor file other than the canonical one for its type.
	ErrConfigFileMismatch = errors.New("config file name mismatch")

	// ErrIncompleteParams reports missing workflow parameters.
	ErrIncompleteParams = errors.New("incomplete workflow parameters")
)

// Params are the inputs for one workflow document.
type Params struct {
	AppName     string
	AppType     string
	Branch      string
	Region      string
	ConfigFile  string
	WorkflowRef string
}

// FromDescriptor derives workflow parameters from a built descriptor
// and the reusable workflow reference to delegate to.
func FromDescriptor(d deployconfig.Descriptor, workflowRef string) Params {
	return Params{
		AppName:     d.Application.Name,
		AppType:     d.Application.Type,
		Branch:      d.GitHubActions.Branch,
		Region:      d.AWS.Region,
		ConfigFile:  d.GitHubActions.ConfigFile,
		WorkflowRef: workflowRef,
	}
}

// document mirrors the emitted YAML. Struct order fixes the key order.
type document struct {
	Name        string      `yaml:"name"`
	On          triggers    `yaml:"on"`
	Permissions permissions `yaml:"permissions"`
	Jobs        jobs        `yaml:"jobs"`
}

type triggers struct {
	Push             pushTrigger `yaml:"push"`
	WorkflowDispatch struct{}    `yaml:"workflow_dispatch"`
}

type pushTrigger struct {
	Branches []string `yaml:"branches,flow"`
}

// permissions grant the OIDC token the deploy job exchanges for AWS
// credentials.
type permissions struct {
	IDToken  string `yaml:"id-token"`
	Contents string `yaml:"contents"`
}

type jobs struct {
	Deploy deployJob `yaml:"deploy"`
}

type deployJob struct {
	Uses    string     `yaml:"uses"`
	With    withParams `yaml:"with"`
	Secrets string     `yaml:"secrets"`
}

type withParams struct {
	ConfigFile string `yaml:"config_file"`
	AWSRegion  string `yaml:"aws_region"`
}

// Generate renders the workflow document. The ConfigFile parameter must
// be the canonical descriptor filename for the application type; any
// drift between the two files breaks the deployed pipeline silently, so
// it is rejected here.
func Generate(p Params) ([]byte, error) {
	if p.AppName == "" || p.AppType == "" || p.Branch == "" || p.Region == "" || p.WorkflowRef == "" {
		return nil, fmt.Errorf("%w: app name, type, branch, region, and workflow ref are all required",
			ErrIncompleteParams)
	}
	if want := deployconfig.ConfigFileName(p.AppType); p.ConfigFile != want {
		return nil, fmt.Errorf("%w: workflow would reference %q, descriptor is %q",
			ErrConfigFileMismatch, p.ConfigFile, want)
	}

	doc := document{
		Name: fmt.Sprintf("Deploy %s to Lightsail", p.AppName),
		On: triggers{
			Push: pushTrigger{Branches: []string{p.Branch}},
		},
		Permissions: permissions{
			IDToken:  "write",
			Contents: "read",
		},
		Jobs: jobs{
			Deploy: deployJob{
				Uses: p.WorkflowRef,
				With: withParams{
					ConfigFile: p.ConfigFile,
					AWSRegion:  p.Region,
				},
				Secrets: "inherit",
			},
		},
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Deploys %s to Lightsail on push to %s.\n", p.AppName, p.Branch)
	fmt.Fprintf(&buf, "# Generated by lightsail-deploy; reads %s for deployment settings.\n", p.ConfigFile)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		enc.Close()
		return nil, fmt.Errorf("encode workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode workflow: %w", err)
	}
	return buf.Bytes(), nil
}

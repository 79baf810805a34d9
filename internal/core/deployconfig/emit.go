package deployconfig

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// EmitOptions control presentation-only details of the serialized form.
type EmitOptions struct {
	// GeneratedAt, when non-zero, is rendered into the header comment.
	// It never becomes part of the document itself, so descriptors stay
	// comparable across runs.
	GeneratedAt time.Time
}

// sectionComments are the head comments emitted above each top-level
// section.
var sectionComments = map[string]string{
	"aws":            "AWS account and region settings",
	"lightsail":      "Lightsail instance settings",
	"application":    "Application settings",
	"dependencies":   "Dependencies to install and configure",
	"deployment":     "Deployment behavior",
	"github_actions": "GitHub Actions integration",
	"monitoring":     "Health monitoring",
	"security":       "Security settings",
	"backup":         "Backup settings",
}

// Emit serializes the descriptor with the default options.
func Emit(d Descriptor) ([]byte, error) {
	return EmitWith(d, EmitOptions{})
}

// EmitWith serializes the descriptor to commented YAML. Sections appear
// in fixed order and map-valued blocks are emitted with sorted keys, so
// equal descriptors always serialize to equal bytes for equal options.
func EmitWith(d Descriptor, opts EmitOptions) ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	annotateSections(&root)

	var buf bytes.Buffer
	buf.WriteString(header(d, opts))
	buf.WriteString("\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		enc.Close()
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

// annotateSections attaches the head comment to each known top-level
// key node.
func annotateSections(root *yaml.Node) {
	if root.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if comment, ok := sectionComments[key.Value]; ok {
			key.HeadComment = comment
		}
	}
}

func header(d Descriptor, opts EmitOptions) string {
	stamp := ""
	if !opts.GeneratedAt.IsZero() {
		stamp = " at " + opts.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf(
		"# Deployment configuration for %s\n"+
			"# Generated by lightsail-deploy%s. Safe to edit; re-running generate\n"+
			"# overwrites this file.\n",
		d.Application.Name, stamp)
}

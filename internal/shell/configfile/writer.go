// Package configfile writes generated documents to the filesystem.
//
// Writes are atomic: content is rendered fully in memory, written to a
// uniquely named temporary file in the target directory, and renamed
// into place. A crashed or failed write never leaves a partial
// descriptor behind, and re-running a write over an existing file
// replaces it in one step.
package configfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/deployconfig"
	"github.com/naveenraj44125-creator/lightsail-deploy/internal/core/workflow"
)

// Writer persists descriptors and workflow documents.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger.With("component", "configfile")}
}

// =============================================================================
// Descriptor Writing
// =============================================================================

// WriteDescriptor emits the descriptor and writes it to
// dir/deployment-<type>.config.yml. Returns the path written.
func (w *Writer) WriteDescriptor(dir string, d deployconfig.Descriptor, opts deployconfig.EmitOptions) (string, error) {
	data, err := deployconfig.EmitWith(d, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, deployconfig.ConfigFileName(d.Application.Type))
	if err := w.writeAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write descriptor: %w", err)
	}

	w.logger.Debug("wrote descriptor",
		"path", path,
		"application", d.Application.Name,
		"bytes", len(data),
	)
	return path, nil
}

// WriteWorkflow generates the workflow document and writes it to
// dir/deploy-<type>.yml. Returns the path written.
func (w *Writer) WriteWorkflow(dir string, p workflow.Params) (string, error) {
	data, err := workflow.Generate(p)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, deployconfig.WorkflowFileName(p.AppType))
	if err := w.writeAtomic(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write workflow: %w", err)
	}

	w.logger.Debug("wrote workflow",
		"path", path,
		"application", p.AppName,
		"bytes", len(data),
	)
	return path, nil
}

// =============================================================================
// Atomic Write
// =============================================================================

// writeAtomic writes data to path through a temp file in the same
// directory. Rename within one filesystem is atomic, so readers observe
// either the old file or the new one, never a partial write.
func (w *Writer) writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s into place: %w", tmp, err)
	}
	return nil
}

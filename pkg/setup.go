package autoversion

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// WorkflowPath is where InstallWorkflow puts the workflow, relative to the repository root.
var WorkflowPath = filepath.Join(".github", "workflows", "auto-version.yml")

// ErrWorkflowExists is returned by InstallWorkflow when the workflow is already present.
var ErrWorkflowExists = errors.New("workflow file already exists")

//go:embed templates/auto-version.yml
var workflowTemplate []byte

// WorkflowTemplate returns the GitHub Actions workflow that runs autoversion on every push.
func WorkflowTemplate() []byte {
	return append([]byte(nil), workflowTemplate...)
}

// InstallWorkflow writes the workflow under root and returns its path.
// An existing workflow is only replaced when force is set.
func InstallWorkflow(root string, force bool) (string, error) {
	path := filepath.Join(root, WorkflowPath)
	if _, err := os.Stat(path); err == nil {
		if !force {
			return path, fmt.Errorf("%w: %s", ErrWorkflowExists, path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path, fmt.Errorf("checking workflow file %q: %w", path, err)
	}

	if err := writeFileAtomic(path, workflowTemplate, 0644); err != nil {
		return path, fmt.Errorf("installing workflow: %w", err)
	}
	return path, nil
}

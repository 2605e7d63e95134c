package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/export"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

// yamlPath reports whether path names a YAML skill document.
func yamlPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// loadProject reads a skill document from path, as YAML when the extension
// says so and as JSON otherwise.
func loadProject(path string) (workflow.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return workflow.Project{}, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "project file %s", path)
		}
		return workflow.Project{}, fmt.Errorf("read project: %w", err)
	}
	decode := export.DecodeProject
	if yamlPath(path) {
		decode = export.DecodeYAMLProject
	}
	p, err := decode(data)
	if err != nil {
		return workflow.Project{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// saveProject writes p to path as a skill document in the format matching
// the extension.
func saveProject(path string, p workflow.Project) error {
	var (
		data []byte
		err  error
	)
	if yamlPath(path) {
		data, err = export.RenderYAML(p)
	} else {
		data, err = export.RenderJSON(p)
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}

// editProject loads path into an editor, applies fn and saves the result.
// Nothing is written when fn fails.
func editProject(path string, n workflow.Notifier, fn func(*workflow.Editor) error) (workflow.Project, error) {
	p, err := loadProject(path)
	if err != nil {
		return workflow.Project{}, err
	}
	ed := workflow.NewEditor(workflow.WithProject(p), workflow.WithNotifier(n))
	if err := fn(ed); err != nil {
		return workflow.Project{}, err
	}
	out := ed.Snapshot()
	if err := saveProject(path, out); err != nil {
		return workflow.Project{}, err
	}
	return out, nil
}

// resolveNodeID finds a node by exact ID, exact title or unique ID prefix.
func resolveNodeID(p workflow.Project, ref string) (string, error) {
	if p.HasNode(ref) {
		return ref, nil
	}

	var byTitle, byPrefix []string
	for _, n := range p.Nodes {
		if n.Title == ref {
			byTitle = append(byTitle, n.ID)
		}
		if strings.HasPrefix(n.ID, ref) || strings.HasPrefix(strings.TrimPrefix(n.ID, "node-"), ref) {
			byPrefix = append(byPrefix, n.ID)
		}
	}
	switch {
	case len(byTitle) == 1:
		return byTitle[0], nil
	case len(byTitle) > 1:
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "title %q is ambiguous (%d nodes)", ref, len(byTitle))
	case len(byPrefix) == 1 && ref != "":
		return byPrefix[0], nil
	case len(byPrefix) > 1 && ref != "":
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "id prefix %q is ambiguous (%d nodes)", ref, len(byPrefix))
	}
	return "", apperrors.New(apperrors.ErrCodeNotFound, "no node %q", ref)
}

// shortID trims the "node-" prefix and keeps the first 8 characters of the rest.
func shortID(id string) string {
	s := strings.TrimPrefix(id, "node-")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

package workflow

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
)

// IDGenerator produces node identifiers. Generated IDs must never repeat.
type IDGenerator func() string

// NewNodeID returns "node-" followed by a random UUID.
func NewNodeID() string { return "node-" + uuid.NewString() }

// NodePatch holds the editable node fields. Nil fields are left unchanged.
type NodePatch struct {
	Title       *string
	Description *string
}

// Text returns a pointer to s, for building a [NodePatch].
func Text(s string) *string { return &s }

// Option configures an [Editor].
type Option func(*Editor)

// WithNotifier sets the notice receiver. The default discards notices.
func WithNotifier(n Notifier) Option {
	return func(e *Editor) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithIDGenerator overrides node ID generation. Tests use this for
// deterministic IDs.
func WithIDGenerator(gen IDGenerator) Option {
	return func(e *Editor) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithProject seeds the editor with an existing project, typically one
// reconstructed from an exported document. The project is copied.
func WithProject(p Project) Option {
	return func(e *Editor) { e.project = p.Clone() }
}

// Editor is the single writer of a [Project]. It owns the project value and
// the current selection, and enforces the cascade rules on deletion.
//
// Editor is not safe for concurrent use.
type Editor struct {
	project  Project
	selected string
	notifier Notifier
	newID    IDGenerator
}

// NewEditor returns an editor holding an empty project named
// [DefaultProjectName] unless [WithProject] is given.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		project:  NewProject(""),
		notifier: NopNotifier{},
		newID:    NewNodeID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns a deep copy of the current project.
func (e *Editor) Snapshot() Project { return e.project.Clone() }

// NodeCount returns the current number of nodes.
func (e *Editor) NodeCount() int { return len(e.project.Nodes) }

// SetName changes the project name.
func (e *Editor) SetName(name string) { e.project.Name = name }

// SetDescription changes the project description.
func (e *Editor) SetDescription(desc string) { e.project.Description = desc }

// AddNode creates a node of the given kind at (x, y) and appends it.
//
// The node gets a fresh ID, the title "<Label> <n>" where n is the node count
// plus one, the kind's color and default description. The ordinal is not a
// stable counter: after deletions a title can repeat. Kinds outside the
// declared set return [ErrUnknownKind] and leave the project untouched.
func (e *Editor) AddNode(kind Kind, x, y float64) (Node, error) {
	if !kind.Valid() {
		return Node{}, apperrors.Wrap(apperrors.ErrCodeInvalidKind, ErrUnknownKind, "kind %d", uint8(kind))
	}

	n := Node{
		ID:          e.newID(),
		Kind:        kind,
		Title:       fmt.Sprintf("%s %d", kind.Label(), len(e.project.Nodes)+1),
		Description: kind.DefaultDescription(),
		Position:    Point{X: x, Y: y},
		Color:       kind.Color(),
	}
	e.project.Nodes = append(e.project.Nodes, n)
	e.notifier.Notify(Notice{Message: fmt.Sprintf("Added %s node", kind.Label()), NodeID: n.ID})
	return n, nil
}

// DeleteNode removes the node with the given ID and every connection that
// references it. If the node was selected, the selection is cleared.
// It reports whether a node was removed; deleting an unknown ID is a no-op.
func (e *Editor) DeleteNode(id string) bool {
	i := e.project.nodeIndex(id)
	if i < 0 {
		return false
	}
	e.project.Nodes = slices.Delete(e.project.Nodes, i, i+1)
	e.project.Connections = slices.DeleteFunc(e.project.Connections, func(c Connection) bool {
		return c.Touches(id)
	})
	if e.selected == id {
		e.selected = ""
	}
	e.notifier.Notify(Notice{Message: "Node deleted", NodeID: id})
	return true
}

// UpdateNode merges the non-nil patch fields into the node with the given ID.
// Text is not validated. It reports whether the node exists.
func (e *Editor) UpdateNode(id string, patch NodePatch) bool {
	i := e.project.nodeIndex(id)
	if i < 0 {
		return false
	}
	n := &e.project.Nodes[i]
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Description != nil {
		n.Description = *patch.Description
	}
	return true
}

// SelectNode makes id the single current selection. Selecting an unknown ID
// or the empty string clears the selection.
func (e *Editor) SelectNode(id string) {
	if !e.project.HasNode(id) {
		e.selected = ""
		return
	}
	e.selected = id
}

// ClearSelection removes the current selection.
func (e *Editor) ClearSelection() { e.selected = "" }

// Selected returns the currently selected node.
func (e *Editor) Selected() (Node, bool) {
	if e.selected == "" {
		return Node{}, false
	}
	return e.project.Node(e.selected)
}

// SelectedID returns the selected node ID, or "" when nothing is selected.
func (e *Editor) SelectedID() string { return e.selected }

// Connect appends a directed connection between two existing nodes.
// Duplicates are allowed. Unknown endpoints return a NOT_FOUND error.
func (e *Editor) Connect(from, to string) (Connection, error) {
	for _, id := range []string{from, to} {
		if !e.project.HasNode(id) {
			return Connection{}, apperrors.New(apperrors.ErrCodeNotFound, "node %q does not exist", id)
		}
	}
	c := Connection{From: from, To: to}
	e.project.Connections = append(e.project.Connections, c)
	e.notifier.Notify(Notice{Message: "Nodes connected", NodeID: from})
	return c, nil
}

// Disconnect removes every connection from -> to and returns how many were
// removed.
func (e *Editor) Disconnect(from, to string) int {
	before := len(e.project.Connections)
	e.project.Connections = slices.DeleteFunc(e.project.Connections, func(c Connection) bool {
		return c.From == from && c.To == to
	})
	removed := before - len(e.project.Connections)
	if removed > 0 {
		e.notifier.Notify(Notice{Message: "Connection removed", NodeID: from})
	}
	return removed
}

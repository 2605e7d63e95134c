package workflow

import "slices"

// DefaultProjectName is the name a fresh project starts with.
const DefaultProjectName = "My Agent Skill"

// Point is a position in canvas space.
type Point struct {
	X float64
	Y float64
}

// Node is a positioned, typed, labeled unit of a workflow.
//
// Kind, Position and Color are fixed when the node is created; only Title
// and Description change afterwards.
type Node struct {
	ID          string // Unique within a project, never reused
	Kind        Kind   // Closed category, fixed at creation
	Title       string // Free text, defaults to "<Label> <ordinal>"
	Description string // Free text, defaults to the kind's description
	Position    Point  // Drop point on the canvas
	Color       string // Hex color frozen from Kind at creation
}

// Connection is a directed reference between two node IDs. It owns no node
// data and may dangle after edits made outside an Editor.
type Connection struct {
	From string
	To   string
}

// Touches reports whether either endpoint equals id.
func (c Connection) Touches(id string) bool { return c.From == id || c.To == id }

// Project is the aggregate root: a name, a description, and ordered nodes and
// connections. The zero value is an empty, unnamed project.
type Project struct {
	Name        string
	Description string
	Nodes       []Node
	Connections []Connection
}

// NewProject returns an empty project with the given name.
// An empty name falls back to [DefaultProjectName].
func NewProject(name string) Project {
	if name == "" {
		name = DefaultProjectName
	}
	return Project{Name: name}
}

// NodeCount returns the number of nodes.
func (p Project) NodeCount() int { return len(p.Nodes) }

// Node returns the node with the given ID.
func (p Project) Node(id string) (Node, bool) {
	if i := p.nodeIndex(id); i >= 0 {
		return p.Nodes[i], true
	}
	return Node{}, false
}

// HasNode reports whether a node with the given ID exists.
func (p Project) HasNode(id string) bool { return p.nodeIndex(id) >= 0 }

func (p Project) nodeIndex(id string) int {
	return slices.IndexFunc(p.Nodes, func(n Node) bool { return n.ID == id })
}

// Clone returns a deep copy that shares no slices with p.
func (p Project) Clone() Project {
	out := p
	out.Nodes = slices.Clone(p.Nodes)
	out.Connections = slices.Clone(p.Connections)
	return out
}

// ResolvedConnection is a connection whose endpoints both exist.
type ResolvedConnection struct {
	From Node
	To   Node
}

// ResolvedConnections returns the connections whose endpoints both resolve to
// nodes, in connection order. Dangling connections are skipped.
func (p Project) ResolvedConnections() []ResolvedConnection {
	if len(p.Connections) == 0 {
		return nil
	}
	byID := make(map[string]Node, len(p.Nodes))
	for _, n := range p.Nodes {
		byID[n.ID] = n
	}
	out := make([]ResolvedConnection, 0, len(p.Connections))
	for _, c := range p.Connections {
		from, ok := byID[c.From]
		if !ok {
			continue
		}
		to, ok := byID[c.To]
		if !ok {
			continue
		}
		out = append(out, ResolvedConnection{From: from, To: to})
	}
	return out
}

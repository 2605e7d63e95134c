package export

import (
	"encoding/json"
	"time"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

// TimeLayout is the createdAt layout: UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Document is the exported skill document. Field order is the wire order
// for both JSON and YAML.
type Document struct {
	Name        string               `json:"name" yaml:"name"`
	Description string               `json:"description" yaml:"description"`
	Nodes       []DocumentNode       `json:"nodes" yaml:"nodes"`
	Connections []DocumentConnection `json:"connections" yaml:"connections"`
	CreatedAt   string               `json:"createdAt" yaml:"createdAt"`
}

// DocumentNode is one node in a [Document].
type DocumentNode struct {
	ID          string  `json:"id" yaml:"id"`
	Type        string  `json:"type" yaml:"type"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Color       string  `json:"color" yaml:"color"`
}

// DocumentConnection is one directed connection in a [Document].
type DocumentConnection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	now func() time.Time
}

// WithClock sets the clock used for createdAt. Defaults to [time.Now].
func WithClock(now func() time.Time) JSONOption {
	return func(r *jsonRenderer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewDocument builds the document for p stamped with createdAt.
func NewDocument(p workflow.Project, createdAt time.Time) Document {
	doc := Document{
		Name:        p.Name,
		Description: p.Description,
		Nodes:       make([]DocumentNode, 0, len(p.Nodes)),
		Connections: make([]DocumentConnection, 0, len(p.Connections)),
		CreatedAt:   createdAt.UTC().Format(TimeLayout),
	}
	for _, n := range p.Nodes {
		doc.Nodes = append(doc.Nodes, DocumentNode{
			ID:          n.ID,
			Type:        n.Kind.String(),
			Title:       n.Title,
			Description: n.Description,
			X:           n.Position.X,
			Y:           n.Position.Y,
			Color:       n.Color,
		})
	}
	for _, c := range p.Connections {
		doc.Connections = append(doc.Connections, DocumentConnection{From: c.From, To: c.To})
	}
	return doc
}

// RenderJSON serializes p as a skill document with two-space indentation.
func RenderJSON(p workflow.Project, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{now: time.Now}
	for _, opt := range opts {
		opt(&r)
	}
	data, err := json.MarshalIndent(NewDocument(p, r.now()), "", "  ")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode document")
	}
	return data, nil
}

// ParseDocument decodes a skill document. It does not validate node kinds;
// see [Document.Project].
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "decode document")
	}
	return &doc, nil
}

// CreatedTime parses the createdAt field.
func (d *Document) CreatedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "invalid createdAt %q", d.CreatedAt)
	}
	return t, nil
}

// Project rebuilds the project described by d. Unknown node types, empty or
// duplicate node IDs are rejected. A missing color falls back to the kind's
// color; connections are copied as-is.
func (d *Document) Project() (workflow.Project, error) {
	p := workflow.Project{
		Name:        d.Name,
		Description: d.Description,
		Nodes:       make([]workflow.Node, 0, len(d.Nodes)),
		Connections: make([]workflow.Connection, 0, len(d.Connections)),
	}
	seen := make(map[string]bool, len(d.Nodes))
	for i, dn := range d.Nodes {
		if dn.ID == "" {
			return workflow.Project{}, apperrors.New(apperrors.ErrCodeInvalidDocument, "node %d has no id", i)
		}
		if seen[dn.ID] {
			return workflow.Project{}, apperrors.New(apperrors.ErrCodeInvalidDocument, "duplicate node id %q", dn.ID)
		}
		seen[dn.ID] = true

		kind, err := workflow.ParseKind(dn.Type)
		if err != nil {
			return workflow.Project{}, apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "node %q", dn.ID)
		}
		color := dn.Color
		if color == "" {
			color = kind.Color()
		}
		p.Nodes = append(p.Nodes, workflow.Node{
			ID:          dn.ID,
			Kind:        kind,
			Title:       dn.Title,
			Description: dn.Description,
			Position:    workflow.Point{X: dn.X, Y: dn.Y},
			Color:       color,
		})
	}
	for _, c := range d.Connections {
		p.Connections = append(p.Connections, workflow.Connection{From: c.From, To: c.To})
	}
	return p, nil
}

// DecodeProject is ParseDocument followed by [Document.Project].
func DecodeProject(data []byte) (workflow.Project, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return workflow.Project{}, err
	}
	return doc.Project()
}

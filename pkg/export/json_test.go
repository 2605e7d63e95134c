package export

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func fixedClock() time.Time { return fixedTime }

func counterIDs() workflow.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("node-%d", n)
	}
}

func demoProject(t *testing.T) workflow.Project {
	t.Helper()
	ed := workflow.NewEditor(workflow.WithIDGenerator(counterIDs()))
	ed.SetName("Demo")
	if _, err := ed.AddNode(workflow.KindInput, 10, 20); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := ed.AddNode(workflow.KindProcess, 200, 20); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return ed.Snapshot()
}

func TestRenderJSONDemoScenario(t *testing.T) {
	data, err := RenderJSON(demoProject(t), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var doc struct {
		Nodes []struct {
			Type string  `json:"type"`
			X    float64 `json:"x"`
			Y    float64 `json:"y"`
		} `json:"nodes"`
		Connections []json.RawMessage `json:"connections"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("len(nodes) = %d, want 2", len(doc.Nodes))
	}
	if doc.Nodes[0].Type != "input" || doc.Nodes[0].X != 10 || doc.Nodes[0].Y != 20 {
		t.Errorf("nodes[0] = %+v, want input at (10,20)", doc.Nodes[0])
	}
	if doc.Connections == nil || len(doc.Connections) != 0 {
		t.Errorf("connections = %v, want empty array", doc.Connections)
	}
}

func TestRenderJSONLayout(t *testing.T) {
	p := workflow.NewProject("Demo")
	data, err := RenderJSON(p, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	want := `{
  "name": "Demo",
  "description": "",
  "nodes": [],
  "connections": [],
  "createdAt": "2026-03-14T09:26:53.589Z"
}`
	if string(data) != want {
		t.Errorf("RenderJSON =\n%s\nwant\n%s", data, want)
	}
}

func TestRenderJSONFieldOrder(t *testing.T) {
	data, err := RenderJSON(demoProject(t), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	s := string(data)
	keys := []string{`"id"`, `"type"`, `"title"`, `"description"`, `"x"`, `"y"`, `"color"`}
	last := strings.Index(s, `"nodes"`)
	for _, k := range keys {
		i := strings.Index(s[last:], k)
		if i < 0 {
			t.Fatalf("key %s missing after offset %d", k, last)
		}
		last += i
	}
}

func TestRenderJSONCreatedAtIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := time.Date(2026, 1, 1, 2, 0, 0, 0, loc)
	data, err := RenderJSON(workflow.NewProject(""), WithClock(func() time.Time { return local }))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.CreatedAt != "2026-01-01T00:00:00.000Z" {
		t.Errorf("createdAt = %q, want %q", doc.CreatedAt, "2026-01-01T00:00:00.000Z")
	}
}

func TestRenderJSONCreatedAtIsExportTime(t *testing.T) {
	start := time.Now().Truncate(time.Millisecond)
	data, err := RenderJSON(demoProject(t))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	created, err := doc.CreatedTime()
	if err != nil {
		t.Fatalf("CreatedTime: %v", err)
	}
	if created.Before(start) {
		t.Errorf("createdAt %v is before export start %v", created, start)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ed := workflow.NewEditor(workflow.WithIDGenerator(counterIDs()))
	ed.SetName("Round Trip")
	ed.SetDescription("émoji ✓ and \"quotes\"")
	a, _ := ed.AddNode(workflow.KindInput, 10.5, 20)
	b, _ := ed.AddNode(workflow.KindDecision, 300, 40)
	c, _ := ed.AddNode(workflow.KindOutput, 600, 80)
	ed.UpdateNode(b.ID, workflow.NodePatch{Title: workflow.Text("Route?")})
	if _, err := ed.Connect(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := ed.Connect(b.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	want := ed.Snapshot()

	data, err := RenderJSON(want, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	got, err := DecodeProject(data)
	if err != nil {
		t.Fatalf("DecodeProject: %v", err)
	}

	if got.Name != want.Name || got.Description != want.Description {
		t.Errorf("header = (%q, %q), want (%q, %q)", got.Name, got.Description, want.Name, want.Description)
	}
	if !slices.Equal(got.Nodes, want.Nodes) {
		t.Errorf("nodes = %+v, want %+v", got.Nodes, want.Nodes)
	}
	if !slices.Equal(got.Connections, want.Connections) {
		t.Errorf("connections = %+v, want %+v", got.Connections, want.Connections)
	}
}

func TestDocumentProjectKeepsDanglingConnections(t *testing.T) {
	doc := Document{
		Nodes:       []DocumentNode{{ID: "a", Type: "data"}},
		Connections: []DocumentConnection{{From: "a", To: "gone"}},
	}
	p, err := doc.Project()
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(p.Connections) != 1 {
		t.Errorf("len(connections) = %d, want 1", len(p.Connections))
	}
	if p.Nodes[0].Color != workflow.KindData.Color() {
		t.Errorf("color = %q, want kind color %q", p.Nodes[0].Color, workflow.KindData.Color())
	}
}

func TestDocumentProjectErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []DocumentNode
	}{
		{"unknown type", []DocumentNode{{ID: "a", Type: "loop"}}},
		{"missing id", []DocumentNode{{Type: "input"}}},
		{"duplicate id", []DocumentNode{{ID: "a", Type: "input"}, {ID: "a", Type: "output"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Nodes: tt.nodes}
			_, err := doc.Project()
			if !apperrors.Is(err, apperrors.ErrCodeInvalidDocument) {
				t.Errorf("Project() error = %v, want INVALID_DOCUMENT", err)
			}
		})
	}
}

func TestParseDocumentRejectsGarbage(t *testing.T) {
	_, err := ParseDocument([]byte("{not json"))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidDocument) {
		t.Errorf("ParseDocument error = %v, want INVALID_DOCUMENT", err)
	}
}

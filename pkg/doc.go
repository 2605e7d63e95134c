// Package pkg provides the core libraries for Skillflow, a builder for agent
// skill workflows.
//
// # Overview
//
// A workflow is a small graph of typed nodes (input, process, decision,
// output, API call) placed on a canvas and joined by connections. Skillflow
// edits these graphs and exports them as a PNG picture of the canvas or as a
// JSON skill document that agents can load. The pkg directory is organized
// into these areas:
//
//  1. [workflow] - The graph model and the editor that mutates it
//  2. [export] - Renderers (PNG, JSON, YAML, SVG, DOT) and the [export.Exporter]
//  3. [sink] - Destinations for rendered artifacts (directory, writer, Redis, MongoDB)
//  4. [cache] - Render cache keyed by project content
//  5. [errors], [observability], [buildinfo], [fonts] - Shared support code
//
// # Architecture
//
// The typical data flow:
//
//	Editor (CLI, TUI or HTTP)
//	         ↓
//	    [workflow] package (nodes + connections)
//	         ↓
//	    [export] package (render PNG / JSON / SVG / DOT)
//	         ↓
//	    [sink] package (write file, Redis key, MongoDB document)
//
// # Quick Start
//
//	ed := workflow.NewEditor()
//	ed.SetName("Support Triage")
//	in, _ := ed.AddNode(workflow.KindInput, 40, 100)
//	out, _ := ed.AddNode(workflow.KindOutput, 260, 100)
//	ed.Connect(in.ID, out.ID)
//
//	dst, _ := sink.NewDirSink(".")
//	ex := export.NewExporter(dst)
//	ex.ExportAll(ctx, ed.Snapshot(), []export.Format{export.FormatPNG, export.FormatJSON})
//
// This writes Support-Triage-workflow.png and Support-Triage-skill.json.
//
// # Testing
//
//	go test ./...                       # All tests
//	go test -short ./...                # Skip Graphviz rendering
//	go test -tags integration ./pkg/... # Include MongoDB tests
//
// [workflow]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/workflow
// [export]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/export
// [sink]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/sink
// [cache]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/buildinfo
// [fonts]: https://pkg.go.dev/github.com/matzehuels/skillflow/pkg/fonts
package pkg

// Package export turns a [workflow.Project] into shareable artifacts.
//
// Every transform is a pure function of a project snapshot:
//
//   - [RenderPNG] draws the 1200x800 workflow graphic with fogleman/gg.
//   - [RenderJSON] writes the skill document (name, description, nodes,
//     connections, createdAt) that [ParseDocument] reads back.
//   - [ToDOT] and [RenderSVG] emit a Graphviz node-link view of the graph.
//
// File names follow [FileName]: whitespace runs in the project name become a
// single hyphen, then a per-format suffix is appended ("-workflow.png",
// "-skill.json", ...).
//
// An [Exporter] binds the transforms to a [sink.Sink]: it renders, names and
// delivers one [sink.Artifact] per requested [Format].
//
// Connections whose endpoints no longer exist are skipped by every graphic
// transform but kept verbatim in the JSON document.
package export

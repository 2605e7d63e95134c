// Package workflow holds the in-memory graph model for skill workflows.
//
// A [Project] is a named, ordered collection of typed [Node] values and
// directed [Connection] values between node IDs. Projects are plain values:
// they can be copied with [Project.Clone], inspected, and handed to the
// export transforms in pkg/export.
//
// # Kinds
//
// Every node has a [Kind] from a closed set of five variants. The kind fixes
// the node's palette label, display color and default description:
//
//	workflow.KindInput     // "Input",    #ff6b6b
//	workflow.KindProcess   // "Process",  #4ecdc4
//	workflow.KindDecision  // "Decision", #a78bfa
//	workflow.KindData      // "Data",     #ffd93d
//	workflow.KindOutput    // "Output",   #ff8fab
//
// Text from documents or command lines goes through [ParseKind], which is the
// only place an unknown kind can be rejected.
//
// # Editing
//
// Mutations go through an [Editor], the single writer that owns a Project and
// the current selection:
//
//	ed := workflow.NewEditor(workflow.WithNotifier(n))
//	in, _ := ed.AddNode(workflow.KindInput, 10, 20)
//	ed.SelectNode(in.ID)
//	ed.UpdateNode(in.ID, workflow.NodePatch{Title: workflow.Text("Read request")})
//	ed.DeleteNode(in.ID) // cascades connections, clears the selection
//
// Successful additions and deletions emit a [Notice] to the configured
// [Notifier]; the CLI logs them and the terminal editor shows them in its
// status bar.
//
// # Referential gaps
//
// Connections are not validated. A connection whose endpoint no longer
// exists is kept in the project and silently skipped by
// [Project.ResolvedConnections], which every renderer uses.
//
// # Concurrency
//
// Projects and Editors are not safe for concurrent mutation. The Editor is
// meant to be driven from a single event loop.
package workflow

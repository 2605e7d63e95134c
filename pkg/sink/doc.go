// Package sink delivers exported artifacts to their destination.
//
// A [Sink] is the "file delivery" capability of the exporter: the export
// transforms in pkg/export stay pure functions from a project to bytes, and a
// sink decides where those bytes go. Implementations:
//
//   - [DirSink]: writes files into a directory (CLI default)
//   - [WriterSink]: streams the artifact to an io.Writer (stdout piping)
//   - [MemorySink]: keeps artifacts in memory (tests, HTTP responses)
//   - [RedisSink]: stores artifacts under prefixed Redis keys
//   - [MongoSink]: upserts artifacts into a MongoDB collection
//
// Delivery is one-shot: sinks never retry and never read artifacts back for
// the editor. Failures are wrapped with the SINK_FAILED error code.
package sink

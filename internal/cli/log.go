// Package cli implements the skillflow command-line interface.
//
// Projects live in JSON skill documents on disk: `skillflow new` creates one,
// the node, connect and disconnect commands edit it in place through a
// [workflow.Editor], `skillflow edit` opens it in a terminal editor, and
// `skillflow export` renders it and hands the artifacts to the configured
// sink. `skillflow serve` exposes the export engine over HTTP.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context. Editor notices ("Added Input node") are
// logged at info level; export and delivery timings at debug level through
// observability hooks.
//
// # Example
//
//	import "github.com/matzehuels/skillflow/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skillflow/pkg/workflow"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Exported 2 artifacts (84ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// noticeLogger reports editor notices on l.
func noticeLogger(l *log.Logger) workflow.Notifier {
	return workflow.NotifierFunc(func(n workflow.Notice) {
		if n.NodeID != "" {
			l.Info(n.Message, "node", n.NodeID)
			return
		}
		l.Info(n.Message)
	})
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks logs export and delivery events at debug level.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) logHooks { return logHooks{logger: l} }

func (h logHooks) OnRenderStart(_ context.Context, format string, nodeCount int) {
	h.logger.Debug("rendering", "format", format, "nodes", nodeCount)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "format", format, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnDeliver(_ context.Context, sink, name string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("delivery failed", "sink", sink, "name", name, "err", err)
		return
	}
	h.logger.Debug("delivered", "sink", sink, "name", name, "bytes", size, "took", d.Round(time.Microsecond))
}

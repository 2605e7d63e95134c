package export

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/skillflow/pkg/cache"
	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/observability"
	"github.com/matzehuels/skillflow/pkg/sink"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

// Format is an export format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
	FormatDOT  Format = "dot"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format.
func Formats() []Format { return []Format{FormatPNG, FormatJSON, FormatSVG, FormatDOT, FormatYAML} }

// ParseFormat parses a single format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats(), f) {
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q (want png, json, svg, dot or yaml)", s)
	}
	return f, nil
}

// ParseFormats parses a comma-separated list such as "png,json".
// Duplicates are dropped; order is preserved.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "no export format given")
	}
	return out, nil
}

// Suffix returns the artifact name suffix for f.
func (f Format) Suffix() string {
	switch f {
	case FormatPNG:
		return SuffixPNG
	case FormatJSON:
		return SuffixJSON
	case FormatSVG:
		return SuffixSVG
	case FormatDOT:
		return SuffixDOT
	case FormatYAML:
		return SuffixYAML
	}
	return "-" + string(f)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return sink.ContentTypePNG
	case FormatJSON:
		return sink.ContentTypeJSON
	case FormatSVG:
		return sink.ContentTypeSVG
	case FormatDOT:
		return sink.ContentTypeDOT
	case FormatYAML:
		return sink.ContentTypeYAML
	}
	return "application/octet-stream"
}

// Timestamped reports whether artifacts of f carry the export time, which
// makes them uncacheable.
func (f Format) Timestamped() bool { return f == FormatJSON || f == FormatYAML }

// Notice returns the confirmation shown after a successful export.
func (f Format) Notice() string {
	if f.Timestamped() {
		return "Skill exported as " + strings.ToUpper(string(f))
	}
	return fmt.Sprintf("Workflow exported as %s", strings.ToUpper(string(f)))
}

// Option configures an [Exporter].
type Option func(*Exporter)

// WithExportClock sets the clock used for JSON createdAt stamps.
func WithExportClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPNGOptions sets the options passed to [RenderPNG].
func WithPNGOptions(opts ...PNGOption) Option {
	return func(e *Exporter) { e.png = opts }
}

// WithCache stores rendered PNG, SVG and DOT artifacts in c. variant must
// describe any render options that change the output, since options are
// not part of the key. Timestamped formats are never cached.
func WithCache(c cache.Cache, ttl time.Duration, variant ...string) Option {
	return func(e *Exporter) {
		e.cache = c
		e.cacheTTL = ttl
		e.variant = variant
	}
}

// Exporter renders projects and delivers the results to a sink.
type Exporter struct {
	sink     sink.Sink
	now      func() time.Time
	png      []PNGOption
	cache    cache.Cache
	cacheTTL time.Duration
	variant  []string
}

// NewExporter returns an exporter delivering to s.
func NewExporter(s sink.Sink, opts ...Option) *Exporter {
	if s == nil {
		s = sink.NewMemorySink()
	}
	e := &Exporter{sink: s, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render produces the artifact for p in format f without delivering it.
func (e *Exporter) Render(ctx context.Context, p workflow.Project, f Format) (sink.Artifact, error) {
	hooks := observability.Export()
	hooks.OnRenderStart(ctx, string(f), len(p.Nodes))
	start := time.Now()

	data, err := e.cachedRender(ctx, p, f)
	hooks.OnRenderComplete(ctx, string(f), len(data), time.Since(start), err)
	if err != nil {
		return sink.Artifact{}, err
	}
	return sink.Artifact{
		Name:        FileName(p.Name, f.Suffix()),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

// cachedRender serves f from the cache when possible. Cache errors are
// treated as misses.
func (e *Exporter) cachedRender(ctx context.Context, p workflow.Project, f Format) ([]byte, error) {
	if e.cache == nil || f.Timestamped() {
		return e.render(ctx, p, f)
	}
	content, err := json.Marshal(NewDocument(p, time.Time{}))
	if err != nil {
		return e.render(ctx, p, f)
	}
	key := cache.ArtifactKey(string(f), content, e.variant...)
	if data, hit, err := e.cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}
	data, err := e.render(ctx, p, f)
	if err != nil {
		return nil, err
	}
	_ = e.cache.Set(ctx, key, data, e.cacheTTL)
	return data, nil
}

func (e *Exporter) render(ctx context.Context, p workflow.Project, f Format) ([]byte, error) {
	switch f {
	case FormatPNG:
		return RenderPNG(p, e.png...)
	case FormatJSON:
		return RenderJSON(p, WithClock(e.now))
	case FormatSVG:
		return RenderSVG(ctx, p)
	case FormatDOT:
		return []byte(ToDOT(p)), nil
	case FormatYAML:
		return RenderYAML(p, WithClock(e.now))
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q", f)
}

// Export renders p in format f and delivers the artifact to the sink.
// Delivery failures that carry no error code are reported as SINK_FAILED.
func (e *Exporter) Export(ctx context.Context, p workflow.Project, f Format) (sink.Artifact, error) {
	a, err := e.Render(ctx, p, f)
	if err != nil {
		return sink.Artifact{}, err
	}

	start := time.Now()
	err = e.sink.Deliver(ctx, a)
	observability.Sink().OnDeliver(ctx, sink.Describe(e.sink), a.Name, len(a.Data), time.Since(start), err)
	if err != nil {
		if apperrors.GetCode(err) == "" {
			err = apperrors.Wrap(apperrors.ErrCodeSinkFailed, err, "deliver %s", a.Name)
		}
		return sink.Artifact{}, err
	}
	return a, nil
}

// ExportAll exports p in each format, stopping at the first failure.
func (e *Exporter) ExportAll(ctx context.Context, p workflow.Project, formats []Format) ([]sink.Artifact, error) {
	out := make([]sink.Artifact, 0, len(formats))
	for _, f := range formats {
		a, err := e.Export(ctx, p, f)
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	return out, nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillflow/pkg/cache"
	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/export"
	"github.com/matzehuels/skillflow/pkg/sink"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	formats  string // comma-separated formats, overrides output.formats
	output   string // output directory for the dir sink
	sinkKind string // overrides sink.kind
	gradient string // "from,to" background colors
	accent   string // connection color
	noCache  bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a project as PNG, JSON, SVG, DOT or YAML",
		Long: `Export a project and deliver the artifacts to the configured sink.

Artifacts are named after the project with whitespace replaced by hyphens:
"My Agent Skill" exports My-Agent-Skill-workflow.png and My-Agent-Skill-skill.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, json, svg, dot, yaml (comma-separated, default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (dir sink)")
	cmd.Flags().StringVar(&opts.sinkKind, "sink", "", "destination: dir, stdout, redis, mongo (default from config)")
	cmd.Flags().StringVar(&opts.gradient, "gradient", "", "PNG background gradient as from,to hex colors")
	cmd.Flags().StringVar(&opts.accent, "accent", "", "PNG connection color")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached artifact exists")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, path string, opts exportOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg := c.config
	if opts.sinkKind != "" {
		cfg.Sink.Kind = opts.sinkKind
	}
	if opts.formats != "" {
		cfg.Output.Formats = strings.Split(opts.formats, ",")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	formats, err := cfg.formats()
	if err != nil {
		return err
	}
	pngOpts, err := pngOptions(opts)
	if err != nil {
		return err
	}

	p, err := loadProject(path)
	if err != nil {
		return err
	}

	dst, closeSink, err := openSink(ctx, cfg, opts.output)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSink(); err != nil {
			logger.Warn("closing sink", "err", err)
		}
	}()

	exOpts := []export.Option{export.WithPNGOptions(pngOpts...)}
	if cfg.Cache.Enabled && !opts.noCache {
		c, err := openCache(cfg.Cache)
		if err != nil {
			logger.Warn("render cache unavailable", "err", err)
		} else {
			logger.Debug("using render cache", "dir", c.Dir())
			exOpts = append(exOpts, export.WithCache(c, cfg.Cache.TTL.Duration, opts.gradient, opts.accent))
		}
	}
	exporter := export.NewExporter(dst, exOpts...)
	prog := newProgress(logger)

	var spin *Spinner
	if isRemoteSink(cfg.Sink.Kind) {
		spin = newSpinner(ctx, "Delivering to "+sink.Describe(dst))
		spin.Start()
	}
	arts, err := exporter.ExportAll(ctx, p, formats)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	toStdout := cfg.Sink.Kind == sinkStdout
	for i, a := range arts {
		logger.Info(formats[i].Notice(), "name", a.Name, "bytes", len(a.Data))
		if toStdout {
			continue
		}
		if ds, ok := dst.(*sink.DirSink); ok {
			printFile(ds.Path(a.Name))
		} else {
			printFile(sink.Describe(dst) + " " + a.Name)
		}
	}
	prog.done(fmt.Sprintf("Exported %d artifacts", len(arts)))
	return nil
}

func openCache(cfg CacheConfig) (*cache.FileCache, error) {
	dir, err := cfg.cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

func pngOptions(opts exportOpts) ([]export.PNGOption, error) {
	var out []export.PNGOption
	if opts.gradient != "" {
		from, to, ok := strings.Cut(opts.gradient, ",")
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "--gradient wants two colors, e.g. #faf8f3,#f0e6ff")
		}
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		for _, c := range []string{from, to} {
			if err := apperrors.ValidateHexColor(c); err != nil {
				return nil, err
			}
		}
		out = append(out, export.WithGradient(from, to))
	}
	if opts.accent != "" {
		if err := apperrors.ValidateHexColor(opts.accent); err != nil {
			return nil, err
		}
		out = append(out, export.WithAccent(opts.accent))
	}
	return out, nil
}

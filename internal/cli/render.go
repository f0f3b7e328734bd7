package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/radiant/pkg/cache"
	"github.com/matzehuels/radiant/pkg/config"
	"github.com/matzehuels/radiant/pkg/radial"
	"github.com/matzehuels/radiant/pkg/render"
	"github.com/matzehuels/radiant/pkg/render/dot"
	"github.com/matzehuels/radiant/pkg/render/svg"
)

const (
	engineNative    = "native"   // built-in SVG writer
	engineGraphviz  = "graphviz" // DOT with pinned positions, drawn by neato
	defaultPNGScale = 2
	artifactTTL     = 7 * 24 * time.Hour
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "dot": true, "json": true, "pdf": true, "png": true}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	frameOpts
	output      string
	formats     []string
	engine      string
	interactive bool
	hideHidden  bool
	scale       float64
	noCache     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{engine: engineNative, scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [hierarchy.json|hierarchy.toml]",
		Short: "Render a hierarchy as a radial diagram",
		Long: `Render a hierarchy as a radial diagram.

Formats: svg (default), dot, json, pdf, png. PDF and PNG are converted from
SVG with rsvg-convert. With --engine graphviz the SVG is produced by
Graphviz from the DOT export instead of the built-in writer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseList(formatsStr)
			if len(opts.formats) == 0 {
				opts.formats = []string{"svg"}
			}
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if err := validateEngine(opts.engine); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := newArtifactCache(opts.noCache)
			if err != nil {
				return err
			}
			defer store.Close()
			return runRender(cmd.Context(), cfg, store, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "SVG engine: native (default), graphviz")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "embed hover and pulse styles in SVG output")
	cmd.Flags().BoolVar(&opts.hideHidden, "hide-invisible", false, "omit invisible links from DOT output")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered artifact cache")
	opts.frameOpts.register(cmd)

	return cmd
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'dot', 'json', 'pdf', or 'png')", f)
		}
	}
	return nil
}

func validateEngine(e string) error {
	if e != engineNative && e != engineGraphviz {
		return fmt.Errorf("invalid engine: %s (must be 'native' or 'graphviz')", e)
	}
	return nil
}

func runRender(ctx context.Context, cfg config.Config, store cache.Cache, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	f, err := loadFrame(cfg, input, opts.frameOpts)
	if err != nil {
		return err
	}
	printStats(len(f.Nodes), len(f.Links), string(f.Dimensions.Breakpoint))
	if opts.selected != "" {
		if labels, err := breadcrumb(input, opts.selected); err == nil {
			printBreadcrumb(labels)
		}
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		st := newStage(logger, "render")
		data, err := cachedRender(ctx, store, cfg, f, format, opts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		st.done("format", format, "bytes", len(data))
		printFile(path)
	}
	return nil
}

// artifactKey covers everything that changes the bytes of a rendered
// frame. The frame itself already reflects the document, layout settings,
// container size and selection.
func artifactKey(cfg config.Config, f radial.Frame, format string, opts renderOpts) (string, error) {
	frame, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return cache.Key("render", cache.Hash(frame), cfg.Colors, format,
		opts.engine, opts.interactive, opts.hideHidden, opts.scale), nil
}

// cachedRender returns the cached artifact for f when present and renders
// and stores it otherwise. Cache failures only cost a re-render.
func cachedRender(ctx context.Context, store cache.Cache, cfg config.Config, f radial.Frame, format string, opts renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)
	key, err := artifactKey(cfg, f, format, opts)
	if err != nil {
		return nil, err
	}
	if data, ok, err := store.Get(ctx, key); err != nil {
		logger.Warn("artifact cache read failed", "err", err)
	} else if ok {
		logger.Debug("artifact cache hit", "format", format)
		return data, nil
	}

	data, err := renderFrame(ctx, cfg, f, format, opts)
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, data, artifactTTL); err != nil {
		logger.Warn("artifact cache write failed", "err", err)
	}
	return data, nil
}

// renderFrame encodes f in one output format.
func renderFrame(ctx context.Context, cfg config.Config, f radial.Frame, format string, opts renderOpts) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(f, "", "  ")
	case "dot":
		return []byte(dot.ToDOT(f, dot.Options{Colors: cfg.Colors, HideInvisible: opts.hideHidden})), nil
	case "svg":
		return renderSVG(ctx, cfg, f, opts)
	case "pdf", "png":
		doc, err := renderSVG(ctx, cfg, f, opts)
		if err != nil {
			return nil, err
		}
		sp := newSpinnerWithContext(ctx, "Converting to "+format+"...")
		sp.Start()
		defer sp.Stop()
		return render.Convert(ctx, doc, render.Options{
			Format:     render.Format(format),
			Scale:      opts.scale,
			Background: cfg.Colors.Background,
		})
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

func renderSVG(ctx context.Context, cfg config.Config, f radial.Frame, opts renderOpts) ([]byte, error) {
	if opts.engine == engineGraphviz {
		return dot.RenderSVG(ctx, dot.ToDOT(f, dot.Options{Colors: cfg.Colors, HideInvisible: true}))
	}
	svgOpts := []svg.Option{svg.WithColors(cfg.Colors)}
	if opts.interactive {
		svgOpts = append(svgOpts, svg.WithInteraction())
	}
	return svg.Render(f, svgOpts...), nil
}

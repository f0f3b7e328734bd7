// Package cli implements the radiant command-line interface.
//
// The CLI is built with cobra and drives the radial navigator from the
// terminal:
//   - layout: compute the frame for a hierarchy document as JSON
//   - render: draw a frame as SVG, DOT, JSON, PDF or PNG
//   - explore: navigate a hierarchy interactively in the terminal
//   - serve: expose a controller over HTTP with Prometheus metrics
//   - config: show, validate and describe configuration files
//   - cache: inspect and clear the rendered artifact cache
//
// All commands support --verbose (-v) for debug-level logging and
// --config for a TOML configuration file.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/radiant/pkg/buildinfo"
	"github.com/matzehuels/radiant/pkg/config"
	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/layout"
	"github.com/matzehuels/radiant/pkg/radial"
	"github.com/matzehuels/radiant/pkg/selection"
	"github.com/matzehuels/radiant/pkg/viewport"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "radiant"

	defaultWidth  = 1024
	defaultHeight = 768
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also reports the
// calling file and line.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Radiant lays out and navigates three-level hierarchies as radial diagrams",
		Long:         `Radiant arranges a root, its primary topics and their secondary topics on concentric rings, and animates focus changes between them.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig returns the configuration named by --config, or the defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return cfg, nil
}

// computeFrame lays out doc for a container of the given size and
// classifies it for selected. An empty selected id means the root.
func computeFrame(cfg config.Config, doc hierarchy.Document, size viewport.Size, selected string) (radial.Frame, error) {
	tree, err := hierarchy.Build(doc)
	if err != nil {
		return radial.Frame{}, err
	}
	var s *hierarchy.Node
	if selected != "" {
		n, ok := tree.Node(selected)
		if !ok {
			return radial.Frame{}, rerrors.Wrap(rerrors.ErrCodeNotFound, hierarchy.ErrUnknownNode, "select %s", selected)
		}
		s = n
	}
	d := viewport.Resolve(cfg.Viewport(), size, viewport.Size{})
	res := layout.Compute(tree, d, cfg.LayoutOptions())
	return radial.BuildFrame(tree, res, selection.Classify(tree, s), ""), nil
}

// readTree reads and builds the hierarchy document at path.
func readTree(path string) (*hierarchy.Tree, error) {
	doc, err := hierarchy.ReadDocumentFile(path)
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(doc)
}

// breadcrumb returns the labels from the root of the document at path to
// the node id.
func breadcrumb(path, id string) ([]string, error) {
	tree, err := readTree(path)
	if err != nil {
		return nil, err
	}
	nodes, err := tree.Path(id)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(nodes))
	for i, n := range nodes {
		labels[i] = n.Label()
	}
	return labels, nil
}

// parseList splits a comma-separated flag value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/radiant/pkg/config"
	"github.com/matzehuels/radiant/pkg/hierarchy"
	"github.com/matzehuels/radiant/pkg/radial"
	"github.com/matzehuels/radiant/pkg/viewport"
)

// frameOpts are the flags shared by layout and render.
type frameOpts struct {
	width    float64
	height   float64
	selected string
}

func (o *frameOpts) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.width, "width", defaultWidth, "container width")
	cmd.Flags().Float64Var(&o.height, "height", defaultHeight, "container height")
	cmd.Flags().StringVarP(&o.selected, "select", "s", "", "node id to select (default: root)")
	_ = cmd.RegisterFlagCompletionFunc("select", completeNodeIDs)
	cmd.ValidArgsFunction = completeHierarchyFile
}

func (o frameOpts) size() viewport.Size {
	return viewport.Size{Width: o.width, Height: o.height}
}

// layoutCommand creates the layout command, which writes the frame for a
// hierarchy document as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		opts   frameOpts
	)

	cmd := &cobra.Command{
		Use:   "layout [hierarchy.json|hierarchy.toml]",
		Short: "Compute the radial frame for a hierarchy document",
		Long: `Compute the radial frame for a hierarchy document.

The frame holds the resolved dimensions, every node's angle, radius,
position, size and classification, and every link's path. It is what a
renderer draws and is written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cfg, args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	opts.register(cmd)
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, cfg config.Config, input, output string, opts frameOpts) error {
	logger := loggerFromContext(ctx)
	st := newStage(logger, "layout")

	f, err := loadFrame(cfg, input, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	st.done("nodes", len(f.Nodes), "breakpoint", f.Dimensions.Breakpoint)

	if output == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	printFile(output)
	return nil
}

// loadFrame reads a hierarchy document and computes its frame.
func loadFrame(cfg config.Config, input string, opts frameOpts) (radial.Frame, error) {
	doc, err := hierarchy.ReadDocumentFile(input)
	if err != nil {
		return radial.Frame{}, err
	}
	return computeFrame(cfg, doc, opts.size(), opts.selected)
}

// basePath derives the output base path. Without an explicit output it
// strips the extension from input; a known format extension on output is
// stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

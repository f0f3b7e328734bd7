package render

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	rerrors "github.com/matzehuels/radiant/pkg/errors"
)

// Converter is the external tool used for raster and print output.
const Converter = "rsvg-convert"

// Format is a target of [Convert].
type Format string

const (
	PDF Format = "pdf"
	PNG Format = "png"
)

// Options control [Convert].
type Options struct {
	Format Format

	// Scale multiplies the output resolution. PNG only; zero means 1.
	Scale float64

	// Background fills the canvas behind the diagram, e.g. "#ffffff".
	// Empty keeps it transparent.
	Background string
}

// args builds the converter command line.
func (o Options) args() []string {
	args := []string{"-f", string(o.Format)}
	if o.Format == PNG && o.Scale > 0 && o.Scale != 1 {
		args = append(args, "-z", strconv.FormatFloat(o.Scale, 'f', 2, 64))
	}
	if o.Background != "" {
		args = append(args, "-b", o.Background)
	}
	return args
}

// Available reports whether the converter is on PATH.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

// Convert turns an SVG document into PDF or PNG by piping it through
// rsvg-convert (librsvg2-bin on Debian, librsvg on Homebrew).
func Convert(ctx context.Context, svg []byte, opts Options) ([]byte, error) {
	if opts.Format != PDF && opts.Format != PNG {
		return nil, rerrors.New(rerrors.ErrCodeInvalidInput, "cannot convert svg to %q", opts.Format)
	}

	cmd := exec.CommandContext(ctx, Converter, opts.args()...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &out, &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, rerrors.Wrap(rerrors.ErrCodeInternal, err, "%s output needs %s from librsvg", opts.Format, Converter)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, rerrors.Wrap(rerrors.ErrCodeInternal, err, "%s: %s", Converter, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

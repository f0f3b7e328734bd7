package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/radiant/pkg/geom"
	"github.com/matzehuels/radiant/pkg/hierarchy"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether both sides are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.Width, s.Height) }

// Settings configures [Resolve].
type Settings struct {
	Breakpoints Breakpoints
	Mobile      Profile
	Tablet      Profile
	Desktop     Profile

	MinWidth       float64 // lower bound for the drawing width
	MinHeight      float64 // lower bound for the drawing height
	MaxWidthRatio  float64 // fraction of the viewport width (0.9)
	MaxHeightRatio float64 // fraction of the viewport height (0.7)

	RadiusRatio    float64 // fraction of min(width, height) (0.35)
	RadiusMaxRatio float64 // fraction of width the radius may not exceed (0.4)
	RadiusMinScale float64 // multiple of the central node size (1.5)

	// InnerRatio places the primary ring at this fraction of the radius.
	// The secondary ring sits on the radius itself.
	InnerRatio float64
}

// DefaultSettings returns the built-in sizing.
func DefaultSettings() Settings {
	m, t, d := DefaultProfiles()
	return Settings{
		Breakpoints:    DefaultBreakpoints(),
		Mobile:         m,
		Tablet:         t,
		Desktop:        d,
		MinWidth:       280,
		MinHeight:      280,
		MaxWidthRatio:  0.9,
		MaxHeightRatio: 0.7,
		RadiusRatio:    0.35,
		RadiusMaxRatio: 0.4,
		RadiusMinScale: 1.5,
		InnerRatio:     0.55,
	}
}

// Validate checks the breakpoints, every profile and the ratios.
func (s Settings) Validate() error {
	if err := s.Breakpoints.Validate(); err != nil {
		return err
	}
	for name, p := range map[Breakpoint]Profile{Mobile: s.Mobile, Tablet: s.Tablet, Desktop: s.Desktop} {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s profile: %w", name, err)
		}
	}
	if s.MinWidth < 0 || s.MinHeight < 0 {
		return errors.New("minimum width and height must not be negative")
	}
	ratios := []struct {
		name string
		v    float64
	}{
		{"max_width_ratio", s.MaxWidthRatio},
		{"max_height_ratio", s.MaxHeightRatio},
		{"radius_ratio", s.RadiusRatio},
		{"radius_max_ratio", s.RadiusMaxRatio},
		{"inner_ratio", s.InnerRatio},
	}
	for _, r := range ratios {
		if r.v <= 0 || r.v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %g", r.name, r.v)
		}
	}
	if s.RadiusMinScale <= 0 {
		return fmt.Errorf("radius_min_scale must be positive, got %g", s.RadiusMinScale)
	}
	return nil
}

// Profile returns the table for a breakpoint.
func (s Settings) Profile(b Breakpoint) Profile {
	switch b {
	case Mobile:
		return s.Mobile
	case Tablet:
		return s.Tablet
	default:
		return s.Desktop
	}
}

// Dimensions is the fully resolved sizing for one layout pass.
type Dimensions struct {
	Breakpoint Breakpoint `json:"breakpoint"`
	Viewport   Size       `json:"viewport"`
	Container  Size       `json:"container"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`

	CentralNodeSize   float64 `json:"central_node_size"`
	PrimaryNodeSize   float64 `json:"primary_node_size"`
	SecondaryNodeSize float64 `json:"secondary_node_size"`

	CentralFontSize   float64 `json:"central_font_size"`
	PrimaryFontSize   float64 `json:"primary_font_size"`
	SecondaryFontSize float64 `json:"secondary_font_size"`

	InnerRadius float64 `json:"inner_radius"`
	OuterRadius float64 `json:"outer_radius"`
	Spacing     float64 `json:"spacing"`
}

// RadiusFor returns the ring radius for a hierarchy depth.
func (d Dimensions) RadiusFor(depth int) float64 {
	switch depth {
	case hierarchy.DepthRoot:
		return 0
	case hierarchy.DepthPrimary:
		return d.InnerRadius
	default:
		return d.OuterRadius
	}
}

// NodeSize returns the node size for a hierarchy depth.
func (d Dimensions) NodeSize(depth int) float64 {
	switch depth {
	case hierarchy.DepthRoot:
		return d.CentralNodeSize
	case hierarchy.DepthPrimary:
		return d.PrimaryNodeSize
	default:
		return d.SecondaryNodeSize
	}
}

// FontSize returns the label font size for a hierarchy depth.
func (d Dimensions) FontSize(depth int) float64 {
	switch depth {
	case hierarchy.DepthRoot:
		return d.CentralFontSize
	case hierarchy.DepthPrimary:
		return d.PrimaryFontSize
	default:
		return d.SecondaryFontSize
	}
}

// Center returns the drawing center.
func (d Dimensions) Center() geom.Point {
	return geom.Point{X: d.Width / 2, Y: d.Height / 2}
}

// Resolve computes the dimensions for a container inside a viewport.
// A zero viewport means the container is the viewport.
func Resolve(s Settings, container, viewport Size) Dimensions {
	if viewport.IsZero() {
		viewport = container
	}
	bp := s.Breakpoints.Classify(container.Width)
	p := s.Profile(bp)
	fluid := func(lo, hi float64) float64 {
		return Fluid(lo, hi, container.Width, s.Breakpoints)
	}

	d := Dimensions{
		Breakpoint: bp,
		Viewport:   viewport,
		Container:  container,

		Width:  bounded(container.Width, s.MinWidth, viewport.Width*s.MaxWidthRatio),
		Height: bounded(container.Height, s.MinHeight, viewport.Height*s.MaxHeightRatio),

		CentralNodeSize:   fluid(p.CentralNodeSize, s.Desktop.CentralNodeSize),
		PrimaryNodeSize:   fluid(p.PrimaryNodeSize, s.Desktop.PrimaryNodeSize),
		SecondaryNodeSize: fluid(p.SecondaryNodeSize, s.Desktop.SecondaryNodeSize),
		CentralFontSize:   fluid(p.CentralFontSize, s.Desktop.CentralFontSize),
		PrimaryFontSize:   fluid(p.PrimaryFontSize, s.Desktop.PrimaryFontSize),
		SecondaryFontSize: fluid(p.SecondaryFontSize, s.Desktop.SecondaryFontSize),
		Spacing:           fluid(p.Spacing, s.Desktop.Spacing),
	}

	r := s.RadiusRatio * math.Min(d.Width, d.Height)
	r = math.Max(r, s.RadiusMinScale*p.CentralNodeSize)
	r = math.Min(r, s.RadiusMaxRatio*d.Width)
	d.Radius = r
	d.OuterRadius = r
	d.InnerRadius = r * s.InnerRatio
	return d
}

// bounded clamps v to [lo, hi]. The upper bound wins when the viewport is
// smaller than the configured minimum.
func bounded(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// RelayoutThreshold is the relative change below which a resize is ignored.
const RelayoutThreshold = 0.01

// ShouldRelayout reports whether next differs from prev by more than
// threshold (relative) in width or height. A zero prev always relayouts.
func ShouldRelayout(prev, next Size, threshold float64) bool {
	if prev.IsZero() {
		return !next.IsZero()
	}
	return changed(prev.Width, next.Width, threshold) || changed(prev.Height, next.Height, threshold)
}

func changed(prev, next, threshold float64) bool {
	if prev == 0 {
		return next != 0
	}
	return math.Abs(next-prev)/math.Abs(prev) > threshold
}

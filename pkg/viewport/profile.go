package viewport

import (
	"fmt"

	"github.com/matzehuels/radiant/pkg/geom"
)

// Breakpoint names a viewport class.
type Breakpoint string

const (
	Mobile  Breakpoint = "mobile"
	Tablet  Breakpoint = "tablet"
	Desktop Breakpoint = "desktop"
)

// Breakpoints holds the widths that separate the three classes.
type Breakpoints struct {
	Small  float64 `json:"small" toml:"small"`   // below: mobile
	Medium float64 `json:"medium" toml:"medium"` // below: tablet; at or above: desktop
}

// DefaultBreakpoints returns 768 and 1024.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{Small: 768, Medium: 1024}
}

// Classify returns the breakpoint for a container width.
func (b Breakpoints) Classify(width float64) Breakpoint {
	switch {
	case width < b.Small:
		return Mobile
	case width < b.Medium:
		return Tablet
	default:
		return Desktop
	}
}

// Validate checks that the widths are positive and ordered.
func (b Breakpoints) Validate() error {
	if b.Small <= 0 || b.Medium <= 0 {
		return fmt.Errorf("breakpoints must be positive (small=%g, medium=%g)", b.Small, b.Medium)
	}
	if b.Small >= b.Medium {
		return fmt.Errorf("small breakpoint %g must be below medium %g", b.Small, b.Medium)
	}
	return nil
}

// Profile is the sizing table for one breakpoint.
type Profile struct {
	CentralNodeSize   float64 `json:"central_node_size" toml:"central_node_size"`
	PrimaryNodeSize   float64 `json:"primary_node_size" toml:"primary_node_size"`
	SecondaryNodeSize float64 `json:"secondary_node_size" toml:"secondary_node_size"`

	CentralFontSize   float64 `json:"central_font_size" toml:"central_font_size"`
	PrimaryFontSize   float64 `json:"primary_font_size" toml:"primary_font_size"`
	SecondaryFontSize float64 `json:"secondary_font_size" toml:"secondary_font_size"`

	// Spacing is the gap between a secondary node and its label.
	Spacing float64 `json:"spacing" toml:"spacing"`
}

// Validate reports the first non-positive size.
func (p Profile) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"central_node_size", p.CentralNodeSize},
		{"primary_node_size", p.PrimaryNodeSize},
		{"secondary_node_size", p.SecondaryNodeSize},
		{"central_font_size", p.CentralFontSize},
		{"primary_font_size", p.PrimaryFontSize},
		{"secondary_font_size", p.SecondaryFontSize},
	}
	for _, f := range fields {
		if f.v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", f.name, f.v)
		}
	}
	if p.Spacing < 0 {
		return fmt.Errorf("spacing must not be negative, got %g", p.Spacing)
	}
	return nil
}

// DefaultProfiles returns the built-in mobile, tablet and desktop tables.
func DefaultProfiles() (mobile, tablet, desktop Profile) {
	mobile = Profile{
		CentralNodeSize: 40, PrimaryNodeSize: 14, SecondaryNodeSize: 6,
		CentralFontSize: 12, PrimaryFontSize: 10, SecondaryFontSize: 8,
		Spacing: 6,
	}
	tablet = Profile{
		CentralNodeSize: 52, PrimaryNodeSize: 18, SecondaryNodeSize: 8,
		CentralFontSize: 14, PrimaryFontSize: 12, SecondaryFontSize: 10,
		Spacing: 8,
	}
	desktop = Profile{
		CentralNodeSize: 64, PrimaryNodeSize: 22, SecondaryNodeSize: 10,
		CentralFontSize: 18, PrimaryFontSize: 14, SecondaryFontSize: 12,
		Spacing: 10,
	}
	return mobile, tablet, desktop
}

// Fluid interpolates between lo and hi as width moves from the small to the
// medium breakpoint, clamped to [lo, hi].
func Fluid(lo, hi, width float64, b Breakpoints) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := b.Medium - b.Small
	if span <= 0 {
		return lo
	}
	t := (width - b.Small) / span
	return geom.Clamp(geom.Lerp(lo, hi, t), lo, hi)
}
